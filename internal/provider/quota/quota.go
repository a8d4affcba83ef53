// Package quota enforces per-provider request budgets: a persisted daily
// request counter and an optional per-minute pacing limiter.
//
// The counter survives process restarts in a small JSON file, one per
// provider, so successive runs on the same calendar day share the budget.
package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const dateLayout = "2006-01-02"

// Counter is the persisted daily request state.
type Counter struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Governor gates requests against a daily limit and paces them against a
// per-minute cap. All methods are safe for concurrent use; the counter is
// read-modify-written under one lock.
type Governor struct {
	mu         sync.Mutex
	path       string
	dailyLimit int
	limiter    *rate.Limiter
	counter    Counter
	logger     *slog.Logger

	now func() time.Time
}

// New creates a governor persisting its counter under stateDir. Pass
// requestsPerMinute 0 for providers without a per-minute cap.
func New(stateDir, provider string, dailyLimit, requestsPerMinute int, logger *slog.Logger) (*Governor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	g := &Governor{
		path:       filepath.Join(stateDir, provider+"_counter.json"),
		dailyLimit: dailyLimit,
		logger:     logger,
		now:        time.Now,
	}
	if requestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}

	g.counter = g.load()
	return g, nil
}

// load reads the persisted counter, reinitializing it when the file is
// missing, malformed, or incomplete.
func (g *Governor) load() Counter {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return g.fresh()
	}
	var c Counter
	if err := json.Unmarshal(data, &c); err != nil || c.Date == "" || c.Count < 0 {
		g.logger.Warn("request counter file corrupt, reinitializing", "path", g.path)
		return g.fresh()
	}
	return c
}

func (g *Governor) fresh() Counter {
	c := Counter{Count: 0, Date: g.now().Format(dateLayout)}
	g.save(c)
	return c
}

func (g *Governor) save(c Counter) {
	data, _ := json.Marshal(c)
	if err := os.WriteFile(g.path, data, 0o644); err != nil {
		g.logger.Error("persist request counter", "path", g.path, "error", err)
	}
}

// Allow reports whether one more request fits in today's budget. A date
// rollover resets the counter before the check.
func (g *Governor) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now().Format(dateLayout)
	if g.counter.Date != today {
		g.counter = Counter{Count: 0, Date: today}
		g.save(g.counter)
		g.logger.Info("daily request counter reset", "date", today)
	}

	if g.counter.Count >= g.dailyLimit {
		g.logger.Warn("daily request limit reached", "count", g.counter.Count, "limit", g.dailyLimit)
		return false
	}
	return true
}

// Wait blocks until the per-minute pacing admits the next request. A nil
// limiter (no per-minute cap) admits immediately.
func (g *Governor) Wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// Record accounts one request by local increment.
func (g *Governor) Record() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter.Count++
	g.save(g.counter)
}

// Reconcile overwrites the local count from provider quota headers.
// Header-based accounting takes precedence over local increments: it
// reflects ground truth across possibly-multiple processes.
func (g *Governor) Reconcile(limit, remaining int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter.Count = limit - remaining
	g.save(g.counter)
}

// Remaining returns how many requests are left in today's budget.
func (g *Governor) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	left := g.dailyLimit - g.counter.Count
	if left < 0 {
		return 0
	}
	return left
}
