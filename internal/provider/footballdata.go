package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/calciostats/calcio-data/internal/provider/quota"
)

const (
	footballDataBaseURL    = "https://api.football-data.org/v4"
	footballDataDailyLimit = 100
	footballDataCooldown   = 60 * time.Second
)

// FootballDataOrg is the simple-key football-data.org client. It has no
// per-minute cap and no pagination envelope; the daily counter is kept by
// local increment since the provider exposes no quota headers.
type FootballDataOrg struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	governor   *quota.Governor
	cooldown   time.Duration
	logger     *slog.Logger
}

// NewFootballDataOrg creates the football-data.org provider.
func NewFootballDataOrg(baseURL, apiKey, stateDir string, logger *slog.Logger) (*FootballDataOrg, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("football-data.org: api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	governor, err := quota.New(stateDir, NameFootballDataOrg, footballDataDailyLimit, 0, logger)
	if err != nil {
		return nil, fmt.Errorf("football-data.org: init governor: %w", err)
	}
	return &FootballDataOrg{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		governor:   governor,
		cooldown:   footballDataCooldown,
		logger:     logger,
	}, nil
}

func (c *FootballDataOrg) Name() string { return NameFootballDataOrg }

func (c *FootballDataOrg) FetchStatic(ctx context.Context, endpoint string) (*Envelope, error) {
	return c.get(ctx, "/"+endpoint, "static data for "+endpoint)
}

func (c *FootballDataOrg) FetchTeams(ctx context.Context, leagueID, season string) (*Envelope, error) {
	path := fmt.Sprintf("/competitions/%s/teams?season=%s", leagueID, season)
	return c.get(ctx, path, fmt.Sprintf("teams for competition %s season %s", leagueID, season))
}

func (c *FootballDataOrg) FetchPlayers(ctx context.Context, teamID, season string) (*Envelope, error) {
	path := fmt.Sprintf("/teams/%s", teamID)
	return c.get(ctx, path, fmt.Sprintf("squad for team %s season %s", teamID, season))
}

// get performs one budget-gated GET with a 429 cooldown retry. The raw
// body is wrapped into the shared envelope: an object without a "response"
// array becomes a single-element response.
func (c *FootballDataOrg) get(ctx context.Context, path, logContext string) (*Envelope, error) {
	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if !c.governor.Allow() {
			return nil, nil
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-Auth-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("connection error", "context", logContext, "error", err)
			return nil, nil
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			c.governor.Record()
			c.logger.Info("retrieved", "context", logContext)
			return wrapEnvelope(path, body)

		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("rate limited, cooling down", "context", logContext, "cooldown", c.cooldown)
			select {
			case <-time.After(c.cooldown):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

		default:
			c.logger.Error("api call failed", "context", logContext, "status", resp.StatusCode)
			return nil, nil
		}
	}

	c.logger.Error("retry attempts exhausted", "context", logContext, "attempts", maxRetryAttempts)
	return nil, nil
}

func wrapEnvelope(path string, body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Response != nil {
		return &env, nil
	}
	return &Envelope{
		Get:      path,
		Results:  1,
		Response: []json.RawMessage{json.RawMessage(body)},
	}, nil
}
