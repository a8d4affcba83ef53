package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/calciostats/calcio-data/internal/provider/quota"
)

const (
	rapidAPIBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	rapidAPIHost    = "api-football-v1.p.rapidapi.com"

	rapidDailyLimit = 100
	rapidPerMinute  = 30

	// A persistently-429ing endpoint retries this many times before giving
	// up, in addition to the daily budget gate.
	maxRetryAttempts = 5
)

// RapidAPI is the quota-governed API-Football client (RapidAPI gateway).
// It drains paginated endpoints into one envelope and reconciles the daily
// counter from the gateway's quota headers.
type RapidAPI struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	governor   *quota.Governor
	cooldown   time.Duration
	logger     *slog.Logger
}

// NewRapidAPI creates the RapidAPI provider. The request counter persists
// under stateDir.
func NewRapidAPI(baseURL, apiKey, stateDir string, logger *slog.Logger) (*RapidAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("rapidapi: api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	governor, err := quota.New(stateDir, NameRapidAPI, rapidDailyLimit, rapidPerMinute, logger)
	if err != nil {
		return nil, fmt.Errorf("rapidapi: init governor: %w", err)
	}
	return &RapidAPI{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		governor:   governor,
		cooldown:   time.Minute / rapidPerMinute,
		logger:     logger,
	}, nil
}

func (c *RapidAPI) Name() string { return NameRapidAPI }

// FetchStatic retrieves a static reference endpoint (countries, timezone,
// leagues).
func (c *RapidAPI) FetchStatic(ctx context.Context, endpoint string) (*Envelope, error) {
	return c.get(ctx, "/"+endpoint, url.Values{}, "static data for "+endpoint)
}

// FetchTeams retrieves the teams of a league-season.
func (c *RapidAPI) FetchTeams(ctx context.Context, leagueID, season string) (*Envelope, error) {
	params := url.Values{}
	params.Set("league", leagueID)
	params.Set("season", season)
	return c.get(ctx, "/teams", params, fmt.Sprintf("teams for league %s season %s", leagueID, season))
}

// FetchPlayers retrieves the players of a team-season, statistics included.
func (c *RapidAPI) FetchPlayers(ctx context.Context, teamID, season string) (*Envelope, error) {
	params := url.Values{}
	params.Set("team", teamID)
	params.Set("season", season)
	return c.get(ctx, "/players", params, fmt.Sprintf("players for team %s season %s", teamID, season))
}

// get performs a budget-gated GET, transparently draining multi-page
// responses into one envelope. Returns (nil, nil) when the daily budget
// denies the request or the endpoint fails non-fatally; both are "no
// data", not errors. A denial partway through a multi-page drain returns
// the pages fetched so far instead.
func (c *RapidAPI) get(ctx context.Context, path string, params url.Values, logContext string) (*Envelope, error) {
	var merged *Envelope
	page := 1
	usePagination := false

	for {
		if usePagination {
			params.Set("page", strconv.Itoa(page))
		} else {
			params.Del("page")
		}

		env, err := c.getPage(ctx, path, params, logContext)
		if err != nil {
			return nil, err
		}
		if env == nil {
			// Mid-drain denial: keep the pages already fetched rather than
			// discarding counted requests.
			if merged != nil {
				c.logger.Warn("pagination stopped early", "context", logContext, "pages", page-1)
				break
			}
			return nil, nil
		}

		if merged == nil {
			merged = env
			if env.Paging != nil && env.Paging.Total > 1 {
				usePagination = true
			}
		} else {
			merged.Response = append(merged.Response, env.Response...)
		}

		c.logger.Info("page retrieved", "context", logContext, "page", page, "items", len(env.Response))

		if !usePagination || env.Paging == nil || env.Paging.Current >= env.Paging.Total {
			break
		}
		page++
	}

	merged.Results = len(merged.Response)
	return merged, nil
}

// getPage fetches one page, retrying on 429 with a cooldown, bounded by
// maxRetryAttempts and the daily budget.
func (c *RapidAPI) getPage(ctx context.Context, path string, params url.Values, logContext string) (*Envelope, error) {
	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if !c.governor.Allow() {
			return nil, nil
		}
		if err := c.governor.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pacing wait: %w", err)
		}

		u := c.baseURL + path
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", rapidAPIHost)

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
			c.reconcile(resp.Header)
			var env Envelope
			if err := json.Unmarshal(body, &env); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
			return &env, nil

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

// reconcile updates the daily counter from the gateway quota headers when
// present, falling back to a local increment.
func (c *RapidAPI) reconcile(header http.Header) {
	limit, errL := strconv.Atoi(header.Get("x-ratelimit-requests-limit"))
	remaining, errR := strconv.Atoi(header.Get("x-ratelimit-requests-remaining"))
	if errL == nil && errR == nil {
		c.governor.Reconcile(limit, remaining)
		c.logger.Info("requests remaining today", "remaining", remaining)
		return
	}
	c.governor.Record()
}
