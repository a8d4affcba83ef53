// Package config provides centralized configuration loaded from environment
// variables. Shared by every calcio-ingest subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Competition registry — one entry per supported championship
// --------------------------------------------------------------------------

type Competition struct {
	ID   string
	Name string
	URL  string
}

var CompetitionRegistry = map[string]Competition{
	"serie_a":        {ID: "serie_a", Name: "Serie A", URL: "https://www.transfermarkt.it/serie-a/startseite/wettbewerb/IT1"},
	"premier_league": {ID: "premier_league", Name: "Premier League", URL: "https://www.transfermarkt.it/premier-league/startseite/wettbewerb/GB1"},
	"la_liga":        {ID: "la_liga", Name: "La Liga", URL: "https://www.transfermarkt.it/la-liga/startseite/wettbewerb/ES1"},
	"bundesliga":     {ID: "bundesliga", Name: "Bundesliga", URL: "https://www.transfermarkt.it/bundesliga/startseite/wettbewerb/L1"},
	"ligue_1":        {ID: "ligue_1", Name: "Ligue 1", URL: "https://www.transfermarkt.it/ligue-1/startseite/wettbewerb/FR1"},
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	CountriesTable   = "countries"
	TimezonesTable   = "timezones"
	LeaguesTable     = "leagues"
	SeasonsTable     = "seasons"
	TeamsTable       = "teams"
	PlayersTable     = "players"
	PlayerStatsTable = "player_statistics"
	TeamStatsTable   = "team_statistics"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Scraping (HTML path)
	ScrapeBaseURL string
	ScrapeDelay   time.Duration
	ScrapeWorkers int
	Seasons       []string

	// API providers
	ProviderName    string
	RapidAPIKey     string
	FootballDataKey string

	// Local state and output directories
	StateDir string
	DataDir  string
}

// Load reads configuration from environment variables with sensible defaults.
// Only credentials are hard requirements, and those are validated by the
// subcommands that actually need them.
func Load() (*Config, error) {
	return &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		ScrapeBaseURL: envOr("SCRAPE_BASE_URL", "https://www.transfermarkt.it"),
		ScrapeDelay:   time.Duration(envInt("SCRAPE_DELAY_SECONDS", 1)) * time.Second,
		ScrapeWorkers: envInt("SCRAPE_WORKERS", 1),
		Seasons:       envList("SEASONS", []string{"2024"}),

		ProviderName:    envOr("PROVIDER_NAME", "api_football_rapid"),
		RapidAPIKey:     envOr("API_FOOTBALL_RAPID_KEY", ""),
		FootballDataKey: envOr("API_FOOTBALL_DATA_ORG_KEY", ""),

		StateDir: envOr("STATE_DIR", "state"),
		DataDir:  envOr("DATA_DIR", "data"),
	}, nil
}

// ProviderKey returns the API key configured for the named provider.
func (c *Config) ProviderKey(provider string) (string, error) {
	switch provider {
	case "api_football_rapid":
		if c.RapidAPIKey == "" {
			return "", fmt.Errorf("API_FOOTBALL_RAPID_KEY is required for provider %s", provider)
		}
		return c.RapidAPIKey, nil
	case "api_football_data_org":
		if c.FootballDataKey == "" {
			return "", fmt.Errorf("API_FOOTBALL_DATA_ORG_KEY is required for provider %s", provider)
		}
		return c.FootballDataKey, nil
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
