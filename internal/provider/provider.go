// Package provider implements the JSON API clients used by the fetch
// pipeline. Every provider normalizes into the shared response Envelope;
// the fetch runner and the normalization layer never change when a
// provider is added.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Paging is the pagination envelope some endpoints carry.
type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Envelope is the common API response wrapper. Multi-page results are
// drained by the client into one envelope whose Response holds every
// page's items in first-to-last order.
type Envelope struct {
	Get        string            `json:"get"`
	Parameters json.RawMessage   `json:"parameters,omitempty"`
	Errors     json.RawMessage   `json:"errors,omitempty"`
	Results    int               `json:"results,omitempty"`
	Paging     *Paging           `json:"paging,omitempty"`
	Response   []json.RawMessage `json:"response"`
}

// Provider is the capability surface the fetch runner depends on. A nil
// envelope with a nil error means "no data": the daily budget denied the
// request or the endpoint failed non-fatally.
type Provider interface {
	Name() string
	FetchStatic(ctx context.Context, endpoint string) (*Envelope, error)
	FetchTeams(ctx context.Context, leagueID, season string) (*Envelope, error)
	FetchPlayers(ctx context.Context, teamID, season string) (*Envelope, error)
}

// Supported provider names; selection is a closed set, not open dispatch.
const (
	NameRapidAPI        = "api_football_rapid"
	NameFootballDataOrg = "api_football_data_org"
)

// New builds the named provider. Unknown names are a configuration error.
func New(name, apiKey, stateDir string, logger *slog.Logger) (Provider, error) {
	switch name {
	case NameRapidAPI:
		return NewRapidAPI(rapidAPIBaseURL, apiKey, stateDir, logger)
	case NameFootballDataOrg:
		return NewFootballDataOrg(footballDataBaseURL, apiKey, stateDir, logger)
	default:
		return nil, fmt.Errorf("unsupported provider %q", name)
	}
}
