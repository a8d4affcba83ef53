package run

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/calciostats/calcio-data/internal/normalize"
	"github.com/calciostats/calcio-data/internal/provider"
	"github.com/calciostats/calcio-data/internal/store"
)

// StaticEndpoints are the reference endpoints fetched before any
// league-specific data.
var StaticEndpoints = []string{"countries", "timezone", "leagues"}

// FetchStatic retrieves and saves the static reference endpoints. A nil
// envelope (budget denial or hard failure) is recorded and skipped.
func FetchStatic(ctx context.Context, p provider.Provider, dataDir string, logger *slog.Logger) Result {
	var result Result
	dir := filepath.Join(dataDir, p.Name(), "generics")

	for _, endpoint := range StaticEndpoints {
		env, err := p.FetchStatic(ctx, endpoint)
		if err != nil {
			result.AddErrorf("fetch %s: %v", endpoint, err)
			continue
		}
		if env == nil {
			result.AddErrorf("no data for %s", endpoint)
			continue
		}

		name := store.SlashToUnderscore(endpoint) + ".json"
		if err := store.WriteJSON(dir, name, normalize.Static(env)); err != nil {
			result.AddErrorf("save %s: %v", endpoint, err)
			continue
		}
		result.Files++
		logger.Info("static data saved", "endpoint", endpoint, "items", len(env.Response))
	}
	return result
}

// FetchTeams retrieves and saves the teams of a league across seasons.
func FetchTeams(ctx context.Context, p provider.Provider, dataDir, leagueID string, seasons []string, logger *slog.Logger) Result {
	var result Result
	dir := filepath.Join(dataDir, p.Name(), "specifics", "teams")

	for _, season := range seasons {
		env, err := p.FetchTeams(ctx, leagueID, season)
		if err != nil {
			result.AddErrorf("fetch teams %s/%s: %v", leagueID, season, err)
			continue
		}
		if env == nil {
			result.AddErrorf("no team data for league %s season %s", leagueID, season)
			continue
		}

		name := fmt.Sprintf("%s_%s.json", leagueID, season)
		if err := store.WriteJSON(dir, name, normalize.Teams(env)); err != nil {
			result.AddErrorf("save teams %s/%s: %v", leagueID, season, err)
			continue
		}
		result.Teams += len(env.Response)
		result.Files++
		logger.Info("teams saved", "league", leagueID, "season", season, "count", len(env.Response))
	}
	return result
}

// FetchPlayers retrieves and saves player records, statistics included,
// for each team of a season.
func FetchPlayers(ctx context.Context, p provider.Provider, dataDir string, teamIDs []string, season string, logger *slog.Logger) Result {
	var result Result
	dir := filepath.Join(dataDir, p.Name(), "specifics", "players", season)

	for _, teamID := range teamIDs {
		env, err := p.FetchPlayers(ctx, teamID, season)
		if err != nil {
			result.AddErrorf("fetch players %s/%s: %v", teamID, season, err)
			continue
		}
		if env == nil {
			result.AddErrorf("no player data for team %s season %s", teamID, season)
			continue
		}

		name := fmt.Sprintf("%s_%s.json", teamID, season)
		if err := store.WriteJSON(dir, name, normalize.Players(env)); err != nil {
			result.AddErrorf("save players %s/%s: %v", teamID, season, err)
			continue
		}
		result.Players += len(env.Response)
		result.Files++
		logger.Info("players saved", "team", teamID, "season", season, "count", len(env.Response))
	}
	return result
}
