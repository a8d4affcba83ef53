package run

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/calciostats/calcio-data/internal/store"
)

// Load performs a full relational reload from previously saved JSON:
// truncate everything, repopulate the reference tables in foreign-key
// order, then every saved teams and players file. Inserts are idempotent
// via conflict-ignore on natural keys.
func Load(ctx context.Context, pool *store.Pool, dataDir, providerName string, logger *slog.Logger) error {
	dir := filepath.Join(dataDir, providerName, "generics")

	if err := pool.TruncateAll(ctx); err != nil {
		return err
	}
	logger.Info("tables truncated")

	countries, err := readItems(filepath.Join(dir, "countries.json"), "countries")
	if err != nil {
		return err
	}
	n, err := pool.InsertCountries(ctx, countries)
	if err != nil {
		return err
	}
	logger.Info("countries loaded", "count", n)

	zones, err := readStrings(filepath.Join(dir, "timezone.json"), "timezone")
	if err != nil {
		return err
	}
	n, err = pool.InsertTimezones(ctx, zones)
	if err != nil {
		return err
	}
	logger.Info("timezones loaded", "count", n)

	leagues, err := readItems(filepath.Join(dir, "leagues.json"), "leagues")
	if err != nil {
		return err
	}
	n, err = pool.InsertLeagues(ctx, leagues)
	if err != nil {
		return err
	}
	logger.Info("leagues loaded", "count", n)

	teamFiles, err := filepath.Glob(filepath.Join(dataDir, providerName, "specifics", "teams", "*.json"))
	if err != nil {
		return fmt.Errorf("list team files: %w", err)
	}
	n = 0
	for _, path := range teamFiles {
		records, err := readItems(path, "teams")
		if err != nil {
			return err
		}
		ins, err := pool.InsertTeams(ctx, records)
		if err != nil {
			return err
		}
		n += ins
	}
	logger.Info("teams loaded", "files", len(teamFiles), "count", n)

	playerFiles, err := filepath.Glob(filepath.Join(dataDir, providerName, "specifics", "players", "*", "*.json"))
	if err != nil {
		return fmt.Errorf("list player files: %w", err)
	}
	n = 0
	for _, path := range playerFiles {
		teamID, season, records, err := readPlayers(path)
		if err != nil {
			return err
		}
		ins, err := pool.InsertPlayers(ctx, teamID, season, records)
		if err != nil {
			return err
		}
		n += ins
	}
	logger.Info("players loaded", "files", len(playerFiles), "count", n)

	return nil
}

// readItems loads the object list stored under the endpoint's own key in a
// saved static-data file.
func readItems(path, key string) ([]map[string]any, error) {
	var file map[string]any
	if err := store.ReadJSON(path, &file); err != nil {
		return nil, err
	}
	raw, ok := file[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s: key %q missing or not a list", path, key)
	}
	items := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if item, ok := r.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// readPlayers loads a saved players file: the flattened records plus the
// team and season recorded alongside them at fetch time.
func readPlayers(path string) (team, season any, records []map[string]any, err error) {
	var file map[string]any
	if err := store.ReadJSON(path, &file); err != nil {
		return nil, nil, nil, err
	}
	raw, ok := file["players"].([]any)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: key %q missing or not a list", path, "players")
	}
	records = make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if item, ok := r.(map[string]any); ok {
			records = append(records, item)
		}
	}
	return file["team"], file["season"], records, nil
}

func readStrings(path, key string) ([]string, error) {
	var file map[string]any
	if err := store.ReadJSON(path, &file); err != nil {
		return nil, err
	}
	raw, ok := file[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s: key %q missing or not a list", path, key)
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
