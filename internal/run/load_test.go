package run

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calciostats/calcio-data/internal/provider"
)

func TestLoadReadsFetchedTeamsFiles(t *testing.T) {
	dataDir := t.TempDir()
	p := &fakeProvider{teams: map[string]*provider.Envelope{
		"135/2021": envelope("teams", `{"team":{"id":505,"name":"Inter"},"venue":{"id":907,"name":"San Siro"}}`),
	}}

	result := FetchTeams(context.Background(), p, dataDir, "135", []string{"2021"}, testLogger)
	require.Empty(t, result.Errors)

	files, err := filepath.Glob(filepath.Join(dataDir, "fake", "specifics", "teams", "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	records, err := readItems(files[0], "teams")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, float64(505), records[0]["team_id"])
	assert.Equal(t, "Inter", records[0]["team_name"])
	assert.Equal(t, "San Siro", records[0]["venue_name"], "flattened keys line up with the team insert columns")
}

func TestLoadReadsFetchedPlayersFiles(t *testing.T) {
	dataDir := t.TempDir()
	env := envelope("players",
		`{"player":{"id":217,"name":"L. Martínez"},"statistics":[{"goals":{"total":21}}]}`)
	env.Parameters = json.RawMessage(`{"team":"505","season":"2021"}`)
	p := &fakeProvider{players: map[string]*provider.Envelope{"505/2021": env}}

	result := FetchPlayers(context.Background(), p, dataDir, []string{"505"}, "2021", testLogger)
	require.Empty(t, result.Errors)

	files, err := filepath.Glob(filepath.Join(dataDir, "fake", "specifics", "players", "*", "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	team, season, records, err := readPlayers(files[0])
	require.NoError(t, err)
	assert.Equal(t, "505", team)
	assert.Equal(t, "2021", season)
	require.Len(t, records, 1)
	assert.Equal(t, float64(217), records[0]["player_id"])
	assert.Equal(t, float64(21), records[0]["statistics_goals_total"])
}

func TestReadPlayersRejectsMissingKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"get":"players"}`), 0o644))

	_, _, _, err := readPlayers(path)
	require.Error(t, err)
}
