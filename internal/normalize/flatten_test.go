package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calciostats/calcio-data/internal/provider"
)

func TestFlattenNested(t *testing.T) {
	input := map[string]any{
		"team": map[string]any{
			"id": float64(1),
			"venue": map[string]any{
				"id": float64(9),
			},
		},
	}

	flat := Flatten("", input)

	assert.Equal(t, map[string]any{
		"team_id":       float64(1),
		"team_venue_id": float64(9),
	}, flat)
}

func TestFlattenDeterministicAndIdempotent(t *testing.T) {
	input := map[string]any{
		"team": map[string]any{"id": float64(1), "venue": map[string]any{"id": float64(9)}},
	}

	first := Flatten("", input)
	second := Flatten("", input)
	assert.Equal(t, first, second, "same input always yields the same flat key set")

	again := Flatten("", first)
	assert.Equal(t, first, again, "flattening already-flat input is a no-op")
}

func TestFlattenKeepsLists(t *testing.T) {
	input := map[string]any{
		"player": map[string]any{
			"positions": []any{"ST", "LW"},
		},
	}

	flat := Flatten("", input)

	assert.Equal(t, []any{"ST", "LW"}, flat["player_positions"], "lists stay intact under the prefixed key")
}

func TestFlattenWithPrefix(t *testing.T) {
	flat := Flatten("statistics", map[string]any{
		"games": map[string]any{"appearences": float64(31)},
		"goals": map[string]any{"total": float64(21)},
	})

	assert.Equal(t, float64(31), flat["statistics_games_appearences"])
	assert.Equal(t, float64(21), flat["statistics_goals_total"])
}

func TestTeamsReshape(t *testing.T) {
	env := &provider.Envelope{
		Get:        "teams",
		Parameters: json.RawMessage(`{"league":"135","season":"2021"}`),
		Response: []json.RawMessage{
			json.RawMessage(`{"team":{"id":505,"name":"Inter"},"venue":{"id":907,"capacity":75923}}`),
		},
	}

	out := Teams(env)

	records, ok := out["teams"].([]any)
	require.True(t, ok)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	assert.Equal(t, float64(505), record["team_id"])
	assert.Equal(t, "Inter", record["team_name"])
	assert.Equal(t, float64(75923), record["venue_capacity"])
}

func TestPlayersReshape(t *testing.T) {
	env := &provider.Envelope{
		Get:        "players",
		Parameters: json.RawMessage(`{"team":"505","season":"2021"}`),
		Response: []json.RawMessage{
			json.RawMessage(`{
				"player":{"id":217,"name":"L. Martínez","birth":{"date":"1997-08-22"}},
				"statistics":[
					{"games":{"appearences":35},"goals":{"total":21}},
					{"cards":{"yellow":5}}
				]
			}`),
		},
	}

	out := Players(env)

	assert.Equal(t, "505", out["team"])
	assert.Equal(t, "2021", out["season"])

	records := out["players"].([]any)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	assert.Equal(t, float64(217), record["player_id"])
	assert.Equal(t, "1997-08-22", record["player_birth_date"])
	assert.Equal(t, float64(35), record["statistics_games_appearences"])
	assert.Equal(t, float64(21), record["statistics_goals_total"])
	assert.Equal(t, float64(5), record["statistics_cards_yellow"])
}

func TestStaticReshapePassesThrough(t *testing.T) {
	env := &provider.Envelope{
		Get:        "countries",
		Parameters: json.RawMessage(`[]`),
		Response: []json.RawMessage{
			json.RawMessage(`{"name":"Italy","code":"IT"}`),
			json.RawMessage(`{"name":"England","code":"GB"}`),
		},
	}

	out := Static(env)

	items := out["countries"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Italy", first["name"])
}
