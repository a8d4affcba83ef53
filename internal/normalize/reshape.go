package normalize

import (
	"encoding/json"

	"github.com/calciostats/calcio-data/internal/provider"
)

// Static reshapes a static-reference envelope (countries, timezone,
// leagues) into the saved-file layout: the response items pass through
// under a key named after the endpoint.
func Static(env *provider.Envelope) map[string]any {
	items := make([]any, 0, len(env.Response))
	for _, raw := range env.Response {
		var item any
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return map[string]any{
		"get":        env.Get,
		"parameters": decodeParameters(env.Parameters),
		env.Get:      items,
	}
}

// Teams reshapes a teams envelope: each item's nested team and venue
// objects are flattened to team_* and venue_* keys and merged into one
// record.
func Teams(env *provider.Envelope) map[string]any {
	records := make([]any, 0, len(env.Response))
	for _, raw := range env.Response {
		item, ok := decodeObject(raw)
		if !ok {
			continue
		}
		record := map[string]any{}
		if team, ok := item["team"].(map[string]any); ok {
			merge(record, Flatten("team", team))
		}
		if venue, ok := item["venue"].(map[string]any); ok {
			merge(record, Flatten("venue", venue))
		}
		records = append(records, record)
	}
	return map[string]any{
		"get":        env.Get,
		"parameters": decodeParameters(env.Parameters),
		env.Get:      records,
	}
}

// Players reshapes a players envelope: the nested player object flattens
// to player_* keys and every statistics entry flattens to statistics_*
// keys, merged into a single record per player.
func Players(env *provider.Envelope) map[string]any {
	params, _ := decodeParameters(env.Parameters).(map[string]any)

	records := make([]any, 0, len(env.Response))
	for _, raw := range env.Response {
		item, ok := decodeObject(raw)
		if !ok {
			continue
		}
		record := map[string]any{}
		if player, ok := item["player"].(map[string]any); ok {
			merge(record, Flatten("player", player))
		}
		if stats, ok := item["statistics"].([]any); ok {
			combined := map[string]any{}
			for _, s := range stats {
				if stat, ok := s.(map[string]any); ok {
					merge(combined, Flatten("statistics", stat))
				}
			}
			merge(record, combined)
		}
		records = append(records, record)
	}

	out := map[string]any{
		"get":        env.Get,
		"parameters": decodeParameters(env.Parameters),
		env.Get:      records,
	}
	if params != nil {
		out["team"] = params["team"]
		out["season"] = params["season"]
	}
	return out
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func decodeParameters(raw json.RawMessage) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var params any
	if err := json.Unmarshal(raw, &params); err != nil {
		return map[string]any{}
	}
	return params
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
