package store

import (
	"context"
	"fmt"

	"github.com/calciostats/calcio-data/internal/config"
)

// TruncateAll empties every data table before a full reload. Order follows
// the foreign keys: statistics first, reference tables last.
func (p *Pool) TruncateAll(ctx context.Context) error {
	tables := []string{
		config.PlayerStatsTable, config.TeamStatsTable,
		config.PlayersTable, config.TeamsTable,
		config.SeasonsTable, config.LeaguesTable,
		config.TimezonesTable, config.CountriesTable,
	}
	for _, table := range tables {
		if _, err := p.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// InsertCountries loads country reference records; duplicates by code are
// ignored.
func (p *Pool) InsertCountries(ctx context.Context, items []map[string]any) (int, error) {
	inserted := 0
	for _, item := range items {
		tag, err := p.Exec(ctx, `
			INSERT INTO `+config.CountriesTable+` (name, code, flag_url)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING`,
			item["name"], item["code"], item["flag"])
		if err != nil {
			return inserted, fmt.Errorf("insert country %v: %w", item["name"], err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// InsertTimezones loads timezone names; duplicates are ignored.
func (p *Pool) InsertTimezones(ctx context.Context, zones []string) (int, error) {
	inserted := 0
	for _, tz := range zones {
		tag, err := p.Exec(ctx, `
			INSERT INTO `+config.TimezonesTable+` (timezone)
			VALUES ($1)
			ON CONFLICT (timezone) DO NOTHING`, tz)
		if err != nil {
			return inserted, fmt.Errorf("insert timezone %s: %w", tz, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// InsertLeagues loads league records, resolving the country foreign key by
// natural name. Each item carries nested league/country objects plus a
// seasons list, which also populates the seasons table.
func (p *Pool) InsertLeagues(ctx context.Context, items []map[string]any) (int, error) {
	inserted := 0
	for _, item := range items {
		league, _ := item["league"].(map[string]any)
		country, _ := item["country"].(map[string]any)
		if league == nil || country == nil {
			continue
		}
		tag, err := p.Exec(ctx, `
			INSERT INTO `+config.LeaguesTable+` (id, country_id, name, type, logo_url)
			VALUES ($1, (SELECT id FROM `+config.CountriesTable+` WHERE name = $2), $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			league["id"], country["name"], league["name"], league["type"], league["logo"])
		if err != nil {
			return inserted, fmt.Errorf("insert league %v: %w", league["id"], err)
		}
		inserted += int(tag.RowsAffected())

		seasons, _ := item["seasons"].([]any)
		for _, s := range seasons {
			season, _ := s.(map[string]any)
			if season == nil {
				continue
			}
			_, err := p.Exec(ctx, `
				INSERT INTO `+config.SeasonsTable+` (league_id, year, start_date, end_date, current)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (league_id, year) DO NOTHING`,
				league["id"], season["year"], season["start"], season["end"], season["current"])
			if err != nil {
				return inserted, fmt.Errorf("insert season %v/%v: %w", league["id"], season["year"], err)
			}
		}
	}
	return inserted, nil
}

// InsertTeams loads flattened team_*/venue_* records.
func (p *Pool) InsertTeams(ctx context.Context, records []map[string]any) (int, error) {
	inserted := 0
	for _, r := range records {
		tag, err := p.Exec(ctx, `
			INSERT INTO `+config.TeamsTable+` (
				id, name, code, country, founded, logo_url,
				venue_name, venue_city, venue_capacity
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO NOTHING`,
			r["team_id"], r["team_name"], r["team_code"], r["team_country"],
			r["team_founded"], r["team_logo"],
			r["venue_name"], r["venue_city"], r["venue_capacity"])
		if err != nil {
			return inserted, fmt.Errorf("insert team %v: %w", r["team_id"], err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// InsertPlayers loads flattened player_*/statistics_* records: the profile
// part goes to players and the statistics part to player_statistics.
func (p *Pool) InsertPlayers(ctx context.Context, teamID, season any, records []map[string]any) (int, error) {
	inserted := 0
	for _, r := range records {
		tag, err := p.Exec(ctx, `
			INSERT INTO `+config.PlayersTable+` (
				id, name, first_name, last_name, birth_date,
				birth_place, nationality, height, weight, photo_url
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (id) DO NOTHING`,
			r["player_id"], r["player_name"], r["player_firstname"], r["player_lastname"],
			r["player_birth_date"], r["player_birth_place"], r["player_nationality"],
			r["player_height"], r["player_weight"], r["player_photo"])
		if err != nil {
			return inserted, fmt.Errorf("insert player %v: %w", r["player_id"], err)
		}
		inserted += int(tag.RowsAffected())

		_, err = p.Exec(ctx, `
			INSERT INTO `+config.PlayerStatsTable+` (
				player_id, team_id, season, position, appearances,
				minutes, goals, assists, yellow_cards, red_cards, rating
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (player_id, team_id, season) DO NOTHING`,
			r["player_id"], teamID, season,
			r["statistics_games_position"], r["statistics_games_appearences"],
			r["statistics_games_minutes"], r["statistics_goals_total"],
			r["statistics_goals_assists"], r["statistics_cards_yellow"],
			r["statistics_cards_red"], r["statistics_games_rating"])
		if err != nil {
			return inserted, fmt.Errorf("insert player stats %v: %w", r["player_id"], err)
		}
	}
	return inserted, nil
}
