package run

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/calciostats/calcio-data/internal/config"
	"github.com/calciostats/calcio-data/internal/scrape"
	"github.com/calciostats/calcio-data/internal/store"
)

var teamColumns = []string{"campionato", "stagione", "name", "link"}
var playerColumns = []string{"campionato", "stagione", "squadra", "name", "link"}

// ScrapeCompetition scrapes one competition-season end to end: the team
// listing, each team's roster, and every player's profile page. Results
// are written under dataDir/raw/{competition}/{season}. workers > 1
// fetches the per-player detail pages concurrently; profile order in the
// append file is then not guaranteed, only per-record integrity.
func ScrapeCompetition(
	ctx context.Context,
	client *scrape.Client,
	comp config.Competition,
	season string,
	dataDir string,
	workers int,
	logger *slog.Logger,
) Result {
	var result Result

	logger.Info("scraping competition", "competition", comp.Name, "season", season)

	teams, err := client.ScrapeTeams(ctx, comp.URL)
	if err != nil {
		result.AddErrorf("scrape teams for %s %s: %v", comp.Name, season, err)
		return result
	}
	if len(teams) == 0 {
		logger.Warn("no teams found", "competition", comp.Name, "season", season)
		return result
	}
	teams = dedupeRefs(teams)
	result.Teams = len(teams)

	seasonDir := filepath.Join(dataDir, "raw", strings.ToLower(comp.Name), season)
	rows := make([][]string, len(teams))
	for i, team := range teams {
		rows[i] = []string{comp.Name, season, team.Name, team.Link}
	}
	if err := store.WriteCSV(seasonDir, "squadre.csv", teamColumns, rows); err != nil {
		result.AddErrorf("save teams for %s %s: %v", comp.Name, season, err)
	} else {
		result.Files++
	}

	for _, team := range teams {
		teamResult := scrapeTeam(ctx, client, comp, season, seasonDir, team, workers, logger)
		result.Add(teamResult)
		if ctx.Err() != nil {
			result.AddErrorf("run cancelled: %v", ctx.Err())
			break
		}
	}

	logger.Info("competition done", "competition", comp.Name, "season", season, "summary", result.Summary())
	return result
}

// scrapeTeam scrapes one roster and every profile on it.
func scrapeTeam(
	ctx context.Context,
	client *scrape.Client,
	comp config.Competition,
	season, seasonDir string,
	team scrape.Ref,
	workers int,
	logger *slog.Logger,
) Result {
	var result Result

	players, err := client.ScrapePlayers(ctx, team.Link)
	if err != nil {
		result.AddErrorf("scrape players for %s: %v", team.Name, err)
		return result
	}
	if len(players) == 0 {
		logger.Warn("no players found", "team", team.Name)
		return result
	}
	players = dedupeRefs(players)
	result.Players = len(players)

	teamDir := filepath.Join(seasonDir, team.Name)
	rows := make([][]string, len(players))
	for i, p := range players {
		rows[i] = []string{comp.Name, season, team.Name, p.Name, p.Link}
	}
	if err := store.WriteCSV(teamDir, "giocatori.csv", playerColumns, rows); err != nil {
		result.AddErrorf("save players for %s: %v", team.Name, err)
	} else {
		result.Files++
	}

	profilePath := filepath.Join(teamDir, "informazioni_giocatori.csv")
	profiles := scrapeProfiles(ctx, client, players, workers)
	for i, profile := range profiles {
		if profile.Empty() {
			result.AddErrorf("no details for player %s", players[i].Name)
			continue
		}
		if err := store.AppendCSV(profilePath, scrape.ProfileColumns, profile.Row()); err != nil {
			result.AddErrorf("save details for %s: %v", players[i].Name, err)
			continue
		}
		result.Profiles++
	}

	return result
}

// dedupeRefs drops repeated (name, link) pairs, keeping the first
// occurrence. Listing pages occasionally repeat a row.
func dedupeRefs(refs []scrape.Ref) []scrape.Ref {
	seen := make(map[scrape.Ref]struct{}, len(refs))
	out := make([]scrape.Ref, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// scrapeProfiles fetches every player's detail page, sequentially or with
// a bounded worker pool. The returned slice is indexed like players; only
// the completion order across workers is unordered.
func scrapeProfiles(
	ctx context.Context,
	client *scrape.Client,
	players []scrape.Ref,
	workers int,
) []scrape.PlayerProfile {
	profiles := make([]scrape.PlayerProfile, len(players))

	if workers < 2 {
		for i, p := range players {
			if ctx.Err() != nil {
				break
			}
			profiles[i] = client.ScrapePlayerDetails(ctx, p.Link)
		}
		return profiles
	}

	if workers > len(players) {
		workers = len(players)
	}

	indexes := make(chan int, len(players))
	for i := range players {
		indexes <- i
	}
	close(indexes)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					return
				}
				profiles[i] = client.ScrapePlayerDetails(ctx, players[i].Link)
			}
		}()
	}
	wg.Wait()

	return profiles
}
