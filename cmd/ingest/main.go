// Command ingest is the calcio-data acquisition CLI.
//
// Usage:
//
//	calcio-ingest scrape --competition serie_a --season 2024
//	calcio-ingest scrape --workers 4
//	calcio-ingest fetch static
//	calcio-ingest fetch teams --league 135 --seasons 2020,2021
//	calcio-ingest fetch players --teams 505,496 --season 2021
//	calcio-ingest load
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/calciostats/calcio-data/internal/config"
	"github.com/calciostats/calcio-data/internal/provider"
	"github.com/calciostats/calcio-data/internal/run"
	"github.com/calciostats/calcio-data/internal/scrape"
	"github.com/calciostats/calcio-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "calcio-ingest",
		Short: "Football data acquisition CLI",
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(loadCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var competition string
	var seasons []string
	var workers int
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape teams, rosters and player profiles from HTML pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config) error {
				comps, err := selectCompetitions(competition)
				if err != nil {
					return err
				}
				if len(seasons) == 0 {
					seasons = cfg.Seasons
				}
				if workers == 0 {
					workers = cfg.ScrapeWorkers
				}

				client := scrape.NewClient(cfg.ScrapeBaseURL, cfg.ScrapeDelay, logger)
				start := time.Now()
				var total run.Result
				for _, comp := range comps {
					for _, season := range seasons {
						total.Add(run.ScrapeCompetition(ctx, client, comp, season, cfg.DataDir, workers, logger))
						if ctx.Err() != nil {
							return ctx.Err()
						}
					}
				}
				logger.Info("scrape finished",
					"duration", time.Since(start).Round(time.Second), "summary", total.Summary())
				for _, e := range total.Errors {
					logger.Error("scrape error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&competition, "competition", "", "Competition ID (empty = all)")
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "Season years (default from SEASONS)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers for player detail pages")
	return cmd
}

func selectCompetitions(id string) ([]config.Competition, error) {
	if id == "" {
		comps := make([]config.Competition, 0, len(config.CompetitionRegistry))
		for _, c := range config.CompetitionRegistry {
			comps = append(comps, c)
		}
		return comps, nil
	}
	comp, ok := config.CompetitionRegistry[id]
	if !ok {
		return nil, fmt.Errorf("unknown competition %q", id)
	}
	return []config.Competition{comp}, nil
}

// --------------------------------------------------------------------------
// fetch command
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch data from the configured JSON API provider",
	}
	cmd.AddCommand(fetchStaticCmd())
	cmd.AddCommand(fetchTeamsCmd())
	cmd.AddCommand(fetchPlayersCmd())
	return cmd
}

func fetchStaticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "static",
		Short: "Fetch static reference data (countries, timezones, leagues)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config) error {
				p, err := buildProvider(cfg)
				if err != nil {
					return err
				}
				result := run.FetchStatic(ctx, p, cfg.DataDir, logger)
				return finish("static fetch", result)
			})
		},
	}
}

func fetchTeamsCmd() *cobra.Command {
	var league string
	var seasons []string
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Fetch teams for a league across seasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config) error {
				p, err := buildProvider(cfg)
				if err != nil {
					return err
				}
				if len(seasons) == 0 {
					seasons = cfg.Seasons
				}
				result := run.FetchTeams(ctx, p, cfg.DataDir, league, seasons, logger)
				return finish("teams fetch", result)
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "135", "Provider league ID")
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "Season years (default from SEASONS)")
	return cmd
}

func fetchPlayersCmd() *cobra.Command {
	var teams string
	var season string
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Fetch players with statistics for a set of teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teams == "" {
				return fmt.Errorf("--teams is required")
			}
			return runPipeline(func(ctx context.Context, cfg *config.Config) error {
				p, err := buildProvider(cfg)
				if err != nil {
					return err
				}
				teamIDs := strings.Split(teams, ",")
				result := run.FetchPlayers(ctx, p, cfg.DataDir, teamIDs, season, logger)
				return finish("players fetch", result)
			})
		},
	}
	cmd.Flags().StringVar(&teams, "teams", "", "Comma-separated provider team IDs")
	cmd.Flags().StringVar(&season, "season", "2021", "Season year")
	return cmd
}

func buildProvider(cfg *config.Config) (provider.Provider, error) {
	key, err := cfg.ProviderKey(cfg.ProviderName)
	if err != nil {
		return nil, err
	}
	return provider.New(cfg.ProviderName, key, cfg.StateDir, logger)
}

func finish(what string, result run.Result) error {
	logger.Info(what+" finished", "summary", result.Summary())
	for _, e := range result.Errors {
		logger.Error(what+" error", "error", e)
	}
	return nil
}

// --------------------------------------------------------------------------
// load command
// --------------------------------------------------------------------------

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Reload the relational store from saved JSON data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config) error {
				pool, err := store.NewPool(ctx, cfg)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer pool.Close()

				start := time.Now()
				if err := run.Load(ctx, pool, cfg.DataDir, cfg.ProviderName, logger); err != nil {
					return err
				}
				logger.Info("load finished", "duration", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runPipeline handles config loading and context cancellation.
func runPipeline(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return fn(ctx, cfg)
}
