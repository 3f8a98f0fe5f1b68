// Command fetch downloads one season of team and player game logs from the
// stats provider and loads them into the local store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HarryGoodman/nba-betting-ml/internal/config"
	"github.com/HarryGoodman/nba-betting-ml/internal/models"
	"github.com/HarryGoodman/nba-betting-ml/internal/nba"
	"github.com/HarryGoodman/nba-betting-ml/internal/storage"
)

func main() {
	season := flag.String("season", "", "season to fetch, e.g. 2023-24")
	skipPlayers := flag.Bool("skip-players", false, "fetch only the team game log")
	flag.Parse()

	if *season == "" {
		fmt.Fprintln(os.Stderr, "usage: fetch -season 2023-24 [-skip-players]")
		os.Exit(2)
	}

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *season, !*skipPlayers); err != nil {
		sugar.Fatalw("Fetch failed", "season", *season, "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, season string, withPlayers bool) error {
	sugar := logger.Sugar()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	cache, err := newCache(cfg)
	if err != nil {
		return err
	}
	client := nba.NewClient(cfg.NBAAPIBaseURL, cache, cfg.RequestDelay, logger)

	teamGames, err := client.LeagueGameLog(ctx, season)
	if err != nil {
		return fmt.Errorf("fetch league game log: %w", err)
	}
	if err := store.SaveTeamGames(ctx, teamGames); err != nil {
		return err
	}

	if !withPlayers {
		return nil
	}

	playerIDs, err := rosterPlayerIDs(ctx, client, season)
	if err != nil {
		return err
	}
	sugar.Infow("Resolved season rosters", "season", season, "players", len(playerIDs))

	// Player logs are independent fetches; a small fan-out hides request
	// latency while the client's shared throttle keeps the provider happy.
	var mu sync.Mutex
	var playerGames []models.PlayerGame

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, playerID := range playerIDs {
		playerID := playerID
		g.Go(func() error {
			games, err := client.PlayerGameLog(gctx, playerID, season)
			if err != nil {
				// A single missing player log should not sink the whole
				// season fetch.
				sugar.Warnw("Skipping player game log", "playerID", playerID, "error", err)
				return nil
			}
			mu.Lock()
			playerGames = append(playerGames, games...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Fan-out order is nondeterministic; store rows in a canonical order.
	sort.SliceStable(playerGames, func(i, j int) bool {
		if !playerGames[i].GameDate.Equal(playerGames[j].GameDate) {
			return playerGames[i].GameDate.Before(playerGames[j].GameDate)
		}
		return playerGames[i].PlayerID < playerGames[j].PlayerID
	})
	return store.SavePlayerGames(ctx, playerGames)
}

// rosterPlayerIDs walks every team's roster for the season and returns the
// distinct player IDs, sorted.
func rosterPlayerIDs(ctx context.Context, client *nba.Client, season string) ([]int64, error) {
	teamIDs, err := client.TeamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch team ids: %w", err)
	}

	seen := make(map[int64]bool)
	for _, teamID := range teamIDs {
		roster, err := client.TeamRoster(ctx, teamID, season)
		if err != nil {
			return nil, fmt.Errorf("fetch roster for team %d: %w", teamID, err)
		}
		for _, playerID := range roster {
			seen[playerID] = true
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func newCache(cfg *config.Config) (nba.Cache, error) {
	if cfg.RedisURL != "" {
		return nba.NewRedisCache(cfg.RedisURL)
	}
	return nba.NewDiskCache(cfg.CacheDir)
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
