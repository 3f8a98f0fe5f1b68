// Command ratings replays the stored team game log through the Elo engine
// and persists the resulting rating series.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/config"
	"github.com/HarryGoodman/nba-betting-ml/internal/logic"
	"github.com/HarryGoodman/nba-betting-ml/internal/storage"
)

func main() {
	season := flag.String("season", "", "restrict the replay to one season (default: all stored games)")
	flag.Parse()

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		sugar.Fatalw("Failed to open store", "path", cfg.DBPath, "error", err)
	}
	defer store.Close()

	games, err := store.TeamGames(ctx, *season)
	if err != nil {
		sugar.Fatalw("Failed to load team games", "error", err)
	}
	if len(games) == 0 {
		sugar.Fatalw("No team games stored; run fetch first", "season", *season)
	}

	engine := logic.NewRatingEngine(logic.EloConfig{
		KFactor:        cfg.EloKFactor,
		Scale:          cfg.EloScale,
		StartingRating: cfg.EloStarting,
	}, sugar)

	book, err := engine.Replay(games)
	if err != nil {
		sugar.Fatalw("Rating replay failed", "error", err)
	}

	points := book.Points()
	if err := store.SaveRatings(ctx, points); err != nil {
		sugar.Fatalw("Failed to save ratings", "error", err)
	}
	sugar.Infow("Rating replay complete",
		"games", len(games),
		"teams", len(book.Teams()),
		"points", len(points))
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
