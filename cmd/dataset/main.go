// Command dataset assembles the point-in-time feature table from the stored
// game logs and rating series, saves it as a build, and optionally exports
// it as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/config"
	"github.com/HarryGoodman/nba-betting-ml/internal/logic"
	"github.com/HarryGoodman/nba-betting-ml/internal/storage"
	"github.com/HarryGoodman/nba-betting-ml/internal/worker"
)

func main() {
	season := flag.String("season", "", "restrict the build to one season (default: all stored games)")
	csvPath := flag.String("csv", "", "also export the feature table to this CSV file")
	flag.Parse()

	cfg := config.Load()
	logger := newLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *season, *csvPath); err != nil {
		sugar.Fatalw("Dataset build failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, season, csvPath string) error {
	sugar := logger.Sugar()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	teamGames, err := store.TeamGames(ctx, season)
	if err != nil {
		return err
	}
	playerGames, err := store.PlayerGames(ctx, season)
	if err != nil {
		return err
	}
	points, err := store.Ratings(ctx)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no ratings stored; run ratings first")
	}

	book := logic.RatingBookFromPoints(points)
	agg := logic.NewAggregator(book, teamGames, playerGames, logic.AggregatorConfig{
		Lag:  cfg.Lag,
		TopN: cfg.TopNPlayers,
	}, sugar)
	asm := logic.NewAssembler(agg, sugar)
	pool := worker.NewPool(cfg.WorkerCount, logger)
	builder := logic.NewBuilder(asm, pool, sugar)

	result, err := builder.Build(ctx, teamGames)
	if err != nil {
		return err
	}
	if err := store.SaveBuild(ctx, result); err != nil {
		return err
	}
	sugar.Infow("Dataset build complete",
		"buildID", result.BuildID,
		"rows", len(result.Rows),
		"columns", len(result.Columns),
		"processed", result.Processed,
		"skipped", result.Skipped)

	if csvPath == "" {
		return nil
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	if err := result.WriteCSV(f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	sugar.Infow("Exported feature table", "path", csvPath)
	return nil
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
