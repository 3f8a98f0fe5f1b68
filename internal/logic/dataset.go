package logic

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
	"github.com/HarryGoodman/nba-betting-ml/internal/worker"
)

// Prometheus metrics
var (
	gamesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nbaml_dataset_games_processed_total",
		Help: "Total number of games that produced a feature row",
	})

	gamesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nbaml_dataset_games_skipped_total",
		Help: "Total number of games skipped during dataset builds",
	})
)

// BuildResult is one finished feature table. Row i of Rows belongs to
// GameIDs[i] and Labels[i]; Columns is the shared schema of every row.
type BuildResult struct {
	BuildID   string
	Columns   []string
	GameIDs   []string
	Rows      [][]float64
	Labels    []float64
	Processed int
	Skipped   int
}

// Builder iterates historical game rows and stacks the assembler's output
// into one dataset with a stable column schema.
type Builder struct {
	asm    *Assembler
	pool   *worker.Pool
	logger *zap.SugaredLogger
}

func NewBuilder(asm *Assembler, pool *worker.Pool, logger *zap.SugaredLogger) *Builder {
	return &Builder{asm: asm, pool: pool, logger: logger}
}

// rowOutcome is the result of assembling one game row. Exactly one of
// vector, skipReason or err is meaningful.
type rowOutcome struct {
	vector     []float64
	columns    []string
	label      float64
	skipReason string
	err        error
}

// Build assembles a feature row for every resolvable game in the input and
// stacks them in (game date, input order). Games missing prior history or
// carrying a malformed matchup are skipped and counted, never fatal. The
// assembly itself runs across the worker pool; outcomes are collected by
// input index so the output is byte-for-byte reproducible.
func (b *Builder) Build(ctx context.Context, games []models.TeamGame) (*BuildResult, error) {
	sorted := make([]models.TeamGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].GameDate.Before(sorted[j].GameDate) })

	outcomes := make([]rowOutcome, len(sorted))
	if err := b.pool.Run(ctx, len(sorted), func(ctx context.Context, i int) {
		outcomes[i] = b.buildRow(sorted[i])
	}); err != nil {
		return nil, err
	}

	result := &BuildResult{BuildID: uuid.NewString()}
	for i, out := range outcomes {
		game := sorted[i]
		switch {
		case out.err != nil:
			return nil, fmt.Errorf("game %s (%s): %w", game.GameID, game.TeamAbbrev, out.err)
		case out.skipReason != "":
			b.logger.Infow("Skipping game",
				"gameID", game.GameID,
				"team", game.TeamAbbrev,
				"date", game.GameDate.Format("2006-01-02"),
				"matchup", game.Matchup,
				"reason", out.skipReason,
			)
			result.Skipped++
			gamesSkipped.Inc()
		default:
			if result.Columns == nil {
				result.Columns = out.columns
			} else if !slices.Equal(result.Columns, out.columns) {
				// Every row must agree on the schema of the first; a mismatch
				// means the aggregated vectors diverged and the table is junk.
				return nil, fmt.Errorf("schema mismatch at game %s: got %d columns, want %d",
					game.GameID, len(out.columns), len(result.Columns))
			}
			result.GameIDs = append(result.GameIDs, game.GameID)
			result.Rows = append(result.Rows, out.vector)
			result.Labels = append(result.Labels, out.label)
			result.Processed++
			gamesProcessed.Inc()
		}
	}

	if result.Processed == 0 {
		return nil, fmt.Errorf("%w: %d rows skipped", ErrEmptyDataset, result.Skipped)
	}

	b.logger.Infow("Dataset build complete",
		"buildID", result.BuildID,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"columns", len(result.Columns),
	)
	return result, nil
}

func (b *Builder) buildRow(game models.TeamGame) rowOutcome {
	matchup, err := ParseMatchup(game.Matchup)
	if err != nil {
		return skipOrFail(err)
	}

	vector, columns, err := b.asm.Assemble(game.TeamAbbrev, matchup.Opponent, game.GameDate)
	if err != nil {
		return skipOrFail(err)
	}

	label, err := b.asm.Label(game.TeamAbbrev, game.GameDate)
	if err != nil {
		return skipOrFail(err)
	}

	return rowOutcome{vector: vector, columns: columns, label: label}
}

func skipOrFail(err error) rowOutcome {
	if IsSkippable(err) {
		return rowOutcome{skipReason: err.Error()}
	}
	return rowOutcome{err: err}
}
