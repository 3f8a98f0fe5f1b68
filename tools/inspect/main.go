// Command inspect prints a quick summary of the local store for debugging.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/config"
	"github.com/HarryGoodman/nba-betting-ml/internal/storage"
)

func main() {
	table := flag.String("table", "summary", "what to show: summary, team-games, player-games, ratings, builds")
	limit := flag.Int("limit", 10, "max rows to print")
	buildID := flag.String("build", "", "print the feature table for this build id")
	flag.Parse()

	cfg := config.Load()
	logger := zap.NewNop()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := inspect(ctx, store, *table, *limit, *buildID); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func inspect(ctx context.Context, store *storage.Store, table string, limit int, buildID string) error {
	if buildID != "" {
		result, err := store.FeatureTable(ctx, buildID)
		if err != nil {
			return err
		}
		fmt.Printf("build %s: %d rows, %d columns\n", result.BuildID, len(result.Rows), len(result.Columns))
		for i, row := range result.Rows {
			if i >= limit {
				fmt.Printf("... %d more rows\n", len(result.Rows)-limit)
				break
			}
			fmt.Printf("%s win=%g elo1=%g elo2=%g\n",
				result.GameIDs[i], result.Labels[i], row[0], row[len(row)/2])
		}
		return nil
	}

	switch table {
	case "summary":
		teamGames, err := store.TeamGames(ctx, "")
		if err != nil {
			return err
		}
		playerGames, err := store.PlayerGames(ctx, "")
		if err != nil {
			return err
		}
		ratings, err := store.Ratings(ctx)
		if err != nil {
			return err
		}
		builds, err := store.Builds(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("team games:   %d\n", len(teamGames))
		fmt.Printf("player games: %d\n", len(playerGames))
		fmt.Printf("elo points:   %d\n", len(ratings))
		fmt.Printf("builds:       %d\n", len(builds))
	case "team-games":
		games, err := store.TeamGames(ctx, "")
		if err != nil {
			return err
		}
		for i, g := range games {
			if i >= limit {
				break
			}
			fmt.Printf("%s %s %s %s %s pts=%g\n",
				g.GameDate.Format("2006-01-02"), g.GameID, g.TeamAbbrev, g.Matchup, g.WinLoss, g.Stats.PTS)
		}
	case "player-games":
		games, err := store.PlayerGames(ctx, "")
		if err != nil {
			return err
		}
		for i, g := range games {
			if i >= limit {
				break
			}
			fmt.Printf("%s %s player=%d min=%.1f pts=%g\n",
				g.GameDate.Format("2006-01-02"), g.GameID, g.PlayerID, g.Minutes, g.Stats.PTS)
		}
	case "ratings":
		points, err := store.Ratings(ctx)
		if err != nil {
			return err
		}
		for i, p := range points {
			if i >= limit {
				break
			}
			fmt.Printf("%s %s %.2f\n", p.Date.Format("2006-01-02"), p.Team, p.Rating)
		}
	case "builds":
		builds, err := store.Builds(ctx)
		if err != nil {
			return err
		}
		for _, b := range builds {
			fmt.Printf("%s %s processed=%d skipped=%d\n",
				b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.Processed, b.Skipped)
		}
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}
