package logic

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

func newTestAggregator(points []models.RatingPoint, teamGames []models.TeamGame, playerGames []models.PlayerGame, cfg AggregatorConfig) *Aggregator {
	return NewAggregator(RatingBookFromPoints(points), teamGames, playerGames, cfg, zap.NewNop().Sugar())
}

func TestCurrentRating(t *testing.T) {
	points := []models.RatingPoint{
		{Team: "GSW", Date: day(1), Rating: 1000},
		{Team: "GSW", Date: day(5), Rating: 1010},
		{Team: "GSW", Date: day(9), Rating: 1025},
	}
	agg := newTestAggregator(points, nil, nil, AggregatorConfig{})

	tests := []struct {
		name   string
		cutoff int
		want   float64
	}{
		{"after all points", 10, 1025},
		{"between points", 7, 1010},
		{"day after first", 2, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.CurrentRating("GSW", day(tt.cutoff))
			if err != nil {
				t.Fatalf("CurrentRating returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CurrentRating(GSW, day %d) = %g, want %g", tt.cutoff, got, tt.want)
			}
		})
	}
}

func TestCurrentRatingExcludesCutoffDate(t *testing.T) {
	points := []models.RatingPoint{
		{Team: "GSW", Date: day(4), Rating: 1000},
		{Team: "GSW", Date: day(5), Rating: 1040},
	}
	agg := newTestAggregator(points, nil, nil, AggregatorConfig{})

	// The point dated on the cutoff carries that game's own outcome and must
	// not be visible.
	got, err := agg.CurrentRating("GSW", day(5))
	if err != nil {
		t.Fatalf("CurrentRating returned error: %v", err)
	}
	if got != 1000 {
		t.Errorf("CurrentRating on cutoff date = %g, want 1000", got)
	}
}

func TestCurrentRatingErrors(t *testing.T) {
	points := []models.RatingPoint{{Team: "GSW", Date: day(5), Rating: 1000}}
	agg := newTestAggregator(points, nil, nil, AggregatorConfig{})

	t.Run("unknown team", func(t *testing.T) {
		if _, err := agg.CurrentRating("LAL", day(10)); !errors.Is(err, ErrNoRating) {
			t.Errorf("error = %v, want ErrNoRating", err)
		}
	})
	t.Run("cutoff before first point", func(t *testing.T) {
		if _, err := agg.CurrentRating("GSW", day(5)); !errors.Is(err, ErrNoRating) {
			t.Errorf("error = %v, want ErrNoRating", err)
		}
	})
}

func TestTeamStatAverage(t *testing.T) {
	var games []models.TeamGame
	games = append(games, teamGamePair("001", 1, "GSW", "LAL", true, 100, 90)...)
	games = append(games, teamGamePair("002", 3, "GSW", "BOS", true, 110, 95)...)
	games = append(games, teamGamePair("003", 5, "GSW", "MIA", false, 120, 130)...)
	agg := newTestAggregator(nil, games, nil, AggregatorConfig{})

	stats, columns, err := agg.TeamStatAverage("GSW", day(5))
	if err != nil {
		t.Fatalf("TeamStatAverage returned error: %v", err)
	}
	if len(stats) != len(models.StatColumns) {
		t.Fatalf("got %d values, want %d", len(stats), len(models.StatColumns))
	}
	if len(columns) != len(models.StatColumns) {
		t.Fatalf("got %d columns, want %d", len(columns), len(models.StatColumns))
	}

	// Only the day 1 and day 3 games fall strictly before the cutoff.
	ptsIdx := indexOf(t, columns, "PTS")
	if got := stats[ptsIdx]; got != 105 {
		t.Errorf("mean PTS = %g, want 105", got)
	}
	// The non-PTS fixture columns are constant across games, so their mean
	// equals the constant.
	fgaIdx := indexOf(t, columns, "FGA")
	if got := stats[fgaIdx]; got != 2 {
		t.Errorf("mean FGA = %g, want 2", got)
	}
}

func TestTeamStatAverageIgnoresLag(t *testing.T) {
	// Lag is accepted in the config but the mean deliberately runs over the
	// full prior history. This pins that behavior; a windowed mean would
	// return 130 here.
	var games []models.TeamGame
	games = append(games, teamGamePair("001", 1, "GSW", "LAL", true, 70, 60)...)
	games = append(games, teamGamePair("002", 3, "GSW", "BOS", true, 130, 95)...)
	agg := newTestAggregator(nil, games, nil, AggregatorConfig{Lag: 1})

	stats, columns, err := agg.TeamStatAverage("GSW", day(10))
	if err != nil {
		t.Fatalf("TeamStatAverage returned error: %v", err)
	}
	if got := stats[indexOf(t, columns, "PTS")]; got != 100 {
		t.Errorf("mean PTS = %g, want full-history mean 100", got)
	}
}

func TestTeamStatAverageErrors(t *testing.T) {
	games := teamGamePair("001", 5, "GSW", "LAL", true, 100, 90)
	agg := newTestAggregator(nil, games, nil, AggregatorConfig{})

	t.Run("no earlier games", func(t *testing.T) {
		if _, _, err := agg.TeamStatAverage("GSW", day(5)); !errors.Is(err, ErrNoStats) {
			t.Errorf("error = %v, want ErrNoStats", err)
		}
	})
	t.Run("unknown team", func(t *testing.T) {
		if _, _, err := agg.TeamStatAverage("BOS", day(10)); !errors.Is(err, ErrNoStats) {
			t.Errorf("error = %v, want ErrNoStats", err)
		}
	})
}

func TestPlayerTopNAverage(t *testing.T) {
	playerGames := []models.PlayerGame{
		playerGame(201, "001", 1, "GSW", "LAL", 30, 10),
		playerGame(201, "002", 3, "GSW", "BOS", 30, 20),
		playerGame(202, "001", 1, "GSW", "LAL", 38, 30),
		playerGame(203, "001", 1, "GSW", "LAL", 12, 4),
	}
	agg := newTestAggregator(nil, nil, playerGames, AggregatorConfig{TopN: 2})

	block, columns, err := agg.PlayerTopNAverage("GSW", day(10), 2)
	if err != nil {
		t.Fatalf("PlayerTopNAverage returned error: %v", err)
	}
	if want := 2 * len(models.StatColumns); len(block) != want {
		t.Fatalf("block has %d values, want %d", len(block), want)
	}

	// Player 201 leads on total minutes (60 over 38), so slot 1 is their
	// per-game average and slot 2 is player 202's. Player 203 misses the cut.
	if got := block[indexOf(t, columns, "Player_1_PTS")]; got != 15 {
		t.Errorf("slot 1 mean PTS = %g, want 15", got)
	}
	if got := block[indexOf(t, columns, "Player_2_PTS")]; got != 30 {
		t.Errorf("slot 2 mean PTS = %g, want 30", got)
	}
}

func TestPlayerTopNAverageTieBreak(t *testing.T) {
	// Equal total minutes fall back to ascending player ID.
	playerGames := []models.PlayerGame{
		playerGame(305, "001", 1, "GSW", "LAL", 20, 11),
		playerGame(301, "001", 1, "GSW", "LAL", 20, 22),
	}
	agg := newTestAggregator(nil, nil, playerGames, AggregatorConfig{TopN: 2})

	block, columns, err := agg.PlayerTopNAverage("GSW", day(10), 2)
	if err != nil {
		t.Fatalf("PlayerTopNAverage returned error: %v", err)
	}
	if got := block[indexOf(t, columns, "Player_1_PTS")]; got != 22 {
		t.Errorf("slot 1 mean PTS = %g, want player 301's 22", got)
	}
	if got := block[indexOf(t, columns, "Player_2_PTS")]; got != 11 {
		t.Errorf("slot 2 mean PTS = %g, want player 305's 11", got)
	}
}

func TestPlayerTopNAverageZeroPads(t *testing.T) {
	playerGames := []models.PlayerGame{
		playerGame(201, "001", 1, "GSW", "LAL", 30, 10),
		playerGame(202, "001", 1, "GSW", "LAL", 20, 8),
	}
	agg := newTestAggregator(nil, nil, playerGames, AggregatorConfig{TopN: 3})

	block, columns, err := agg.PlayerTopNAverage("GSW", day(10), 3)
	if err != nil {
		t.Fatalf("PlayerTopNAverage returned error: %v", err)
	}
	if want := 3 * len(models.StatColumns); len(block) != want {
		t.Fatalf("block has %d values, want %d", len(block), want)
	}

	// Slot 3 has no player behind it and must read as all zeros.
	start := indexOf(t, columns, "Player_3_"+models.StatColumns[0])
	for i := start; i < len(block); i++ {
		if block[i] != 0 {
			t.Fatalf("padded slot value %s = %g, want 0", columns[i], block[i])
		}
	}
}

func TestPlayerTopNAverageExcludesCutoffDate(t *testing.T) {
	playerGames := []models.PlayerGame{
		playerGame(201, "001", 1, "GSW", "LAL", 30, 10),
		playerGame(201, "002", 5, "GSW", "BOS", 30, 50),
	}
	agg := newTestAggregator(nil, nil, playerGames, AggregatorConfig{TopN: 1})

	block, columns, err := agg.PlayerTopNAverage("GSW", day(5), 1)
	if err != nil {
		t.Fatalf("PlayerTopNAverage returned error: %v", err)
	}
	if got := block[indexOf(t, columns, "Player_1_PTS")]; got != 10 {
		t.Errorf("slot 1 mean PTS = %g, want 10 (day 5 game excluded)", got)
	}
}

func TestPlayerTopNAverageNoPlayers(t *testing.T) {
	agg := newTestAggregator(nil, nil, nil, AggregatorConfig{TopN: 2})
	if _, _, err := agg.PlayerTopNAverage("GSW", day(10), 2); !errors.Is(err, ErrNoPlayerStats) {
		t.Errorf("error = %v, want ErrNoPlayerStats", err)
	}
}

func TestPlayerBlockColumns(t *testing.T) {
	columns := PlayerBlockColumns(2)
	if want := 2 * len(models.StatColumns); len(columns) != want {
		t.Fatalf("got %d columns, want %d", len(columns), want)
	}
	if columns[0] != "Player_1_FGM" {
		t.Errorf("first column = %s, want Player_1_FGM", columns[0])
	}
	if last := columns[len(columns)-1]; last != "Player_2_PLUS_MINUS" {
		t.Errorf("last column = %s, want Player_2_PLUS_MINUS", last)
	}
}

func TestTeamVector(t *testing.T) {
	points := []models.RatingPoint{{Team: "GSW", Date: day(1), Rating: 1012}}
	teamGames := teamGamePair("001", 2, "GSW", "LAL", true, 100, 90)
	playerGames := []models.PlayerGame{playerGame(201, "001", 2, "GSW", "LAL", 30, 25)}
	agg := newTestAggregator(points, teamGames, playerGames, AggregatorConfig{TopN: 2})

	vector, columns, err := agg.TeamVector("GSW", day(5))
	if err != nil {
		t.Fatalf("TeamVector returned error: %v", err)
	}

	wantLen := 1 + len(models.StatColumns) + 2*len(models.StatColumns)
	if len(vector) != wantLen || len(columns) != wantLen {
		t.Fatalf("vector/columns have %d/%d entries, want %d", len(vector), len(columns), wantLen)
	}
	if columns[0] != "Elo" {
		t.Errorf("first column = %s, want Elo", columns[0])
	}
	if vector[0] != 1012 {
		t.Errorf("rating value = %g, want 1012", vector[0])
	}
	if got := vector[indexOf(t, columns, "PTS")]; got != 100 {
		t.Errorf("team mean PTS = %g, want 100", got)
	}
	if got := vector[indexOf(t, columns, "Player_1_PTS")]; got != 25 {
		t.Errorf("player slot 1 PTS = %g, want 25", got)
	}
}

func TestTeamVectorPropagatesErrors(t *testing.T) {
	points := []models.RatingPoint{{Team: "GSW", Date: day(1), Rating: 1000}}
	teamGames := teamGamePair("001", 2, "GSW", "LAL", true, 100, 90)
	agg := newTestAggregator(points, teamGames, nil, AggregatorConfig{TopN: 2})

	// Rating and team stats resolve but there are no player rows.
	if _, _, err := agg.TeamVector("GSW", day(5)); !errors.Is(err, ErrNoPlayerStats) {
		t.Errorf("error = %v, want ErrNoPlayerStats", err)
	}
}

func TestResultFor(t *testing.T) {
	games := teamGamePair("001", 5, "GSW", "LAL", true, 110, 100)
	agg := newTestAggregator(nil, games, nil, AggregatorConfig{})

	t.Run("win", func(t *testing.T) {
		got, err := agg.ResultFor("GSW", day(5))
		if err != nil {
			t.Fatalf("ResultFor returned error: %v", err)
		}
		if got != 1 {
			t.Errorf("ResultFor = %g, want 1", got)
		}
	})
	t.Run("loss", func(t *testing.T) {
		got, err := agg.ResultFor("LAL", day(5))
		if err != nil {
			t.Fatalf("ResultFor returned error: %v", err)
		}
		if got != 0 {
			t.Errorf("ResultFor = %g, want 0", got)
		}
	})
	t.Run("no game on date", func(t *testing.T) {
		if _, err := agg.ResultFor("GSW", day(6)); !errors.Is(err, ErrNoResult) {
			t.Errorf("error = %v, want ErrNoResult", err)
		}
	})
}

func indexOf(t *testing.T, columns []string, name string) int {
	t.Helper()
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %s not found", name)
	return -1
}
