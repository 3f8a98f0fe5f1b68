package logic

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// AggregatorConfig holds the lookback parameters for point-in-time lookups.
type AggregatorConfig struct {
	Lag  int // last-N window for team stat averages; see TeamStatAverage
	TopN int // players per side in the feature block
}

// Aggregator answers point-in-time questions about a team: its rating, its
// average statistics and its most-used players as of a cutoff date. Every
// lookup only considers records strictly earlier than the cutoff, so a
// feature built for a game can never see that game's own outcome.
//
// The aggregator is read-only over its collections and safe for concurrent
// use once constructed.
type Aggregator struct {
	ratings     *RatingBook
	teamGames   []models.TeamGame
	playerGames []models.PlayerGame
	cfg         AggregatorConfig
	logger      *zap.SugaredLogger
}

func NewAggregator(ratings *RatingBook, teamGames []models.TeamGame, playerGames []models.PlayerGame, cfg AggregatorConfig, logger *zap.SugaredLogger) *Aggregator {
	if cfg.TopN <= 0 {
		cfg.TopN = 7
	}
	return &Aggregator{
		ratings:     ratings,
		teamGames:   teamGames,
		playerGames: playerGames,
		cfg:         cfg,
		logger:      logger,
	}
}

// CurrentRating returns the team's most recent rating dated strictly before
// the cutoff.
func (a *Aggregator) CurrentRating(team string, cutoff time.Time) (float64, error) {
	var found bool
	var latest models.RatingPoint
	for _, p := range a.ratings.SeriesFor(team) {
		if !p.Date.Before(cutoff) {
			break
		}
		latest = p
		found = true
	}
	if !found {
		return 0, fmt.Errorf("%w: team %s before %s", ErrNoRating, team, cutoff.Format("2006-01-02"))
	}
	return latest.Rating, nil
}

// TeamStatAverage returns the column-wise mean of the team's game statistics
// strictly before the cutoff, with the column names.
//
// The mean runs over the team's full prior history. The configured Lag is
// accepted but not applied, matching the established behavior the model was
// trained against.
// TODO: decide whether Lag should window this to the last N games and retrain
// before changing it; the pinned test must change with it.
func (a *Aggregator) TeamStatAverage(team string, cutoff time.Time) ([]float64, []string, error) {
	sums := make([]float64, len(models.StatColumns))
	var count int
	for _, g := range a.teamGames {
		if g.TeamAbbrev != team || !g.GameDate.Before(cutoff) {
			continue
		}
		for i, v := range g.Stats.Values() {
			sums[i] += v
		}
		count++
	}
	if count == 0 {
		return nil, nil, fmt.Errorf("%w: team %s before %s", ErrNoStats, team, cutoff.Format("2006-01-02"))
	}
	for i := range sums {
		sums[i] /= float64(count)
	}
	return sums, models.StatColumns, nil
}

// PlayerTopNAverage returns one flat block of per-player average statistics
// for the team's top-N players by total minutes strictly before the cutoff.
// Players are associated to the team through their matchup text. The block is
// ordered by rank then statistic and always has exactly n*len(StatColumns)
// entries: slots beyond the number of distinct qualifying players are
// zero-filled rather than omitted.
func (a *Aggregator) PlayerTopNAverage(team string, cutoff time.Time, n int) ([]float64, []string, error) {
	minutes := make(map[int64]float64)
	sums := make(map[int64][]float64)
	counts := make(map[int64]int)

	for _, g := range a.playerGames {
		if !strings.Contains(g.Matchup, team) || !g.GameDate.Before(cutoff) {
			continue
		}
		minutes[g.PlayerID] += g.Minutes
		s := sums[g.PlayerID]
		if s == nil {
			s = make([]float64, len(models.StatColumns))
			sums[g.PlayerID] = s
		}
		for i, v := range g.Stats.Values() {
			s[i] += v
		}
		counts[g.PlayerID]++
	}
	if len(minutes) == 0 {
		return nil, nil, fmt.Errorf("%w: team %s before %s", ErrNoPlayerStats, team, cutoff.Format("2006-01-02"))
	}

	// Rank by summed minutes descending. Ties break on ascending player ID so
	// the selection and slot order are reproducible run to run.
	ranked := make([]int64, 0, len(minutes))
	for id := range minutes {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if minutes[ranked[i]] != minutes[ranked[j]] {
			return minutes[ranked[i]] > minutes[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	block := make([]float64, 0, n*len(models.StatColumns))
	for _, id := range ranked {
		for _, v := range sums[id] {
			block = append(block, v/float64(counts[id]))
		}
	}
	for len(block) < n*len(models.StatColumns) {
		block = append(block, 0)
	}

	return block, PlayerBlockColumns(n), nil
}

// PlayerBlockColumns returns the positional column names for an n-player
// block: Player_1_FGM ... Player_n_PLUS_MINUS. Names bind to slot index, not
// to player identity.
func PlayerBlockColumns(n int) []string {
	columns := make([]string, 0, n*len(models.StatColumns))
	for slot := 1; slot <= n; slot++ {
		for _, stat := range models.StatColumns {
			columns = append(columns, fmt.Sprintf("Player_%d_%s", slot, stat))
		}
	}
	return columns
}

// TeamVector assembles one side's full aggregated vector: rating, team stat
// means, then the player block.
func (a *Aggregator) TeamVector(team string, cutoff time.Time) ([]float64, []string, error) {
	rating, err := a.CurrentRating(team, cutoff)
	if err != nil {
		return nil, nil, err
	}
	teamStats, teamColumns, err := a.TeamStatAverage(team, cutoff)
	if err != nil {
		return nil, nil, err
	}
	playerStats, playerColumns, err := a.PlayerTopNAverage(team, cutoff, a.cfg.TopN)
	if err != nil {
		return nil, nil, err
	}

	vector := make([]float64, 0, 1+len(teamStats)+len(playerStats))
	vector = append(vector, rating)
	vector = append(vector, teamStats...)
	vector = append(vector, playerStats...)

	columns := make([]string, 0, cap(vector))
	columns = append(columns, "Elo")
	columns = append(columns, teamColumns...)
	columns = append(columns, playerColumns...)

	return vector, columns, nil
}

// ResultFor returns the team's binary outcome (1 win, 0 loss) for a game on
// the exact date given.
func (a *Aggregator) ResultFor(team string, date time.Time) (float64, error) {
	for _, g := range a.teamGames {
		if g.TeamAbbrev != team || !g.GameDate.Equal(date) {
			continue
		}
		if g.Won() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: team %s on %s", ErrNoResult, team, date.Format("2006-01-02"))
}
