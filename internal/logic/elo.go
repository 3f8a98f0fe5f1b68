package logic

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// EloConfig holds the rating engine parameters.
type EloConfig struct {
	KFactor        float64 // step factor applied to (outcome - expected)
	Scale          float64 // logistic scale of the rating difference
	StartingRating float64 // rating every team is seeded with
}

// DefaultEloConfig returns the standard parameters.
func DefaultEloConfig() EloConfig {
	return EloConfig{KFactor: 20, Scale: 400, StartingRating: 1000}
}

// RatingBook owns one rating series per team. Entries are append-only and
// strictly increasing in date; the first entry of every series is the
// sentinel seeded one day before the season's first game.
type RatingBook struct {
	series map[string][]models.RatingPoint
}

// RatingBookFromPoints rebuilds a book from persisted rating rows. Points are
// grouped per team and sorted by date, so the input order does not matter.
func RatingBookFromPoints(points []models.RatingPoint) *RatingBook {
	book := &RatingBook{series: make(map[string][]models.RatingPoint)}
	for _, p := range points {
		book.series[p.Team] = append(book.series[p.Team], p)
	}
	for team := range book.series {
		s := book.series[team]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	}
	return book
}

// SeriesFor returns the team's rating series in date order, or nil if the
// team is unknown.
func (b *RatingBook) SeriesFor(team string) []models.RatingPoint {
	return b.series[team]
}

// Teams returns the team codes in the book, sorted.
func (b *RatingBook) Teams() []string {
	teams := make([]string, 0, len(b.series))
	for team := range b.series {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Points flattens the book into rows for persistence, ordered by team then
// date so repeated runs serialize identically.
func (b *RatingBook) Points() []models.RatingPoint {
	var points []models.RatingPoint
	for _, team := range b.Teams() {
		points = append(points, b.series[team]...)
	}
	return points
}

func (b *RatingBook) latest(team string) (models.RatingPoint, bool) {
	s := b.series[team]
	if len(s) == 0 {
		return models.RatingPoint{}, false
	}
	return s[len(s)-1], true
}

func (b *RatingBook) append(team string, date time.Time, rating float64) {
	b.series[team] = append(b.series[team], models.RatingPoint{Team: team, Date: date, Rating: rating})
}

// RatingEngine maintains per-team rating series over a sequential replay of
// games. It is not safe for concurrent use during replay; once the replay is
// done the resulting RatingBook is read-only.
type RatingEngine struct {
	cfg    EloConfig
	logger *zap.SugaredLogger
}

func NewRatingEngine(cfg EloConfig, logger *zap.SugaredLogger) *RatingEngine {
	return &RatingEngine{cfg: cfg, logger: logger}
}

// Initialize seeds a rating series for every team at the starting rating,
// dated one day before the first known game date.
func (e *RatingEngine) Initialize(teams []string, startDate time.Time) *RatingBook {
	sentinel := startDate.AddDate(0, 0, -1)
	book := &RatingBook{series: make(map[string][]models.RatingPoint, len(teams))}
	for _, team := range teams {
		book.append(team, sentinel, e.cfg.StartingRating)
	}
	return book
}

// Apply updates both sides' series for one game row: the side's most recent
// ratings feed the logistic expectation, the realized result moves winner up
// and loser down, and the new checkpoints are appended dated at the game.
func (e *RatingEngine) Apply(book *RatingBook, game models.TeamGame) error {
	matchup, err := ParseMatchup(game.Matchup)
	if err != nil {
		return err
	}

	winner, loser := game.TeamAbbrev, matchup.Opponent
	if !game.Won() {
		winner, loser = matchup.Opponent, game.TeamAbbrev
	}

	winnerPrev, ok := book.latest(winner)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, winner)
	}
	loserPrev, ok := book.latest(loser)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, loser)
	}

	expected := expectedOutcome(winnerPrev.Rating, loserPrev.Rating, e.cfg.Scale)
	delta := e.cfg.KFactor * (1 - expected)

	book.append(winner, game.GameDate, winnerPrev.Rating+delta)
	book.append(loser, game.GameDate, loserPrev.Rating-delta)
	return nil
}

// Replay computes rating series for a whole set of game rows. Rows are
// replayed in non-decreasing date order with ties left in input order; the
// source data never has a team playing twice on one date, so same-day order
// cannot affect any team's series.
func (e *RatingEngine) Replay(games []models.TeamGame) (*RatingBook, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("no games to replay")
	}

	sorted := make([]models.TeamGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].GameDate.Before(sorted[j].GameDate) })

	teams := make([]string, 0, 32)
	seen := make(map[string]bool)
	for _, g := range sorted {
		if !seen[g.TeamAbbrev] {
			seen[g.TeamAbbrev] = true
			teams = append(teams, g.TeamAbbrev)
		}
	}

	book := e.Initialize(teams, sorted[0].GameDate)
	for _, game := range sorted {
		if err := e.Apply(book, game); err != nil {
			return nil, fmt.Errorf("replay stopped at game %s on %s: %w",
				game.GameID, game.GameDate.Format("2006-01-02"), err)
		}
	}

	e.logger.Infow("Rating replay complete",
		"teams", len(teams),
		"rows", len(sorted),
		"firstGame", sorted[0].GameDate.Format("2006-01-02"),
		"lastGame", sorted[len(sorted)-1].GameDate.Format("2006-01-02"),
	)
	return book, nil
}

// expectedOutcome is the logistic win expectation for a rating ra against rb.
// Equal ratings give exactly 0.5.
func expectedOutcome(ra, rb, scale float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/scale))
}
