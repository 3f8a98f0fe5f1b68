package logic

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Assembler combines two teams' aggregated vectors into one labeled feature
// row for a game.
type Assembler struct {
	agg    *Aggregator
	logger *zap.SugaredLogger
}

func NewAssembler(agg *Aggregator, logger *zap.SugaredLogger) *Assembler {
	return &Assembler{agg: agg, logger: logger}
}

// Assemble builds the pairwise feature vector for a game between the subject
// team and its opponent as of the game date. Columns carry a Team_1_/Team_2_
// prefix so the two sides never collide.
func (s *Assembler) Assemble(team1, team2 string, date time.Time) ([]float64, []string, error) {
	vec1, cols1, err := s.agg.TeamVector(team1, date)
	if err != nil {
		return nil, nil, err
	}
	vec2, cols2, err := s.agg.TeamVector(team2, date)
	if err != nil {
		return nil, nil, err
	}

	vector := make([]float64, 0, len(vec1)+len(vec2))
	vector = append(vector, vec1...)
	vector = append(vector, vec2...)

	columns := make([]string, 0, len(cols1)+len(cols2))
	for _, c := range cols1 {
		columns = append(columns, "Team_1_"+c)
	}
	for _, c := range cols2 {
		columns = append(columns, "Team_2_"+c)
	}

	return vector, columns, nil
}

// Label resolves the subject team's binary outcome for the game date.
func (s *Assembler) Label(team string, date time.Time) (float64, error) {
	return s.agg.ResultFor(team, date)
}

// IsSkippable reports whether an error is one of the expected per-game
// conditions that cost a single row of a batch build, as opposed to the
// batch-fatal kinds.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNoRating) ||
		errors.Is(err, ErrNoStats) ||
		errors.Is(err, ErrNoPlayerStats) ||
		errors.Is(err, ErrNoResult) ||
		errors.Is(err, ErrUnparseableMatchup)
}
