package logic

import (
	"fmt"
	"strings"
)

// Matchup is the parsed form of a game log matchup string. The provider uses
// two separator styles: "GSW vs. LAL" when the subject team is at home and
// "GSW @ LAL" when away. In both styles the opponent is the final token.
type Matchup struct {
	Team     string
	Opponent string
	Home     bool
}

// ParseMatchup parses a matchup descriptor. It is the single parsing rule for
// the whole pipeline: both the rating replay and the dataset builder resolve
// opponents through it, so the two can never silently disagree.
func ParseMatchup(s string) (Matchup, error) {
	if parts := strings.Split(s, " vs. "); len(parts) == 2 {
		return newMatchup(parts[0], parts[1], true)
	}
	if parts := strings.Split(s, " @ "); len(parts) == 2 {
		return newMatchup(parts[0], parts[1], false)
	}
	return Matchup{}, fmt.Errorf("%w: %q", ErrUnparseableMatchup, s)
}

func newMatchup(team, opponent string, home bool) (Matchup, error) {
	team = strings.TrimSpace(team)
	opponent = strings.TrimSpace(opponent)
	if team == "" || opponent == "" {
		return Matchup{}, fmt.Errorf("%w: empty team code", ErrUnparseableMatchup)
	}
	return Matchup{Team: team, Opponent: opponent, Home: home}, nil
}
