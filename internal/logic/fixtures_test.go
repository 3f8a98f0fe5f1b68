package logic

import (
	"fmt"
	"time"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// day returns a date in January 2024, the test season's calendar.
func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

// teamGamePair builds both rows of one physical game: the home team's row and
// the away team's mirror row, sharing a game ID.
func teamGamePair(gameID string, d int, home, away string, homeWon bool, homePts, awayPts float64) []models.TeamGame {
	homeWL, awayWL := "W", "L"
	if !homeWon {
		homeWL, awayWL = "L", "W"
	}
	return []models.TeamGame{
		{
			GameID:     gameID,
			TeamAbbrev: home,
			GameDate:   day(d),
			Matchup:    fmt.Sprintf("%s vs. %s", home, away),
			WinLoss:    homeWL,
			Season:     "2023-24",
			Stats:      statsWithPoints(homePts),
		},
		{
			GameID:     gameID,
			TeamAbbrev: away,
			GameDate:   day(d),
			Matchup:    fmt.Sprintf("%s @ %s", away, home),
			WinLoss:    awayWL,
			Season:     "2023-24",
			Stats:      statsWithPoints(awayPts),
		},
	}
}

// statsWithPoints builds a stat line whose PTS carries the given value and
// whose other columns are small fixed numbers, so column misalignment shows
// up as a wrong value rather than a coincidental match.
func statsWithPoints(pts float64) models.StatLine {
	values := make([]float64, len(models.StatColumns))
	for i := range values {
		values[i] = float64(i + 1)
	}
	s := models.StatLineFromValues(values)
	s.PTS = pts
	return s
}

func playerGame(playerID int64, gameID string, d int, team, opponent string, minutes, pts float64) models.PlayerGame {
	return models.PlayerGame{
		PlayerID: playerID,
		GameID:   gameID,
		Matchup:  fmt.Sprintf("%s vs. %s", team, opponent),
		GameDate: day(d),
		Minutes:  minutes,
		Season:   "2023-24",
		Stats:    statsWithPoints(pts),
	}
}
