package models

import "time"

// TeamGame is one team's side of one game, as reported by the league game
// log. Every physical game produces two of these rows, one per team.
type TeamGame struct {
	GameID     string    `json:"game_id"`
	TeamAbbrev string    `json:"team_abbreviation"`
	GameDate   time.Time `json:"game_date"`
	Matchup    string    `json:"matchup"`
	WinLoss    string    `json:"wl"` // "W" or "L"
	Season     string    `json:"season"`
	Stats      StatLine  `json:"stats"`
}

// Won reports whether this side won the game.
func (g TeamGame) Won() bool {
	return g.WinLoss == "W"
}

// PlayerGame is one player's box score for one game. The player is tied to a
// team only through the matchup text, which contains the team code.
type PlayerGame struct {
	PlayerID int64     `json:"player_id"`
	GameID   string    `json:"game_id"`
	Matchup  string    `json:"matchup"`
	GameDate time.Time `json:"game_date"`
	Minutes  float64   `json:"min"`
	Season   string    `json:"season"`
	Stats    StatLine  `json:"stats"`
}

// RatingPoint is one checkpoint in a team's rating series.
type RatingPoint struct {
	Team   string    `json:"team"`
	Date   time.Time `json:"date"`
	Rating float64   `json:"elo"`
}
