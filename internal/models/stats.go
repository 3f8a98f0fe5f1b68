package models

// StatColumns lists the box-score statistics carried on both team and player
// game rows, in the order they appear everywhere downstream. Feature column
// names are derived positionally from this slice, so the order is load-bearing:
// reordering it changes the schema of every dataset built afterwards.
var StatColumns = []string{
	"FGM", "FGA", "FG_PCT", "FG3M", "FG3A", "FG3_PCT",
	"FTM", "FTA", "FT_PCT", "OREB", "DREB", "REB", "AST",
	"STL", "BLK", "TOV", "PF", "PTS", "PLUS_MINUS",
}

// StatLine holds one game's box-score statistics for a team or a player.
type StatLine struct {
	FGM       float64 `json:"fgm"`
	FGA       float64 `json:"fga"`
	FGPct     float64 `json:"fg_pct"`
	FG3M      float64 `json:"fg3m"`
	FG3A      float64 `json:"fg3a"`
	FG3Pct    float64 `json:"fg3_pct"`
	FTM       float64 `json:"ftm"`
	FTA       float64 `json:"fta"`
	FTPct     float64 `json:"ft_pct"`
	OREB      float64 `json:"oreb"`
	DREB      float64 `json:"dreb"`
	REB       float64 `json:"reb"`
	AST       float64 `json:"ast"`
	STL       float64 `json:"stl"`
	BLK       float64 `json:"blk"`
	TOV       float64 `json:"tov"`
	PF        float64 `json:"pf"`
	PTS       float64 `json:"pts"`
	PlusMinus float64 `json:"plus_minus"`
}

// Values returns the stat line as a slice aligned with StatColumns.
func (s StatLine) Values() []float64 {
	return []float64{
		s.FGM, s.FGA, s.FGPct, s.FG3M, s.FG3A, s.FG3Pct,
		s.FTM, s.FTA, s.FTPct, s.OREB, s.DREB, s.REB, s.AST,
		s.STL, s.BLK, s.TOV, s.PF, s.PTS, s.PlusMinus,
	}
}

// StatLineFromValues builds a StatLine from a slice aligned with StatColumns.
func StatLineFromValues(v []float64) StatLine {
	var s StatLine
	if len(v) != len(StatColumns) {
		return s
	}
	s.FGM, s.FGA, s.FGPct = v[0], v[1], v[2]
	s.FG3M, s.FG3A, s.FG3Pct = v[3], v[4], v[5]
	s.FTM, s.FTA, s.FTPct = v[6], v[7], v[8]
	s.OREB, s.DREB, s.REB, s.AST = v[9], v[10], v[11], v[12]
	s.STL, s.BLK, s.TOV, s.PF = v[13], v[14], v[15], v[16]
	s.PTS, s.PlusMinus = v[17], v[18]
	return s
}
