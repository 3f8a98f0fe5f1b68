package logic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the feature table in the flat numeric layout downstream
// trainers expect: GAME_ID, the feature columns, then the binary Win target.
func (r *BuildResult) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(r.Columns)+2)
	header = append(header, "GAME_ID")
	header = append(header, r.Columns...)
	header = append(header, "Win")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for i, row := range r.Rows {
		record[0] = r.GameIDs[i]
		for j, v := range row {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[len(record)-1] = strconv.FormatFloat(r.Labels[i], 'g', -1, 64)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
