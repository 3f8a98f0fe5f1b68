package nba

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// resultSetResponse is the provider's generic response envelope: every
// endpoint returns one or more named result sets, each a header array plus a
// row-major array of untyped values.
type resultSetResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func decodeResultSets(data []byte) (*resultSetResponse, error) {
	var resp resultSetResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode result sets: %w", err)
	}
	return &resp, nil
}

func (r *resultSetResponse) set(name string) (*resultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf("result set %q not in response", name)
}

// row binds one row to the set's headers for typed column access.
func (s *resultSet) row(i int) (rowReader, error) {
	if len(s.RowSet[i]) != len(s.Headers) {
		return rowReader{}, fmt.Errorf("result set %s row %d: %d values for %d headers",
			s.Name, i, len(s.RowSet[i]), len(s.Headers))
	}
	idx := make(map[string]int, len(s.Headers))
	for j, h := range s.Headers {
		idx[h] = j
	}
	return rowReader{idx: idx, row: s.RowSet[i]}, nil
}

type rowReader struct {
	idx map[string]int
	row []any
}

func (r rowReader) value(column string) any {
	j, ok := r.idx[column]
	if !ok {
		return nil
	}
	return r.row[j]
}

func (r rowReader) str(column string) string {
	if v, ok := r.value(column).(string); ok {
		return v
	}
	return ""
}

// f64 reads a numeric column. JSON numbers decode as float64; nulls (the
// provider's way of writing a missing stat) read as zero.
func (r rowReader) f64(column string) float64 {
	if v, ok := r.value(column).(float64); ok {
		return v
	}
	return 0
}

func (r rowReader) i64(column string) int64 {
	return int64(r.f64(column))
}

// date reads a game date column. The team game log writes ISO dates
// ("2024-04-10") while the player game log writes "APR 10, 2024".
func (r rowReader) date(column string) (time.Time, error) {
	raw := strings.TrimSpace(r.str(column))
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if len(raw) > 3 {
		normalized := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:3]) + raw[3:]
		if t, err := time.Parse("Jan 2, 2006", normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable game date %q", raw)
}

// statLine reads the shared box-score columns into a StatLine.
func (r rowReader) statLine() (models.StatLine, error) {
	values := make([]float64, len(models.StatColumns))
	for i, column := range models.StatColumns {
		if _, ok := r.idx[column]; !ok {
			return models.StatLine{}, fmt.Errorf("missing stat column %s", column)
		}
		values[i] = r.f64(column)
	}
	return models.StatLineFromValues(values), nil
}
