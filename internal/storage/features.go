package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HarryGoodman/nba-betting-ml/internal/logic"
)

// BuildInfo summarizes one stored dataset build.
type BuildInfo struct {
	ID        string
	CreatedAt time.Time
	Processed int
	Skipped   int
}

// SaveBuild persists a finished feature table under its build ID.
func (s *Store) SaveBuild(ctx context.Context, result *logic.BuildResult) error {
	columns, err := json.Marshal(result.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dataset_builds (id, created_at, columns, processed, skipped) VALUES (?, ?, ?, ?, ?)`,
		result.BuildID, time.Now().UTC().Format(time.RFC3339), string(columns), result.Processed, result.Skipped,
	); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO feature_rows (build_id, game_id, features, win) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range result.Rows {
		features, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal features for %s: %w", result.GameIDs[i], err)
		}
		if _, err := stmt.ExecContext(ctx, result.BuildID, result.GameIDs[i], string(features), result.Labels[i]); err != nil {
			return fmt.Errorf("insert feature row %s: %w", result.GameIDs[i], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Infow("Saved dataset build",
		"buildID", result.BuildID,
		"rows", len(result.Rows),
		"columns", len(result.Columns),
	)
	return nil
}

// Builds lists stored dataset builds, most recent first.
func (s *Store) Builds(ctx context.Context) ([]BuildInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, processed, skipped FROM dataset_builds ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildInfo
	for rows.Next() {
		var b BuildInfo
		var created string
		if err := rows.Scan(&b.ID, &created, &b.Processed, &b.Skipped); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse build timestamp %q: %w", created, err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// FeatureTable reconstructs a stored build, rows in their original order.
func (s *Store) FeatureTable(ctx context.Context, buildID string) (*logic.BuildResult, error) {
	result := &logic.BuildResult{BuildID: buildID}

	var columns string
	err := s.db.QueryRowContext(ctx,
		`SELECT columns, processed, skipped FROM dataset_builds WHERE id = ?`, buildID,
	).Scan(&columns, &result.Processed, &result.Skipped)
	if err != nil {
		return nil, fmt.Errorf("load build %s: %w", buildID, err)
	}
	if err := json.Unmarshal([]byte(columns), &result.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, features, win FROM feature_rows WHERE build_id = ? ORDER BY seq`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query feature rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gameID, features string
		var win float64
		if err := rows.Scan(&gameID, &features, &win); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		var vector []float64
		if err := json.Unmarshal([]byte(features), &vector); err != nil {
			return nil, fmt.Errorf("unmarshal features for %s: %w", gameID, err)
		}
		result.GameIDs = append(result.GameIDs, gameID)
		result.Rows = append(result.Rows, vector)
		result.Labels = append(result.Labels, win)
	}
	return result, rows.Err()
}
