package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// SaveRatings replaces the stored rating series with the given points. The
// series is always regenerated by a full replay, so partial updates are
// never needed.
func (s *Store) SaveRatings(ctx context.Context, points []models.RatingPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM elo_ratings`); err != nil {
		return fmt.Errorf("clear ratings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO elo_ratings (team, date, elo) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Team, p.Date.Format(dateFormat), p.Rating); err != nil {
			return fmt.Errorf("insert rating %s@%s: %w", p.Team, p.Date.Format(dateFormat), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Infow("Saved rating series", "points", len(points))
	return nil
}

// Ratings loads the stored rating series in insertion order.
func (s *Store) Ratings(ctx context.Context) ([]models.RatingPoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT team, date, elo FROM elo_ratings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var points []models.RatingPoint
	for rows.Next() {
		var p models.RatingPoint
		var date string
		if err := rows.Scan(&p.Team, &date, &p.Rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		p.Date, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parse rating date %q: %w", date, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
