package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// SaveTeamGames upserts team game rows inside one transaction. Rows already
// present (same game and team) are replaced, so refetching a season is safe.
func (s *Store) SaveTeamGames(ctx context.Context, games []models.TeamGame) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO team_games
		(game_id, team_abbreviation, game_date, matchup, wl, season, %s)
		VALUES (%s)`,
		statColumnNames(), placeholders(6+len(models.StatColumns)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		args := []any{g.GameID, g.TeamAbbrev, g.GameDate.Format(dateFormat), g.Matchup, g.WinLoss, g.Season}
		for _, v := range g.Stats.Values() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert team game %s/%s: %w", g.GameID, g.TeamAbbrev, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Infow("Saved team games", "count", len(games))
	return nil
}

// TeamGames loads team game rows ordered by game date and then insertion
// order, which is the replay and build order for everything downstream.
// An empty season loads every stored season.
func (s *Store) TeamGames(ctx context.Context, season string) ([]models.TeamGame, error) {
	query := fmt.Sprintf(`SELECT game_id, team_abbreviation, game_date, matchup, wl, season, %s
		FROM team_games`, statColumnNames())
	var args []any
	if season != "" {
		query += ` WHERE season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY game_date, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query team games: %w", err)
	}
	defer rows.Close()

	var games []models.TeamGame
	for rows.Next() {
		var g models.TeamGame
		var date string
		stats := make([]float64, len(models.StatColumns))

		dest := []any{&g.GameID, &g.TeamAbbrev, &date, &g.Matchup, &g.WinLoss, &g.Season}
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan team game: %w", err)
		}

		g.GameDate, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parse game date %q: %w", date, err)
		}
		g.Stats = models.StatLineFromValues(stats)
		games = append(games, g)
	}
	return games, rows.Err()
}

// SavePlayerGames upserts player game rows inside one transaction.
func (s *Store) SavePlayerGames(ctx context.Context, games []models.PlayerGame) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO player_games
		(player_id, game_id, matchup, game_date, min, season, %s)
		VALUES (%s)`,
		statColumnNames(), placeholders(6+len(models.StatColumns)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		args := []any{g.PlayerID, g.GameID, g.Matchup, g.GameDate.Format(dateFormat), g.Minutes, g.Season}
		for _, v := range g.Stats.Values() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert player game %d/%s: %w", g.PlayerID, g.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Infow("Saved player games", "count", len(games))
	return nil
}

// PlayerGames loads player game rows ordered by game date then insertion
// order. An empty season loads every stored season.
func (s *Store) PlayerGames(ctx context.Context, season string) ([]models.PlayerGame, error) {
	query := fmt.Sprintf(`SELECT player_id, game_id, matchup, game_date, min, season, %s
		FROM player_games`, statColumnNames())
	var args []any
	if season != "" {
		query += ` WHERE season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY game_date, seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query player games: %w", err)
	}
	defer rows.Close()

	var games []models.PlayerGame
	for rows.Next() {
		var g models.PlayerGame
		var date string
		stats := make([]float64, len(models.StatColumns))

		dest := []any{&g.PlayerID, &g.GameID, &g.Matchup, &date, &g.Minutes, &g.Season}
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan player game: %w", err)
		}

		g.GameDate, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parse game date %q: %w", date, err)
		}
		g.Stats = models.StatLineFromValues(stats)
		games = append(games, g)
	}
	return games, rows.Err()
}
