// Package storage is the local season-data store backing the pipeline: team
// and player game logs, the rating series and the built feature tables all
// live in one embedded SQLite database file.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/HarryGoodman/nba-betting-ml/internal/models"
)

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, logger: logger.Sugar()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Infow("Store opened", "path", path)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const dateFormat = "2006-01-02"

// statColumnDDL renders the stat columns as REAL NOT NULL column clauses, in
// the declared stat order.
func statColumnDDL() string {
	clauses := make([]string, len(models.StatColumns))
	for i, c := range models.StatColumns {
		clauses[i] = fmt.Sprintf("%s REAL NOT NULL", strings.ToLower(c))
	}
	return strings.Join(clauses, ",\n\t\t\t")
}

func statColumnNames() string {
	names := make([]string, len(models.StatColumns))
	for i, c := range models.StatColumns {
		names[i] = strings.ToLower(c)
	}
	return strings.Join(names, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *Store) migrate() error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS team_games (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			team_abbreviation TEXT NOT NULL,
			game_date TEXT NOT NULL,
			matchup TEXT NOT NULL,
			wl TEXT NOT NULL,
			season TEXT NOT NULL,
			%s,
			UNIQUE (game_id, team_abbreviation)
		)`, statColumnDDL()),
		`CREATE INDEX IF NOT EXISTS idx_team_games_team_date ON team_games(team_abbreviation, game_date)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS player_games (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			matchup TEXT NOT NULL,
			game_date TEXT NOT NULL,
			min REAL NOT NULL,
			season TEXT NOT NULL,
			%s,
			UNIQUE (player_id, game_id)
		)`, statColumnDDL()),
		`CREATE INDEX IF NOT EXISTS idx_player_games_date ON player_games(game_date)`,

		`CREATE TABLE IF NOT EXISTS elo_ratings (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			team TEXT NOT NULL,
			date TEXT NOT NULL,
			elo REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elo_ratings_team ON elo_ratings(team, date)`,

		`CREATE TABLE IF NOT EXISTS dataset_builds (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			columns TEXT NOT NULL,
			processed INTEGER NOT NULL,
			skipped INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feature_rows (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			build_id TEXT NOT NULL REFERENCES dataset_builds(id),
			game_id TEXT NOT NULL,
			features TEXT NOT NULL,
			win REAL NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
