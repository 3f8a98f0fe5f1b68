package logic

import "errors"

// Per-game conditions. These are expected during a large batch build: a game
// early in the season has no prior history, a matchup string may be garbage.
// They are caught at the assembler/builder boundary and turn into skips.
var (
	ErrNoRating           = errors.New("no rating before cutoff date")
	ErrNoStats            = errors.New("no team stats before cutoff date")
	ErrNoPlayerStats      = errors.New("no player stats before cutoff date")
	ErrNoResult           = errors.New("no result for game date")
	ErrUnparseableMatchup = errors.New("unparseable matchup")
)

// Batch-fatal conditions. These mean the whole run was given inconsistent
// inputs or produced nothing usable, and must abort with a diagnostic.
var (
	ErrUnknownTeam  = errors.New("team not present in initial rating set")
	ErrEmptyDataset = errors.New("no games produced any feature rows")
)
