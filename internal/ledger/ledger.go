// Package ledger persists the append-only action log and the single
// mutable status string used for admin reporting.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

// Action identifies a recorded user action.
type Action string

const (
	// ActionStart is recorded when a user starts the bot.
	ActionStart Action = "start"
	// ActionConversion is recorded after a successful video conversion.
	ActionConversion Action = "conversion"
	// ActionUpscale is recorded after a successful image upscale.
	ActionUpscale Action = "ai_upscale"
	// ActionSetStatus is recorded when the admin updates the status string.
	ActionSetStatus Action = "set_status"
)

// statusKey is the settings row holding the status string.
const statusKey = "status"

// DefaultStatus is seeded into the settings table on first init.
const DefaultStatus = "Working on projects 🚀"

// ErrInvalidAction is returned when an unknown action kind is recorded.
var ErrInvalidAction = errors.New("ledger: invalid action kind")

// Counts holds aggregate usage numbers for admin reporting.
type Counts struct {
	// DistinctUsers is the number of unique users that performed any action.
	DistinctUsers int
	// Conversions is the number of successful video conversions.
	Conversions int
	// Upscales is the number of successful image upscales.
	Upscales int
}

// Store records usage and holds the status setting in a SQLite database.
// Records are append-only; nothing in the stats table is ever updated
// or deleted.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path, applies the schema
// and seeds the default status row if absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// init applies the schema and seeds defaults.
func (s *Store) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS stats (
			user_id INTEGER,
			action TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply ledger schema: %w", err)
		}
	}

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)",
		statusKey, DefaultStatus,
	)
	if err != nil {
		return fmt.Errorf("seed default status: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAction appends one usage record for the user.
func (s *Store) RecordAction(ctx context.Context, userID int64, action Action) error {
	switch action {
	case ActionStart, ActionConversion, ActionUpscale, ActionSetStatus:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO stats (user_id, action) VALUES (?, ?)",
		userID, string(action),
	)
	if err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// GetCounts returns aggregate usage numbers.
func (s *Store) GetCounts(ctx context.Context) (Counts, error) {
	var c Counts

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT user_id) FROM stats")
	if err := row.Scan(&c.DistinctUsers); err != nil {
		return Counts{}, fmt.Errorf("count users: %w", err)
	}

	row = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stats WHERE action = ?", string(ActionConversion))
	if err := row.Scan(&c.Conversions); err != nil {
		return Counts{}, fmt.Errorf("count conversions: %w", err)
	}

	row = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stats WHERE action = ?", string(ActionUpscale))
	if err := row.Scan(&c.Upscales); err != nil {
		return Counts{}, fmt.Errorf("count upscales: %w", err)
	}

	return c, nil
}

// GetStatus returns the current status string, or the default when the
// row is somehow missing.
func (s *Store) GetStatus(ctx context.Context) (string, error) {
	var value string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", statusKey)
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultStatus, nil
	}
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	return value, nil
}

// SetStatus overwrites the status string, last writer wins.
func (s *Store) SetStatus(ctx context.Context, status string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		statusKey, status,
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}
