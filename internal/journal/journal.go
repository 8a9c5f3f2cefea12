// Package journal keeps a local SQLite record of booking submission attempts.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/consultbook/internal/bookingapi"
	"github.com/julianstephens/consultbook/internal/logger"
	"github.com/julianstephens/consultbook/internal/migration"
	"github.com/julianstephens/consultbook/migrations"
)

// Entry is one submission attempt
type Entry struct {
	ID        string
	CreatedAt time.Time
	Request   bookingapi.BookingRequest
	Channel   string
	Status    string
	Detail    string
}

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Open creates the database if needed and applies pending migrations
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(func(msg string) { logger.Debug(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

// PendingMigrations reports how many migrations have not been applied
func (s *Store) PendingMigrations() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("journal not open")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.Validate()
}

// Record stores an attempt
func (s *Store) Record(ctx context.Context, e Entry) error {
	if err := s.Open(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO booking_attempts (id, created_at, name, email, phone, company, date, time, channel, status, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.Request.Name, e.Request.Email, e.Request.Phone, e.Request.Company,
		e.Request.Date, e.Request.Time,
		e.Channel, e.Status, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record booking attempt: %w", err)
	}
	return nil
}

// List returns the most recent attempts first; limit <= 0 returns all
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if err := s.Open(); err != nil {
		return nil, err
	}

	query := `SELECT id, created_at, name, email, phone, company, date, time, channel, status, detail
		FROM booking_attempts ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking attempts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created,
			&e.Request.Name, &e.Request.Email, &e.Request.Phone, &e.Request.Company,
			&e.Request.Date, &e.Request.Time,
			&e.Channel, &e.Status, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan booking attempt: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
