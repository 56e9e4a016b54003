// Package sqlite provides a ProgramStore backed by a SQLite database file,
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"

	_ "modernc.org/sqlite"
)

// Store implements ports.ProgramStore on SQLite. Programs are stored in the
// text format together with their description and update time.
type Store struct {
	path     string
	alphabet domain.Alphabet

	mu sync.RWMutex
	db *sql.DB
}

type Option func(*Store)

// WithAlphabet sets the alphabet programs are parsed against on Load.
func WithAlphabet(a domain.Alphabet) Option {
	return func(s *Store) {
		s.alphabet = a
	}
}

// Open opens (creating if needed) the database at path and its schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	s := &Store{path: path, alphabet: domain.DefaultAlphabet}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Save inserts or replaces the program.
func (s *Store) Save(ctx context.Context, name string, p *domain.Program) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO programs (name, description, source, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, name, p.Description, text.FormatString(p), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save program %s: %w", name, err)
	}
	return nil
}

// Load reads and parses the program.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var src string
	err = db.QueryRowContext(ctx, `SELECT source FROM programs WHERE name = ?`, name).Scan(&src)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProgramNotFound, name)
		}
		return nil, fmt.Errorf("load program %s: %w", name, err)
	}

	p, err := text.ParseString(src, s.alphabet)
	if err != nil {
		return nil, fmt.Errorf("stored program %s: %w", name, err)
	}
	p.Name = name
	return p, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM programs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete program %s: %w", name, err)
	}
	return nil
}

// List returns the stored names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM programs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is closed")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS programs (
			name TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			source TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}
