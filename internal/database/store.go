package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no blob is stored under a name.
var ErrNotFound = errors.New("database: not found")

// Store keeps JSON blobs under fixed logical names.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Get returns the raw payload stored under name.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var e entry
	query := s.db.Rebind(`SELECT name, payload FROM kv_store WHERE name = ?`)
	err := s.db.GetContext(ctx, &e, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", name, err)
	}
	return e.Payload, nil
}

// Put replaces the payload stored under name in a single statement, so
// readers see either the old or the new value.
func (s *Store) Put(ctx context.Context, name, payload string) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (name, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := s.db.ExecContext(ctx, query, name, payload); err != nil {
		return fmt.Errorf("failed to put %s: %w", name, err)
	}
	return nil
}

// Delete removes the payload stored under name. Deleting a missing name is
// not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	query := s.db.Rebind(`DELETE FROM kv_store WHERE name = ?`)
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// GetJSON decodes the payload stored under name into v.
func (s *Store) GetJSON(ctx context.Context, name string, v interface{}) error {
	payload, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// PutJSON encodes v and stores it under name.
func (s *Store) PutJSON(ctx context.Context, name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return s.Put(ctx, name, string(payload))
}
