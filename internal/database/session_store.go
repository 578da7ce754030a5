package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionStore persists session view state in a SQL table so it survives
// restarts of the dashboard service. It implements cache.Store.
type SessionStore struct {
	db     *sqlx.DB
	driver string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore creates a SQL session store and ensures its table exists
func NewSessionStore(ctx context.Context, db *sqlx.DB, ttl time.Duration) (*SessionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required for session store")
	}

	store := &SessionStore{
		db:     db,
		driver: db.DriverName(),
		ttl:    ttl,
		now:    time.Now,
	}

	if err := store.CreateTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create session tables: %w", err)
	}

	return store, nil
}

// Health reports whether the session database answers
func (s *SessionStore) Health(ctx context.Context) error {
	return Ping(ctx, s.db)
}

// CreateTables creates the session cache table
func (s *SessionStore) CreateTables(ctx context.Context) error {
	valueType := "TEXT"
	if s.driver == DriverMySQL {
		valueType = "LONGTEXT"
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS session_cache (
		cache_key VARCHAR(255) PRIMARY KEY,
		value %s NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`, valueType)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create session_cache table: %w", err)
	}
	return nil
}

// Get returns an unexpired value
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := s.db.Rebind(`SELECT value FROM session_cache WHERE cache_key = ? AND expires_at > ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, key, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a value and extends its expiry by the session TTL
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO session_cache (cache_key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`
	if s.driver == DriverMySQL {
		query = `INSERT INTO session_cache (cache_key, value, expires_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), expires_at = VALUES(expires_at)`
	}

	expiresAt := s.now().UTC().Add(s.ttl)
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), key, value, expiresAt); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

// Clear deletes a key
func (s *SessionStore) Clear(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM session_cache WHERE cache_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to clear session key %s: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes every expired row and returns how many were removed
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := s.db.Rebind(`DELETE FROM session_cache WHERE expires_at <= ?`)
	result, err := s.db.ExecContext(ctx, query, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return result.RowsAffected()
}
