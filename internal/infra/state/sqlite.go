// Package state implements the durable local store backing sessions and
// preferences, as a small key-value table in a SQLite file.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/repository"
	"intillasense/internal/infra/security"
)

const (
	sessionsKey = "sessions"
	prefsKey    = "prefs"
)

// Compile-time check
var _ repository.StateStore = (*SQLiteStateStore)(nil)

// SQLiteStateStore keeps each durable record as one JSON document under a
// fixed key. Image payloads ride inside the sessions document in base64 via
// their JSON encoding, so a record is self-contained across restarts.
type SQLiteStateStore struct {
	db     *sql.DB
	cipher *security.Cipher
}

// NewSQLite opens (or creates) the state database at dbPath. Use ":memory:"
// for an ephemeral store in tests. When cipher is non-nil every record value
// is sealed before it hits disk; field photos and farm selections stay
// private even if the database file is copied off the machine.
func NewSQLite(dbPath string, cipher *security.Cipher) (*SQLiteStateStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		dbPath += "?_journal=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping state database: %w", err)
	}

	store := &SQLiteStateStore{db: db, cipher: cipher}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStateStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS state (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStateStore) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return s.put(ctx, sessionsKey, sessions)
}

func (s *SQLiteStateStore) LoadSessions(ctx context.Context) ([]*model.Session, error) {
	var sessions []*model.Session
	ok, err := s.get(ctx, sessionsKey, &sessions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*model.Session{}, nil
	}
	return sessions, nil
}

func (s *SQLiteStateStore) SavePrefs(ctx context.Context, prefs *repository.Prefs) error {
	return s.put(ctx, prefsKey, prefs)
}

func (s *SQLiteStateStore) LoadPrefs(ctx context.Context) (*repository.Prefs, error) {
	var prefs repository.Prefs
	ok, err := s.get(ctx, prefsKey, &prefs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func (s *SQLiteStateStore) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if s.cipher != nil {
		if b, err = s.cipher.Seal(b); err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
	}
	query := `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, b, time.Now().Unix()); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// get reports whether the record exists; a never-written key is empty state,
// not an error.
func (s *SQLiteStateStore) get(ctx context.Context, key string, v any) (bool, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&b)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if s.cipher != nil {
		if b, err = s.cipher.Open(b); err != nil {
			return false, fmt.Errorf("open %s: %w", key, err)
		}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
