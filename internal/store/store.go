package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
)

// Persisted keys. They mirror the browser-local storage keys of the client.
const (
	KeyUserName             = "chat-user-name"
	KeyMessages             = "chat-messages"
	KeySoundEnabled         = "sound-enabled"
	KeyNotificationsEnabled = "notifications-enabled"
	KeyTheme                = "chat-theme"
)

// KV is durable, synchronous key/value storage of JSON documents. Reads never
// fail from the caller's point of view: an absent or unparsable value reports
// false and leaves the destination untouched, so callers pre-fill it with the
// documented default.
type KV interface {
	ReadJSON(ctx context.Context, key string, dest any) bool
	WriteJSON(ctx context.Context, key string, value any) error
}

// Store is a sqlx-backed KV implementation.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store on top of an opened database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ReadJSON loads the value stored under key into dest. It reports whether a
// usable value was found; corrupt stored content is treated as absent.
func (s *Store) ReadJSON(ctx context.Context, key string, dest any) bool {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM kv WHERE key=?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		log.Printf("store read %q failed: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("store value for %q is corrupt, using default: %v", key, err)
		return false
	}
	return true
}

// WriteJSON stores value under key, replacing any previous value.
func (s *Store) WriteJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
         ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP`,
		key, string(raw))
	return err
}
