package cartstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/norun9/dressco-storefront/cart"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cart_slots (
	session_id TEXT NOT NULL,
	slot_key   TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (session_id, slot_key)
)`

// SQLiteCartStore keeps carts in an embedded SQLite database.
type SQLiteCartStore struct {
	path string
	db   *sql.DB
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewSQLiteCartStore constructor. The database is opened by Initialize.
func NewSQLiteCartStore(path string, log logrus.FieldLogger) *SQLiteCartStore {
	return &SQLiteCartStore{path: path, log: log, now: time.Now}
}

// Initialize opens the database and creates the slot table.
func (s *SQLiteCartStore) Initialize(ctx context.Context) error {
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", s.path)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		s.log.WithError(err).Debug("SQLiteCartStore: busy_timeout not set")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return errors.Wrap(err, "creating cart_slots table")
	}

	s.db = db
	s.log.WithField("path", s.path).Info("SQLiteCartStore initialized")
	return nil
}

// Load reads the slot value for the session.
func (s *SQLiteCartStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cart_slots WHERE session_id = ? AND slot_key = ?`,
		sessionID, cart.StorageKey,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting cart slot")
	}
	return data, nil
}

// Save upserts the slot value.
func (s *SQLiteCartStore) Save(ctx context.Context, sessionID string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_slots (session_id, slot_key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (session_id, slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, cart.StorageKey, data, s.now().UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(err, "upserting cart slot")
	}
	return nil
}

// Delete removes every slot of the session.
func (s *SQLiteCartStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_slots WHERE session_id = ?`, sessionID); err != nil {
		return errors.Wrap(err, "deleting cart slot")
	}
	return nil
}

// Ping checks the database handle.
func (s *SQLiteCartStore) Ping(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteCartStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
