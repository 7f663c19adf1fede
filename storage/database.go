package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const (
	// DefaultDBFileName is the SQLite filename under the data directory.
	DefaultDBFileName = "camptrack.db"
)

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS users (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  username      TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL CHECK(role IN ('admin','coordinator','leader')),
  is_disabled   INTEGER NOT NULL DEFAULT 0,
  created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);
`,
	`
CREATE TABLE IF NOT EXISTS messages (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  sender_id    INTEGER NOT NULL REFERENCES users(id),
  recipient_id INTEGER NOT NULL REFERENCES users(id),
  message      TEXT NOT NULL,
  created_at   TEXT NOT NULL DEFAULT (datetime('now')),
  is_read      INTEGER NOT NULL DEFAULT 0
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_pair
ON messages (sender_id, recipient_id, id);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_unread
ON messages (recipient_id, is_read, sender_id);
`,
	`
CREATE TABLE IF NOT EXISTS camps (
  id                        INTEGER PRIMARY KEY AUTOINCREMENT,
  coordinator_id            INTEGER NOT NULL REFERENCES users(id),
  leader_id                 INTEGER REFERENCES users(id),
  name                      TEXT NOT NULL,
  location                  TEXT NOT NULL DEFAULT '',
  latitude                  REAL,
  longitude                 REAL,
  start_date                TEXT NOT NULL,
  end_date                  TEXT NOT NULL,
  type                      TEXT NOT NULL CHECK(type IN ('day_camp','overnight','expedition')),
  approved_daily_food_stock INTEGER NOT NULL DEFAULT 0,
  leader_daily_payment_rate REAL NOT NULL DEFAULT 0,
  capacity                  INTEGER NOT NULL DEFAULT 0,
  daily_food_per_camper     INTEGER NOT NULL DEFAULT 0,
  created_at                TEXT NOT NULL DEFAULT (date('now'))
);
`,
	`
CREATE TABLE IF NOT EXISTS campers (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  camp_id       INTEGER NOT NULL REFERENCES camps(id),
  name          TEXT NOT NULL,
  date_of_birth TEXT NOT NULL,
  created_at    TEXT NOT NULL DEFAULT (datetime('now')),
  UNIQUE (name, date_of_birth)
);
`,
	`
CREATE TABLE IF NOT EXISTS activities (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  camp_id        INTEGER NOT NULL REFERENCES camps(id),
  activity_date  TEXT NOT NULL,
  activity_name  TEXT NOT NULL,
  incident_count INTEGER NOT NULL DEFAULT 0,
  notes          TEXT NOT NULL DEFAULT ''
);
`,
	`
CREATE TABLE IF NOT EXISTS activity_campers (
  activity_id INTEGER NOT NULL REFERENCES activities(id),
  camper_id   INTEGER NOT NULL REFERENCES campers(id),
  PRIMARY KEY (activity_id, camper_id)
);
`,
	`
CREATE TABLE IF NOT EXISTS attendance_records (
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  camp_id   INTEGER NOT NULL REFERENCES camps(id),
  camper_id INTEGER NOT NULL REFERENCES campers(id),
  date      TEXT NOT NULL,
  status    TEXT NOT NULL CHECK(status IN ('present','absent'))
);
`,
	`
CREATE TABLE IF NOT EXISTS food_stock_history (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  camp_id         INTEGER NOT NULL REFERENCES camps(id),
  date            TEXT NOT NULL,
  stock_available INTEGER NOT NULL,
  change_reason   TEXT NOT NULL,
  change_amount   INTEGER NOT NULL
);
`,
	`
CREATE TABLE IF NOT EXISTS notifications (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  camp_id        INTEGER NOT NULL REFERENCES camps(id),
  coordinator_id INTEGER NOT NULL REFERENCES users(id),
  type           TEXT NOT NULL,
  message        TEXT NOT NULL,
  is_read        INTEGER NOT NULL DEFAULT 0,
  created_at     TEXT NOT NULL DEFAULT (datetime('now'))
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_camps_leader
ON camps (leader_id, start_date);
`,
	`
CREATE INDEX IF NOT EXISTS idx_attendance_camp_date
ON attendance_records (camp_id, date);
`,
	`
CREATE INDEX IF NOT EXISTS idx_food_stock_camp_date
ON food_stock_history (camp_id, date, id);
`,
}

// Store is a thin wrapper around a SQLite connection.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
}

// Open opens (or creates) camptrack.db under the given data directory and
// runs migrations.
func Open(dataDir string) (*Store, string, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, "", fmt.Errorf("create storage directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DefaultDBFileName)
	store, err := OpenPath(dbPath)
	if err != nil {
		return nil, "", err
	}

	return store, dbPath, nil
}

// OpenPath opens SQLite at an explicit path and runs schema migrations.
func OpenPath(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.ToSlash(dbPath))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.enableWALMode(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	var closeErr error
	s.closeOnce.Do(func() {
		closeErr = s.db.Close()
		s.db = nil
	})
	return closeErr
}

func (s *Store) applyMigrations() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version >= len(migrations) {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.Exec(migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", i+1)); err != nil {
			return fmt.Errorf("set schema version %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration transaction: %w", err)
	}

	return nil
}

func (s *Store) enableWALMode() error {
	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode=WAL;").Scan(&journalMode); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	if !strings.EqualFold(journalMode, "wal") {
		return fmt.Errorf("enable WAL mode: unexpected journal mode %q", journalMode)
	}
	return nil
}
