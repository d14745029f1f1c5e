package portfolio

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a cached response does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database that persists upstream blog responses so
// a restart does not cold-start the cache.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a response is being written; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS responses (
    key TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS responses_fetched_at ON responses (fetched_at);
`)
	return err
}

// GetResponse returns the stored body for key and when it was fetched.
func (s *Store) GetResponse(key string) ([]byte, time.Time, error) {
	var body []byte
	var fetched int64
	err := s.db.QueryRow(`SELECT body, fetched_at FROM responses WHERE key = ?`, key).Scan(&body, &fetched)
	if err != nil {
		return nil, time.Time{}, err
	}
	return body, time.Unix(0, fetched), nil
}

// SaveResponse upserts the body for key.
func (s *Store) SaveResponse(key string, body []byte, fetched time.Time) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO responses (key, body, fetched_at) VALUES (?, ?, ?)`,
		key, body, fetched.UnixNano())
	return err
}

// DeleteResponsesBefore removes responses fetched before cutoff and
// returns how many were deleted.
func (s *Store) DeleteResponsesBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM responses WHERE fetched_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TrimResponses keeps the keep most recently fetched responses and deletes
// the rest. A keep of zero or less leaves the table alone.
func (s *Store) TrimResponses(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`DELETE FROM responses WHERE key NOT IN (
		SELECT key FROM responses ORDER BY fetched_at DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountResponses returns the number of stored responses.
func (s *Store) CountResponses() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n)
	return n, err
}

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
