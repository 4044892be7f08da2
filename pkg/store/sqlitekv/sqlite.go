package sqlitekv

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
)

// KV is a store.KV backed by a single-table SQLite database. It exists for
// deployments that prefer one portable file over a Pebble directory.
type KV struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`

// Open opens (or creates) the SQLite database at path and applies the
// schema. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*KV, error) {
	logger.Info("opening_sqlite_db", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite is single-writer, and ":memory:" databases are
	// per-connection so a pool would hand out empty ones
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &KV{db: db}, nil
}

func (k *KV) Set(key string, value []byte) error {
	_, err := k.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		logger.Error("sqlite_set_failed", "key", key, "error", err)
	}
	return err
}

func (k *KV) Get(key string) ([]byte, error) {
	var v []byte
	err := k.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (k *KV) Delete(key string) error {
	_, err := k.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (k *KV) Close() error {
	return k.db.Close()
}
