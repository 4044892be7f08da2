package pebblekv

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
)

// KV is a Pebble-backed store.KV. Writes are synced so a crash never loses
// an acknowledged save.
type KV struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*KV, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	return &KV{db: db}, nil
}

func (k *KV) Set(key string, value []byte) error {
	if k.db == nil {
		return fmt.Errorf("pebble not opened")
	}
	if err := k.db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Error("pebble_set_failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (k *KV) Get(key string) ([]byte, error) {
	if k.db == nil {
		return nil, fmt.Errorf("pebble not opened")
	}
	v, closer, err := k.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	return out, nil
}

func (k *KV) Delete(key string) error {
	if k.db == nil {
		return fmt.Errorf("pebble not opened")
	}
	return k.db.Delete([]byte(key), pebble.Sync)
}

func (k *KV) Close() error {
	if k.db == nil {
		return nil
	}
	err := k.db.Close()
	k.db = nil
	logger.Info("pebble_closed")
	return err
}
