package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
)

var (
	// ErrNotFound is returned by KV backends when a key is absent and by
	// board operations when a like/report target cannot be located.
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps write failures from the underlying medium. Callers
	// must treat it as a recoverable operation failure, not a crash.
	ErrStorage = errors.New("storage failure")
)

// KV is the raw byte-oriented backend contract. Implementations live in
// the pebblekv and sqlitekv subpackages.
type KV interface {
	Set(key string, value []byte) error
	// Get returns ErrNotFound when the key is absent.
	Get(key string) ([]byte, error)
	// Delete is a no-op when the key is absent.
	Delete(key string) error
	Close() error
}

// Store is a namespaced JSON key-value layer over a KV backend. It is
// synchronous and best-effort: corrupt stored data is treated as absent,
// and write failures surface as ErrStorage. There are no transactions and
// no locking; the last writer wins.
type Store struct {
	kv KV
	ns string
}

// New wraps kv with the given namespace prefix. Keys are stored as
// "<namespace><key>", matching the site's storage key convention.
func New(kv KV, namespace string) *Store {
	return &Store{kv: kv, ns: namespace}
}

func (s *Store) key(k string) string { return s.ns + k }

// Save serializes v to JSON and writes it under the namespaced key.
// A rejected write (quota, closed backend) is reported as ErrStorage.
func (s *Store) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(s.key(key), b); err != nil {
		logger.Error("store_save_failed", "key", key, "error", err)
		return fmt.Errorf("%w: save %s: %v", ErrStorage, key, err)
	}
	return nil
}

// Load reads and deserializes the value under key into out. It returns
// false when the key is absent or the stored text fails to parse; corrupt
// data is logged and treated as absence, never as a hard error.
func (s *Store) Load(key string, out any) (bool, error) {
	b, err := s.kv.Get(s.key(key))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: load %s: %v", ErrStorage, key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		logger.Warn("store_corrupt_value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Remove deletes the key; absent keys are a no-op.
func (s *Store) Remove(key string) error {
	if err := s.kv.Delete(s.key(key)); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, key, err)
	}
	return nil
}

// SetRaw writes an unserialized value under the namespaced key. It exists
// for tests and admin tooling that need to plant malformed data.
func (s *Store) SetRaw(key string, value []byte) error {
	return s.kv.Set(s.key(key), value)
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
