// Package answers implements the magic answer book: a weighted draw over a
// configured answer pool with a small chance of a special answer, plus a
// persisted draw history.
package answers

import (
	"math/rand"
	"sync"
	"time"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
)

const historyKey = "answer_history_v2"

// HistoryLimit caps how many past draws are retained.
const HistoryLimit = 30

// HistoryEntry is one past draw.
type HistoryEntry struct {
	Answer    string `json:"answer"`
	Special   bool   `json:"special"`
	Timestamp int64  `json:"timestamp"`
}

// Book draws answers. Safe for concurrent use.
type Book struct {
	mu    sync.Mutex
	cfg   config.AnswerBookConfig
	rng   *rand.Rand
	store *store.Store
	now   func() time.Time
}

// New builds a Book from cfg. A nil rng gets a time-seeded source. The store
// may be nil to disable history.
func New(cfg config.AnswerBookConfig, rng *rand.Rand, st *store.Store) *Book {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Book{cfg: cfg, rng: rng, store: st, now: time.Now}
}

// Draw picks an answer. With probability SpecialChance the draw comes from
// the special pool; otherwise from the regular pool. The draw is appended to
// the history when a store is attached.
func (b *Book) Draw() (answer string, special bool, err error) {
	b.mu.Lock()
	if len(b.cfg.SpecialAnswers) > 0 && b.rng.Float64() < b.cfg.SpecialChance {
		answer = utils.RandomElement(b.rng, b.cfg.SpecialAnswers)
		special = true
	} else {
		answer = utils.RandomElement(b.rng, b.cfg.Answers)
	}
	ts := b.now().UnixMilli()
	b.mu.Unlock()

	if answer == "" {
		return "", false, nil
	}
	if b.store != nil {
		if herr := b.record(HistoryEntry{Answer: answer, Special: special, Timestamp: ts}); herr != nil {
			return answer, special, herr
		}
	}
	return answer, special, nil
}

// History returns past draws, newest first.
func (b *Book) History() ([]HistoryEntry, error) {
	if b.store == nil {
		return []HistoryEntry{}, nil
	}
	var hist []HistoryEntry
	if _, err := b.store.Load(historyKey, &hist); err != nil {
		return nil, err
	}
	if hist == nil {
		hist = []HistoryEntry{}
	}
	return hist, nil
}

// ClearHistory removes all recorded draws.
func (b *Book) ClearHistory() error {
	if b.store == nil {
		return nil
	}
	return b.store.Remove(historyKey)
}

func (b *Book) record(e HistoryEntry) error {
	hist, err := b.History()
	if err != nil {
		return err
	}
	hist = append([]HistoryEntry{e}, hist...)
	if len(hist) > HistoryLimit {
		hist = hist[:HistoryLimit]
	}
	return b.store.Save(historyKey, hist)
}
