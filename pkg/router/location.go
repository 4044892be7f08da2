package router

import "sync"

// MemLocation is an in-process Location. The HTTP navigation endpoints
// mutate it the way a browser address bar would.
type MemLocation struct {
	mu   sync.Mutex
	frag string
}

// NewMemLocation returns a MemLocation starting at frag.
func NewMemLocation(frag string) *MemLocation {
	return &MemLocation{frag: frag}
}

func (l *MemLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frag
}

func (l *MemLocation) SetFragment(frag string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frag = frag
}
