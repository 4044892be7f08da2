package models

// Message is a single board post. Top-level messages own their replies;
// a reply never has replies of its own (one-level nesting).
type Message struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	// Avatar is the author-chosen display glyph, one of the configured set
	Avatar   string `json:"avatar"`
	Nickname string `json:"nickname"`
	// UserID is the per-browser pseudonymous tag ("#" + 4 uppercase base36)
	UserID  string `json:"user_id"`
	Content string `json:"content"`
	// Timestamp is milliseconds since epoch, set at creation
	Timestamp int64 `json:"timestamp"`
	Likes     int   `json:"likes"`
	// IsStreamer marks privileged authorship
	IsStreamer bool `json:"is_streamer"`
	// Replies is only populated on top-level messages, in insertion order
	Replies []Message `json:"replies,omitempty"`
}

// HotScore ranks a message for the "hot" sort: likes plus twice the
// reply count.
func (m Message) HotScore() int {
	return m.Likes + 2*len(m.Replies)
}

// TotalCount returns the number of messages in a forest, replies included.
func TotalCount(forest []Message) int {
	n := len(forest)
	for _, m := range forest {
		n += len(m.Replies)
	}
	return n
}
