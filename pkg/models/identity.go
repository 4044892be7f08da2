package models

// Identity is the persisted per-browser user identity. It is created once
// with a random session id and mutated in place as the user edits their
// nickname or avatar.
type Identity struct {
	Avatar    string `json:"avatar"`
	Nickname  string `json:"nickname"`
	SessionID string `json:"session_id"`
	// IsStreamer is set only after a successful streamer password check
	IsStreamer bool `json:"is_streamer"`
}
