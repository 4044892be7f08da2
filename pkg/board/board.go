// Package board implements the message board repository: threaded fan
// messages with likes and reports, persisted through the key-value store.
package board

import (
	"crypto/subtle"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/models"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
	"github.com/XiChenQi2025/taoci-magic/pkg/validation"
)

const (
	boardKey    = "message_board"
	identityKey = "current_user"
	reportsKey  = "message_reports"
)

// ErrNotFound is returned when the referenced message does not exist.
var ErrNotFound = errors.New("message not found")

// Sort orders accepted by ListSorted.
const (
	SortLatest = "latest"
	SortHot    = "hot"
)

// Repo is the message board repository. All operations load from the store,
// mutate in memory and persist the full board back, so a failed write never
// leaves a partially updated board behind.
type Repo struct {
	store            *store.Store
	cfg              config.BoardConfig
	streamerPassword string

	now   func() time.Time
	newID func() string
}

// New constructs a Repo over st.
func New(st *store.Store, cfg config.BoardConfig, streamerPassword string) *Repo {
	return &Repo{
		store:            st,
		cfg:              cfg,
		streamerPassword: streamerPassword,
		now:              time.Now,
		newID:            utils.GenMessageID,
	}
}

// PostInput carries the caller-supplied fields of a new message.
type PostInput struct {
	ParentID   string `json:"parent_id"`
	Avatar     string `json:"avatar"`
	Nickname   string `json:"nickname"`
	UserID     string `json:"user_id"`
	Content    string `json:"content"`
	IsStreamer bool   `json:"is_streamer"`
}

// ListAll returns every top-level message with its replies. A missing or
// unreadable board is replaced by the seed dataset on the spot.
func (r *Repo) ListAll() ([]models.Message, error) {
	var msgs []models.Message
	found, err := r.store.Load(boardKey, &msgs)
	if err != nil {
		return nil, err
	}
	if !found {
		msgs = Seed(r.now())
		if err := r.store.Save(boardKey, msgs); err != nil {
			logger.Warn("board_seed_save_failed", "error", err)
		} else {
			logger.Info("board_seeded", "messages", len(msgs))
		}
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// ListSorted returns the board ordered by the given sort key. SortLatest
// orders by timestamp descending, SortHot by hot score descending. Ties keep
// their stored order. An unknown sort key returns the stored order.
func (r *Repo) ListSorted(sortBy string) ([]models.Message, error) {
	msgs, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	switch sortBy {
	case SortLatest:
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].Timestamp > msgs[j].Timestamp
		})
	case SortHot:
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].HotScore() > msgs[j].HotScore()
		})
	}
	return msgs, nil
}

// Post validates and appends a new message. A reply whose parent exists is
// nested under it; a reply to a missing parent is kept as a top-level
// message rather than dropped.
func (r *Repo) Post(in PostInput) (models.Message, error) {
	if err := validation.ValidateRequired(in.Avatar, in.Nickname, in.Content); err != nil {
		return models.Message{}, err
	}

	msgs, err := r.ListAll()
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:         r.newID(),
		ParentID:   in.ParentID,
		Avatar:     in.Avatar,
		Nickname:   strings.TrimSpace(in.Nickname),
		UserID:     in.UserID,
		Content:    strings.TrimSpace(in.Content),
		Timestamp:  r.now().UnixMilli(),
		Likes:      0,
		IsStreamer: in.IsStreamer,
		Replies:    []models.Message{},
	}

	if in.ParentID != "" {
		idx := indexOf(msgs, in.ParentID)
		if idx >= 0 {
			msgs[idx].Replies = append(msgs[idx].Replies, msg)
		} else {
			logger.Warn("board_orphan_reply_promoted", "parent_id", in.ParentID, "id", msg.ID)
			msgs = append(msgs, msg)
		}
	} else {
		msgs = append(msgs, msg)
	}

	if err := r.store.Save(boardKey, msgs); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// Like increments the like counter of a top-level message or reply and
// returns the new count.
func (r *Repo) Like(id string) (int, error) {
	msgs, err := r.ListAll()
	if err != nil {
		return 0, err
	}
	likes := -1
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Likes++
			likes = msgs[i].Likes
			break
		}
		for j := range msgs[i].Replies {
			if msgs[i].Replies[j].ID == id {
				msgs[i].Replies[j].Likes++
				likes = msgs[i].Replies[j].Likes
				break
			}
		}
		if likes >= 0 {
			break
		}
	}
	if likes < 0 {
		return 0, ErrNotFound
	}
	if err := r.store.Save(boardKey, msgs); err != nil {
		return 0, err
	}
	return likes, nil
}

// Report flags a message id for moderation. Reporting the same id twice is
// a no-op; the second call reports accepted=false. The target message is not
// required to exist.
func (r *Repo) Report(id string) (bool, error) {
	var reports []string
	if _, err := r.store.Load(reportsKey, &reports); err != nil {
		return false, err
	}
	for _, rep := range reports {
		if rep == id {
			return false, nil
		}
	}
	reports = append(reports, id)
	if err := r.store.Save(reportsKey, reports); err != nil {
		return false, err
	}
	return true, nil
}

// Reports returns all reported message ids.
func (r *Repo) Reports() ([]string, error) {
	var reports []string
	if _, err := r.store.Load(reportsKey, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []string{}
	}
	return reports, nil
}

// Stats summarizes the board.
type Stats struct {
	Threads  int `json:"threads"`
	Messages int `json:"messages"`
	Likes    int `json:"likes"`
	Reported int `json:"reported"`
}

// Stats counts threads, messages (replies included), likes and reports.
func (r *Repo) Stats() (Stats, error) {
	msgs, err := r.ListAll()
	if err != nil {
		return Stats{}, err
	}
	reports, err := r.Reports()
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Threads: len(msgs), Messages: models.TotalCount(msgs), Reported: len(reports)}
	for _, m := range msgs {
		s.Likes += m.Likes
		for _, rep := range m.Replies {
			s.Likes += rep.Likes
		}
	}
	return s, nil
}

// Identity returns the stored visitor identity, creating and persisting a
// fresh anonymous one when none exists.
func (r *Repo) Identity() (models.Identity, error) {
	var id models.Identity
	found, err := r.store.Load(identityKey, &id)
	if err != nil {
		return models.Identity{}, err
	}
	if !found || id.SessionID == "" {
		id = models.Identity{
			Avatar:     "✨",
			Nickname:   "",
			SessionID:  utils.GenSessionID(),
			IsStreamer: false,
		}
		if err := r.store.Save(identityKey, id); err != nil {
			return models.Identity{}, err
		}
		logger.Info("identity_created", "session_id", id.SessionID)
	}
	return id, nil
}

// SaveIdentity validates and persists the visitor identity. The streamer
// flag is never settable through this path.
func (r *Repo) SaveIdentity(id models.Identity) (models.Identity, error) {
	cur, err := r.Identity()
	if err != nil {
		return models.Identity{}, err
	}
	id.Nickname = strings.TrimSpace(id.Nickname)
	if n := len([]rune(id.Nickname)); n > r.cfg.NicknameMaxLen {
		return models.Identity{}, &validation.Error{Field: "nickname", Reason: "too long"}
	}
	if id.Avatar != "" && !contains(r.cfg.AvatarGlyphs, id.Avatar) {
		return models.Identity{}, &validation.Error{Field: "avatar", Reason: "unknown glyph"}
	}
	if id.Avatar == "" {
		id.Avatar = cur.Avatar
	}
	id.SessionID = cur.SessionID
	id.IsStreamer = cur.IsStreamer
	if err := r.store.Save(identityKey, id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

// VerifyStreamer reports whether the given password matches the configured
// streamer password.
func (r *Repo) VerifyStreamer(password string) bool {
	if r.streamerPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(r.streamerPassword)) == 1
}

// EnableStreamer upgrades the stored identity to the streamer persona when
// the password matches.
func (r *Repo) EnableStreamer(password string) (models.Identity, error) {
	if !r.VerifyStreamer(password) {
		return models.Identity{}, &validation.Error{Field: "password", Reason: "wrong password"}
	}
	id := models.Identity{
		Avatar:     "🍑",
		Nickname:   "桃汽水",
		SessionID:  "#TAO1",
		IsStreamer: true,
	}
	if err := r.store.Save(identityKey, id); err != nil {
		return models.Identity{}, err
	}
	logger.Info("streamer_mode_enabled", "session_id", id.SessionID)
	return id, nil
}

// Trim drops the oldest top-level messages beyond max and returns how many
// were removed. Replies go with their thread. A max of zero or less means
// no limit.
func (r *Repo) Trim(max int, dryRun bool) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	msgs, err := r.ListAll()
	if err != nil {
		return 0, err
	}
	if len(msgs) <= max {
		return 0, nil
	}
	ordered := make([]models.Message, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp > ordered[j].Timestamp
	})
	drop := len(ordered) - max
	if dryRun {
		return drop, nil
	}
	keep := make(map[string]struct{}, max)
	for _, m := range ordered[:max] {
		keep[m.ID] = struct{}{}
	}
	kept := msgs[:0]
	for _, m := range msgs {
		if _, ok := keep[m.ID]; ok {
			kept = append(kept, m)
		}
	}
	if err := r.store.Save(boardKey, kept); err != nil {
		return 0, err
	}
	return drop, nil
}

func indexOf(msgs []models.Message, id string) int {
	for i := range msgs {
		if msgs[i].ID == id {
			return i
		}
	}
	return -1
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
