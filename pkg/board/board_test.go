package board

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/models"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
	"github.com/XiChenQi2025/taoci-magic/pkg/store/sqlitekv"
	"github.com/XiChenQi2025/taoci-magic/pkg/validation"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()
	kv, err := sqlitekv.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	st := store.New(kv, "taoci_")

	cfg := config.Default()
	r := New(st, cfg.Board, "taoci2024")
	seq := 0
	r.newID = func() string {
		seq++
		return fmt.Sprintf("msg_t%03d", seq)
	}
	base := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return r
}

func TestListAllSeedsOnFirstRun(t *testing.T) {
	r := testRepo(t)
	msgs, err := r.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 seed threads, got %d", len(msgs))
	}
	if msgs[0].ID != "msg_001" || !msgs[0].IsStreamer {
		t.Fatalf("unexpected first seed thread: %+v", msgs[0])
	}
	if len(msgs[0].Replies) != 2 || len(msgs[1].Replies) != 1 || len(msgs[2].Replies) != 0 {
		t.Fatalf("unexpected seed reply counts")
	}

	// second call must not re-seed
	again, err := r.ListAll()
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if len(again) != 3 {
		t.Fatalf("board re-seeded, got %d threads", len(again))
	}
}

func TestPostTopLevelAndReply(t *testing.T) {
	r := testRepo(t)

	msg, err := r.Post(PostInput{Avatar: "✨", Nickname: "星光粉丝", UserID: "#STAR", Content: "新歌好听！"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if msg.ID == "" || msg.Likes != 0 || msg.ParentID != "" {
		t.Fatalf("unexpected new message: %+v", msg)
	}

	rep, err := r.Post(PostInput{ParentID: msg.ID, Avatar: "🌙", Nickname: "夜猫子", UserID: "#MOON", Content: "同感！"})
	if err != nil {
		t.Fatalf("post reply: %v", err)
	}
	if rep.ParentID != msg.ID {
		t.Fatalf("reply parent mismatch: %q", rep.ParentID)
	}

	msgs, err := r.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	parent := findByID(msgs, msg.ID)
	if parent == nil {
		t.Fatalf("posted thread missing from board")
	}
	if len(parent.Replies) != 1 || parent.Replies[0].ID != rep.ID {
		t.Fatalf("reply not nested under parent: %+v", parent.Replies)
	}
}

func TestPostRejectsMissingFields(t *testing.T) {
	r := testRepo(t)
	_, err := r.Post(PostInput{Avatar: "✨", Nickname: "  ", Content: "hi"})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "nickname" {
		t.Fatalf("wrong field flagged: %s", verr.Field)
	}
}

func TestOrphanReplyBecomesTopLevel(t *testing.T) {
	r := testRepo(t)
	before, _ := r.ListAll()

	msg, err := r.Post(PostInput{ParentID: "msg_gone", Avatar: "🎀", Nickname: "小桃子", Content: "回复不存在的楼"})
	if err != nil {
		t.Fatalf("post orphan reply: %v", err)
	}

	after, _ := r.ListAll()
	if len(after) != len(before)+1 {
		t.Fatalf("orphan reply not kept: before=%d after=%d", len(before), len(after))
	}
	if findByID(after, msg.ID) == nil {
		t.Fatalf("orphan reply missing from top level")
	}
}

func TestLikeIncrementsAndPersists(t *testing.T) {
	r := testRepo(t)
	if _, err := r.ListAll(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	likes, err := r.Like("msg_003")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if likes != 32 {
		t.Fatalf("expected 32 likes, got %d", likes)
	}
	likes, err = r.Like("msg_003")
	if err != nil {
		t.Fatalf("like twice: %v", err)
	}
	if likes != 33 {
		t.Fatalf("like did not accumulate: %d", likes)
	}

	// replies can be liked too
	likes, err = r.Like("msg_101")
	if err != nil {
		t.Fatalf("like reply: %v", err)
	}
	if likes != 16 {
		t.Fatalf("expected 16 reply likes, got %d", likes)
	}
}

func TestLikeUnknownMessage(t *testing.T) {
	r := testRepo(t)
	if _, err := r.Like("msg_nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportIsIdempotent(t *testing.T) {
	r := testRepo(t)

	accepted, err := r.Report("msg_001")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !accepted {
		t.Fatalf("first report not accepted")
	}
	accepted, err = r.Report("msg_001")
	if err != nil {
		t.Fatalf("report again: %v", err)
	}
	if accepted {
		t.Fatalf("duplicate report accepted")
	}

	reports, err := r.Reports()
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports) != 1 || reports[0] != "msg_001" {
		t.Fatalf("unexpected report list: %v", reports)
	}
}

func TestListSortedLatest(t *testing.T) {
	r := testRepo(t)
	msgs, err := r.ListSorted(SortLatest)
	if err != nil {
		t.Fatalf("list sorted: %v", err)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].Timestamp < msgs[i].Timestamp {
			t.Fatalf("latest order violated at %d", i)
		}
	}
	if msgs[0].ID != "msg_003" {
		t.Fatalf("newest seed thread should lead, got %s", msgs[0].ID)
	}
}

func TestListSortedHotIsStable(t *testing.T) {
	r := testRepo(t)
	// seed scores: msg_001 = 42+2*2 = 46, msg_002 = 19+1*2 = 21, msg_003 = 31+0 = 31
	msgs, err := r.ListSorted(SortHot)
	if err != nil {
		t.Fatalf("list hot: %v", err)
	}
	got := []string{msgs[0].ID, msgs[1].ID, msgs[2].ID}
	want := []string{"msg_001", "msg_003", "msg_002"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hot order mismatch: got %v want %v", got, want)
		}
	}

	// equal scores keep stored order
	a, _ := r.Post(PostInput{Avatar: "✨", Nickname: "a", Content: "tie one"})
	b, _ := r.Post(PostInput{Avatar: "✨", Nickname: "b", Content: "tie two"})
	msgs, _ = r.ListSorted(SortHot)
	ai, bi := -1, -1
	for i, m := range msgs {
		if m.ID == a.ID {
			ai = i
		}
		if m.ID == b.ID {
			bi = i
		}
	}
	if ai == -1 || bi == -1 || ai > bi {
		t.Fatalf("tie broke stored order: a=%d b=%d", ai, bi)
	}
}

func TestStats(t *testing.T) {
	r := testRepo(t)
	if _, err := r.Report("msg_001"); err != nil {
		t.Fatalf("report: %v", err)
	}
	s, err := r.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.Threads != 3 || s.Messages != 6 || s.Reported != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	// 42+15+28+19+36+31
	if s.Likes != 171 {
		t.Fatalf("unexpected like total: %d", s.Likes)
	}
}

func TestIdentityLifecycle(t *testing.T) {
	r := testRepo(t)

	id, err := r.Identity()
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if id.SessionID == "" || id.Avatar != "✨" || id.IsStreamer {
		t.Fatalf("unexpected fresh identity: %+v", id)
	}

	again, err := r.Identity()
	if err != nil {
		t.Fatalf("identity again: %v", err)
	}
	if again.SessionID != id.SessionID {
		t.Fatalf("identity not stable across calls")
	}

	saved, err := r.SaveIdentity(id)
	if err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if saved.SessionID != id.SessionID {
		t.Fatalf("session id changed on save")
	}
}

func TestSaveIdentityValidation(t *testing.T) {
	r := testRepo(t)
	id, _ := r.Identity()

	id.Nickname = "这个昵称实在是太长太长太长太长太长太长了啊"
	if _, err := r.SaveIdentity(id); err == nil {
		t.Fatalf("overlong nickname accepted")
	}

	id.Nickname = "小桃子"
	id.Avatar = "🦊"
	if _, err := r.SaveIdentity(id); err == nil {
		t.Fatalf("unknown avatar glyph accepted")
	}

	id.Avatar = "🎀"
	id.IsStreamer = true
	saved, err := r.SaveIdentity(id)
	if err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if saved.IsStreamer {
		t.Fatalf("streamer flag settable through SaveIdentity")
	}
}

func TestStreamerMode(t *testing.T) {
	r := testRepo(t)

	if r.VerifyStreamer("wrong") {
		t.Fatalf("wrong password verified")
	}
	if _, err := r.EnableStreamer("wrong"); err == nil {
		t.Fatalf("streamer mode enabled with wrong password")
	}

	id, err := r.EnableStreamer("taoci2024")
	if err != nil {
		t.Fatalf("enable streamer: %v", err)
	}
	if !id.IsStreamer || id.Nickname != "桃汽水" || id.SessionID != "#TAO1" {
		t.Fatalf("unexpected streamer identity: %+v", id)
	}

	cur, _ := r.Identity()
	if !cur.IsStreamer {
		t.Fatalf("streamer identity not persisted")
	}
}

func TestTrimKeepsNewest(t *testing.T) {
	r := testRepo(t)
	if _, err := r.ListAll(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dropped, err := r.Trim(2, true)
	if err != nil {
		t.Fatalf("trim dry run: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dry run expected 1 drop, got %d", dropped)
	}
	if msgs, _ := r.ListAll(); len(msgs) != 3 {
		t.Fatalf("dry run mutated the board")
	}

	dropped, err = r.Trim(2, false)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("expected 1 drop, got %d", dropped)
	}
	msgs, _ := r.ListAll()
	if len(msgs) != 2 {
		t.Fatalf("trim kept %d threads", len(msgs))
	}
	// msg_001 is the oldest seed thread and must be gone
	if findByID(msgs, "msg_001") != nil {
		t.Fatalf("oldest thread survived trim")
	}
}

func TestCorruptBoardReseeds(t *testing.T) {
	r := testRepo(t)
	if _, err := r.ListAll(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := r.store.SetRaw(boardKey, []byte("][ nonsense")); err != nil {
		t.Fatalf("plant corruption: %v", err)
	}
	msgs, err := r.ListAll()
	if err != nil {
		t.Fatalf("list after corruption: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("corrupted board not re-seeded: %d threads", len(msgs))
	}
}

func TestMigrateNormalizesShape(t *testing.T) {
	r := testRepo(t)
	damaged := []models.Message{
		{
			ID: "msg_a", Nickname: "a", Content: "thread", Timestamp: 100,
			Replies: []models.Message{
				{
					ID: "msg_a1", ParentID: "msg_wrong", Nickname: "b", Content: "reply", Timestamp: 200,
					Replies: []models.Message{
						{ID: "msg_a2", ParentID: "msg_a1", Nickname: "c", Content: "nested", Timestamp: 300},
					},
				},
			},
		},
		{ID: "msg_b", Nickname: "d", Content: "bare", Timestamp: 400},
	}
	if err := r.store.Save(boardKey, damaged); err != nil {
		t.Fatalf("plant board: %v", err)
	}

	if err := r.Migrate("1.0.0"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	msgs, err := r.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	a := findByID(msgs, "msg_a")
	if a == nil || len(a.Replies) != 2 {
		t.Fatalf("nested reply not flattened: %+v", a)
	}
	for _, rep := range a.Replies {
		if rep.ParentID != "msg_a" {
			t.Fatalf("parent id not repaired: %+v", rep)
		}
		if len(rep.Replies) != 0 {
			t.Fatalf("reply still carries nested replies")
		}
	}
	b := findByID(msgs, "msg_b")
	if b == nil || len(b.Replies) != 0 {
		t.Fatalf("bare thread grew replies: %+v", b)
	}

	// version recorded, second run is a no-op
	if err := r.Migrate("1.0.0"); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
}

func findByID(msgs []models.Message, id string) *models.Message {
	for i := range msgs {
		if msgs[i].ID == id {
			return &msgs[i]
		}
	}
	return nil
}
