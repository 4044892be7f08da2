package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/XiChenQi2025/taoci-magic/pkg/board"
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/models"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
	"github.com/XiChenQi2025/taoci-magic/pkg/validation"
)

func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = board.SortLatest
	}
	msgs, err := a.Board.ListSorted(sortBy)
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("messages_list", "sort", sortBy, "count", len(msgs))
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Sort     string           `json:"sort"`
		Total    int              `json:"total"`
		Messages []models.Message `json:"messages"`
	}{Sort: sortBy, Total: models.TotalCount(msgs), Messages: msgs})
}

func (a *API) postMessage(w http.ResponseWriter, r *http.Request) {
	var in board.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rules := validation.Rules{
		NicknameMaxLen: a.Cfg.Board.NicknameMaxLen,
		ContentMinLen:  a.Cfg.Board.ContentMinLen,
		ContentMaxLen:  a.Cfg.Board.ContentMaxLen,
		AvatarGlyphs:   a.Cfg.Board.AvatarGlyphs,
	}
	if err := rules.ValidatePost(in.Avatar, in.Nickname, in.Content); err != nil {
		writeErr(w, err)
		return
	}
	// the streamer badge is earned through the identity endpoint, not claimed
	in.IsStreamer = false
	if id, err := a.Board.Identity(); err == nil && id.SessionID == in.UserID {
		in.IsStreamer = id.IsStreamer
	}
	msg, err := a.Board.Post(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	if a.Metrics != nil {
		a.Metrics.MessagesPosted.Inc()
	}
	logger.Info("message_created", "id", msg.ID, "parent_id", msg.ParentID)
	_ = utils.JSONWrite(w, http.StatusCreated, msg)
}

func (a *API) likeMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	likes, err := a.Board.Like(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if a.Metrics != nil {
		a.Metrics.LikesGiven.Inc()
	}
	logger.Info("message_liked", "id", id, "likes", likes)
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		ID    string `json:"id"`
		Likes int    `json:"likes"`
	}{ID: id, Likes: likes})
}

func (a *API) reportMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	accepted, err := a.Board.Report(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if accepted && a.Metrics != nil {
		a.Metrics.ReportsFiled.Inc()
	}
	logger.Info("message_reported", "id", id, "accepted", accepted)
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		ID       string `json:"id"`
		Accepted bool   `json:"accepted"`
	}{ID: id, Accepted: accepted})
}

func (a *API) boardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Board.Stats()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, stats)
}
