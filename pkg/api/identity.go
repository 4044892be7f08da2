package api

import (
	"encoding/json"
	"net/http"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/models"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
)

func (a *API) getIdentity(w http.ResponseWriter, r *http.Request) {
	id, err := a.Board.Identity()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, id)
}

func (a *API) putIdentity(w http.ResponseWriter, r *http.Request) {
	var in models.Identity
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := a.Board.SaveIdentity(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("identity_saved", "session_id", id.SessionID)
	_ = utils.JSONWrite(w, http.StatusOK, id)
}

func (a *API) enableStreamer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !a.Board.VerifyStreamer(in.Password) {
		logger.Warn("streamer_verify_failed", "remote", r.RemoteAddr)
		utils.JSONError(w, http.StatusUnauthorized, "wrong password")
		return
	}
	id, err := a.Board.EnableStreamer(in.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, id)
}
