// Package api registers the HTTP endpoints of the fan site core.
package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/XiChenQi2025/taoci-magic/pkg/answers"
	"github.com/XiChenQi2025/taoci-magic/pkg/board"
	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/router"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
	"github.com/XiChenQi2025/taoci-magic/pkg/telemetry"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
	"github.com/XiChenQi2025/taoci-magic/pkg/validation"
)

// API wires handlers to their dependencies. Every handler re-reads the board
// from the repository so responses always reflect the stored state.
type API struct {
	Cfg     *config.Config
	Board   *board.Repo
	Nav     *router.Router
	Book    *answers.Book
	Metrics *telemetry.Metrics
	Ready   func() bool
}

// Register mounts all endpoints on r.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.readyz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/messages", a.listMessages).Methods(http.MethodGet)
	v1.HandleFunc("/messages", a.postMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/stats", a.boardStats).Methods(http.MethodGet)
	v1.HandleFunc("/messages/{id}/like", a.likeMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id}/report", a.reportMessage).Methods(http.MethodPost)

	v1.HandleFunc("/identity", a.getIdentity).Methods(http.MethodGet)
	v1.HandleFunc("/identity", a.putIdentity).Methods(http.MethodPut)
	v1.HandleFunc("/identity/streamer", a.enableStreamer).Methods(http.MethodPost)

	v1.HandleFunc("/nav", a.getNav).Methods(http.MethodGet)
	v1.HandleFunc("/nav", a.navigate).Methods(http.MethodPost)
	v1.HandleFunc("/nav/location", a.setLocation).Methods(http.MethodPost)

	v1.HandleFunc("/answers/draw", a.drawAnswer).Methods(http.MethodPost)
	v1.HandleFunc("/answers/history", a.answerHistory).Methods(http.MethodGet)
	v1.HandleFunc("/answers/history", a.clearAnswerHistory).Methods(http.MethodDelete)

	v1.HandleFunc("/site", a.siteInfo).Methods(http.MethodGet)
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if a.Ready != nil && !a.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"starting"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// writeErr maps domain errors onto HTTP status codes.
func writeErr(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		utils.JSONError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, board.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "message not found")
	case errors.Is(err, store.ErrStorage):
		utils.JSONError(w, http.StatusInternalServerError, "storage failure")
	default:
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
