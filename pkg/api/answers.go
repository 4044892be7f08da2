package api

import (
	"net/http"

	"github.com/XiChenQi2025/taoci-magic/pkg/answers"
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
)

func (a *API) drawAnswer(w http.ResponseWriter, r *http.Request) {
	answer, special, err := a.Book.Draw()
	if err != nil {
		writeErr(w, err)
		return
	}
	if a.Metrics != nil {
		pool := "regular"
		if special {
			pool = "special"
		}
		a.Metrics.AnswersDrawn.WithLabelValues(pool).Inc()
	}
	logger.Info("answer_drawn", "special", special)
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Answer  string `json:"answer"`
		Special bool   `json:"special"`
	}{Answer: answer, Special: special})
}

func (a *API) answerHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := a.Book.History()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		History []answers.HistoryEntry `json:"history"`
	}{History: hist})
}

func (a *API) clearAnswerHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.Book.ClearHistory(); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
