package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
)

func (a *API) getNav(w http.ResponseWriter, r *http.Request) {
	routes := a.Nav.Routes()
	sort.Strings(routes)
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Current string            `json:"current"`
		Routes  []string          `json:"routes"`
		Params  map[string]string `json:"params"`
	}{Current: a.Nav.Current(), Routes: routes, Params: a.Nav.QueryParams()})
}

func (a *API) navigate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Page string            `json:"page"`
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	before := a.Nav.Current()
	a.Nav.Navigate(in.Page, in.Data)
	if a.Metrics != nil && a.Nav.Current() != before {
		a.Metrics.NavChanges.Inc()
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Current string `json:"current"`
	}{Current: a.Nav.Current()})
}

// setLocation mutates the external location and lets the router converge,
// the way a hash change in a browser address bar would.
func (a *API) setLocation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Fragment string `json:"fragment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if loc := a.Nav.Loc(); loc != nil {
		loc.SetFragment(in.Fragment)
	}
	before := a.Nav.Current()
	a.Nav.HandleLocationChange()
	if a.Metrics != nil && a.Nav.Current() != before {
		a.Metrics.NavChanges.Inc()
	}
	logger.Debug("location_changed", "fragment", in.Fragment, "page", a.Nav.Current())
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Current string            `json:"current"`
		Params  map[string]string `json:"params"`
	}{Current: a.Nav.Current(), Params: a.Nav.QueryParams()})
}
