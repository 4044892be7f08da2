package api

import (
	"net/http"
	"time"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/utils"
)

// siteInfo returns the static site descriptor plus the live countdown.
func (a *API) siteInfo(w http.ResponseWriter, r *http.Request) {
	var countdown utils.Countdown
	if target, err := time.ParseInLocation("2006-01-02T15:04:05", a.Cfg.Schedule.LiveStart, time.Local); err == nil {
		countdown = utils.CountdownTo(time.Now(), target)
	} else {
		countdown = utils.Countdown{Expired: true}
	}

	pages := make([]config.PageConfig, 0, len(a.Cfg.Pages))
	for _, p := range a.Cfg.Pages {
		if p.Enabled {
			pages = append(pages, p)
		}
	}

	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Site      config.SiteConfig     `json:"site"`
		Schedule  config.ScheduleConfig `json:"schedule"`
		Countdown utils.Countdown       `json:"countdown"`
		Pages     []config.PageConfig   `json:"pages"`
	}{Site: a.Cfg.Site, Schedule: a.Cfg.Schedule, Countdown: countdown, Pages: pages})
}
