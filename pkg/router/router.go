// Package router holds the site navigation state machine. Pages register a
// handler; navigation persists the current location so a restart resumes on
// the same page.
package router

import (
	"net/url"
	"strings"
	"sync"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
)

// DefaultPage is the fallback destination for unknown or empty locations.
const DefaultPage = "home"

const locationKey = "location"

// Handler runs when navigation lands on its page. The data map carries
// caller-supplied context and is never nil.
type Handler func(data map[string]string)

// Location is the externally owned address the router converges on. The
// fragment format is "page" or "page?k=v&k2=v2".
type Location interface {
	Fragment() string
	SetFragment(frag string)
}

// Router dispatches page changes. Safe for concurrent use.
type Router struct {
	mu      sync.Mutex
	routes  map[string]Handler
	current string
	loc     Location
	store   *store.Store
}

// New builds a Router over loc. When st is non-nil the current page is
// persisted under the store and restored by Restore.
func New(loc Location, st *store.Store) *Router {
	return &Router{
		routes:  make(map[string]Handler),
		current: DefaultPage,
		loc:     loc,
		store:   st,
	}
}

// Register binds a page id to its handler. Registering the same id again
// replaces the handler.
func (r *Router) Register(pageID string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[pageID] = h
	logger.Info("route_registered", "page", pageID)
}

// Routes returns the registered page ids.
func (r *Router) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.routes))
	for id := range r.routes {
		out = append(out, id)
	}
	return out
}

// Navigate moves to pageID and runs its handler. Navigating to the current
// page is a no-op. An unregistered page falls back to DefaultPage.
func (r *Router) Navigate(pageID string, data map[string]string) {
	r.mu.Lock()
	if _, ok := r.routes[pageID]; !ok {
		pageID = DefaultPage
	}
	if pageID == r.current {
		r.mu.Unlock()
		return
	}
	logger.Info("navigate", "from", r.current, "to", pageID)
	r.current = pageID
	if r.loc != nil && pageName(r.loc.Fragment()) != pageID {
		r.loc.SetFragment(pageID)
	}
	h := r.routes[pageID]
	st := r.store
	r.mu.Unlock()

	if st != nil {
		if err := st.Save(locationKey, pageID); err != nil {
			logger.Warn("location_save_failed", "error", err)
		}
	}
	if h != nil {
		if data == nil {
			data = map[string]string{}
		}
		h(data)
	}
}

// HandleLocationChange converges the router on the externally mutated
// location, falling back to DefaultPage for unknown pages.
func (r *Router) HandleLocationChange() {
	frag := ""
	if r.loc != nil {
		frag = r.loc.Fragment()
	}
	r.Navigate(pageName(frag), nil)
}

// Loc returns the location the router converges on.
func (r *Router) Loc() Location {
	return r.loc
}

// Current returns the active page id.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Restore re-enters the page persisted by a previous run, if any.
func (r *Router) Restore() {
	if r.store == nil {
		return
	}
	var page string
	found, err := r.store.Load(locationKey, &page)
	if err != nil || !found || page == "" {
		return
	}
	r.Navigate(page, nil)
}

// QueryParams decodes the query portion of the current location fragment.
// Pairs without '=' or with undecodable values are dropped; params never
// returns nil.
func (r *Router) QueryParams() map[string]string {
	params := map[string]string{}
	if r.loc == nil {
		return params
	}
	frag := r.loc.Fragment()
	_, qs, ok := strings.Cut(frag, "?")
	if !ok || qs == "" {
		return params
	}
	for _, pair := range strings.Split(qs, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		dv, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		params[k] = dv
	}
	return params
}

func pageName(frag string) string {
	frag = strings.TrimPrefix(frag, "#")
	page, _, _ := strings.Cut(frag, "?")
	if page == "" {
		return DefaultPage
	}
	return page
}
