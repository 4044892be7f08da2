package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/XiChenQi2025/taoci-magic/pkg/api"
	"github.com/XiChenQi2025/taoci-magic/pkg/banner"
	"github.com/XiChenQi2025/taoci-magic/pkg/middleware"
)

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "none" && a.commit != "" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "unknown" && a.buildDate != "" {
		verStr += " @ " + a.buildDate
	}
	banner.PrintWithEff(a.eff, verStr)
}

// setupHTTPHandlers sets up all HTTP handlers on the provided router.
func (a *App) setupHTTPHandlers(r *mux.Router) {
	h := &api.API{
		Cfg:     a.eff.Config,
		Board:   a.board,
		Nav:     a.nav,
		Book:    a.book,
		Metrics: a.metrics,
		Ready:   a.ready.Load,
	}
	h.Register(r)

	// Serve Swagger UI at /docs and the OpenAPI spec at /openapi.yaml
	r.PathPrefix("/docs/").Handler(httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	r.Handle("/openapi.yaml", http.FileServer(http.Dir("./docs")))
	r.Handle("/metrics", a.metrics.Handler())
}

// startHTTP builds the handler, starts the HTTP server in a goroutine and
// returns a channel that will contain any server error.
func (a *App) startHTTP() <-chan error {
	r := mux.NewRouter()
	a.setupHTTPHandlers(r)

	secCfg := middleware.SecConfig{
		AllowedOrigins: append([]string{}, a.eff.Config.Security.CORS.AllowedOrigins...),
		RPS:            a.eff.Config.Security.RateLimit.RPS,
		Burst:          a.eff.Config.Security.RateLimit.Burst,
	}

	// wrap router with gateway middleware, then metrics middleware
	wrapped := middleware.Gateway(secCfg)(r)
	wrapped = a.metrics.Middleware(wrapped)

	a.srv = &http.Server{Addr: a.eff.Addr, Handler: wrapped}

	errCh := make(chan error, 1)
	go func() {
		cert := a.eff.Config.Server.TLS.CertFile
		key := a.eff.Config.Server.TLS.KeyFile
		if cert != "" && key != "" {
			errCh <- a.srv.ListenAndServeTLS(cert, key)
		} else {
			errCh <- a.srv.ListenAndServe()
		}
	}()
	return errCh
}
