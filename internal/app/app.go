// Package app wires the store, board, router and answer book together and
// owns the server lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"

	"github.com/XiChenQi2025/taoci-magic/internal/housekeeping"
	"github.com/XiChenQi2025/taoci-magic/pkg/answers"
	"github.com/XiChenQi2025/taoci-magic/pkg/board"
	"github.com/XiChenQi2025/taoci-magic/pkg/config"
	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
	"github.com/XiChenQi2025/taoci-magic/pkg/router"
	"github.com/XiChenQi2025/taoci-magic/pkg/store"
	"github.com/XiChenQi2025/taoci-magic/pkg/store/pebblekv"
	"github.com/XiChenQi2025/taoci-magic/pkg/store/sqlitekv"
	"github.com/XiChenQi2025/taoci-magic/pkg/telemetry"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       *config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	st      *store.Store
	board   *board.Repo
	nav     *router.Router
	book    *answers.Book
	metrics *telemetry.Metrics

	srv   *http.Server
	ready atomic.Bool
}

// New initializes every component that does not require a running context.
// It does not start the HTTP server or the housekeeping scheduler; call Run
// to start those and block until shutdown.
func New(eff *config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	cfg := eff.Config
	logger.Init(cfg.Logging.Level)

	kv, err := openKV(eff)
	if err != nil {
		return nil, err
	}
	st := store.New(kv, cfg.Storage.Namespace)

	repo := board.New(st, cfg.Board, cfg.Security.StreamerPassword)
	if err := repo.Migrate(version); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("data migration failed: %w", err)
	}

	nav := router.New(router.NewMemLocation(router.DefaultPage), st)
	for _, p := range cfg.Pages {
		if !p.Enabled {
			continue
		}
		page := p.Name
		nav.Register(page, func(data map[string]string) {
			logger.Debug("page_entered", "page", page, "params", len(data))
		})
	}
	nav.Restore()

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		st:        st,
		board:     repo,
		nav:       nav,
		book:      answers.New(cfg.AnswerBook, nil, st),
		metrics:   telemetry.New(),
	}
	return a, nil
}

func openKV(eff *config.EffectiveConfigResult) (store.KV, error) {
	switch eff.Backend {
	case "pebble", "":
		kv, err := pebblekv.Open(eff.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
		}
		return kv, nil
	case "sqlite":
		kv, err := sqlitekv.Open(eff.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", eff.DBPath, err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", eff.Backend)
	}
}

// Run starts the housekeeping scheduler and the HTTP server, and blocks
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	hkCancel, err := housekeeping.Start(ctx, a.eff.Config.Housekeeping, a.eff.Config.Board.MaxMessages, a.board)
	if err != nil {
		return err
	}
	defer hkCancel()

	errCh := a.startHTTP()
	a.ready.Store(true)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (a *App) shutdown() {
	a.ready.Store(false)
	if a.srv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	if err := a.st.Close(); err != nil {
		logger.Warn("store_close_error", "error", err)
	}
	logger.Info("shutdown_complete")
}
