package app

import (
	"fmt"
	"os"

	"github.com/XiChenQi2025/taoci-magic/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before starting long-running services. Keep checks light
// and focused so callers can surface user-friendly errors.
func validateConfig(eff *config.EffectiveConfigResult) error {
	// DB path must be present
	if eff.DBPath == "" {
		return fmt.Errorf("database path is empty: set --db flag, TAOCI_DB_PATH env, or storage.db_path in config")
	}

	switch eff.Backend {
	case "", "pebble", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q: use pebble or sqlite", eff.Backend)
	}

	// TLS cert/key presence check if one is set
	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert != "" && key == "") || (cert == "" && key != "") {
		return fmt.Errorf("incomplete TLS configuration: both server.tls.cert_file and server.tls.key_file must be set")
	}
	if cert != "" {
		if _, err := os.Stat(cert); err != nil {
			return fmt.Errorf("tls cert file not accessible: %w", err)
		}
		if _, err := os.Stat(key); err != nil {
			return fmt.Errorf("tls key file not accessible: %w", err)
		}
	}

	if eff.Config.Board.ContentMaxLen < eff.Config.Board.ContentMinLen {
		return fmt.Errorf("board.content_max_len must be >= board.content_min_len")
	}

	return nil
}
