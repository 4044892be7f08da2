package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("default addr = %q", cfg.Addr())
	}
	if cfg.Storage.Backend != "pebble" || cfg.Storage.Namespace != "taoci_" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Board.MaxMessages != 100 || cfg.Board.ContentMaxLen != 200 || cfg.Board.NicknameMaxLen != 20 {
		t.Fatalf("unexpected board defaults: %+v", cfg.Board)
	}
	if len(cfg.Board.AvatarGlyphs) != 5 {
		t.Fatalf("avatar glyphs = %v", cfg.Board.AvatarGlyphs)
	}
	if len(cfg.AnswerBook.Answers) != 14 || len(cfg.AnswerBook.SpecialAnswers) != 4 {
		t.Fatalf("answer pools = %d/%d", len(cfg.AnswerBook.Answers), len(cfg.AnswerBook.SpecialAnswers))
	}
	if cfg.AnswerBook.SpecialChance != 0.05 {
		t.Fatalf("special chance = %v", cfg.AnswerBook.SpecialChance)
	}
	if len(cfg.Pages) != 5 || !cfg.PageEnabled("messages") {
		t.Fatalf("unexpected pages: %+v", cfg.Pages)
	}
	if cfg.Housekeeping.Cron != "0 4 * * *" {
		t.Fatalf("housekeeping cron = %q", cfg.Housekeeping.Cron)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: 127.0.0.1
  port: 9090
storage:
  backend: sqlite
  db_path: /tmp/taoci.db
  cache_size: 64MB
  flush_timeout: 2s
security:
  streamer_password: hunter2
  rate_limit:
    rps: 2.5
    burst: 4
board:
  max_messages: 10
  content_max_len: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.DBPath != "/tmp/taoci.db" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if uint64(cfg.Storage.CacheSize) != 64*1000*1000 {
		t.Fatalf("cache size = %d", cfg.Storage.CacheSize)
	}
	if cfg.Storage.FlushTimeout.Duration().Seconds() != 2 {
		t.Fatalf("flush timeout = %v", cfg.Storage.FlushTimeout)
	}
	if cfg.Security.StreamerPassword != "hunter2" {
		t.Fatalf("password override lost")
	}
	if cfg.Security.RateLimit.RPS != 2.5 || cfg.Security.RateLimit.Burst != 4 {
		t.Fatalf("rate limit = %+v", cfg.Security.RateLimit)
	}
	if cfg.Board.MaxMessages != 10 || cfg.Board.ContentMaxLen != 50 {
		t.Fatalf("board = %+v", cfg.Board)
	}
	// defaults still fill what the file left out
	if cfg.Board.NicknameMaxLen != 20 || len(cfg.AnswerBook.Answers) == 0 {
		t.Fatalf("defaults not applied to partial file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestParseConfigFileMissingFallsBackToDefaults(t *testing.T) {
	flags := Flags{Config: filepath.Join(t.TempDir(), "absent.yaml"), Set: map[string]bool{"config": true}}
	cfg, fromFile, err := ParseConfigFile(flags)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fromFile {
		t.Fatalf("missing file reported as present")
	}
	if cfg.Storage.Backend != "pebble" {
		t.Fatalf("defaults not returned: %+v", cfg.Storage)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TAOCI_ADDR", "10.0.0.1:7070")
	t.Setenv("TAOCI_DB_PATH", "/var/lib/taoci")
	t.Setenv("TAOCI_DB_BACKEND", " SQLite ")
	t.Setenv("TAOCI_CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TAOCI_RATE_RPS", "7.5")
	t.Setenv("TAOCI_RATE_BURST", "12")
	t.Setenv("TAOCI_STREAMER_PASSWORD", "s3cret")
	t.Setenv("TAOCI_LOG_LEVEL", "debug")

	cfg := Default()
	if !LoadEnvOverrides(cfg) {
		t.Fatalf("env overrides not detected")
	}
	if cfg.Server.Address != "10.0.0.1" || cfg.Server.Port != 7070 {
		t.Fatalf("addr override = %s:%d", cfg.Server.Address, cfg.Server.Port)
	}
	if cfg.Storage.DBPath != "/var/lib/taoci" || cfg.Storage.Backend != "sqlite" {
		t.Fatalf("storage override = %+v", cfg.Storage)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("cors origins = %v", cfg.Security.CORS.AllowedOrigins)
	}
	for i := range want {
		if cfg.Security.CORS.AllowedOrigins[i] != want[i] {
			t.Fatalf("cors origins = %v", cfg.Security.CORS.AllowedOrigins)
		}
	}
	if cfg.Security.RateLimit.RPS != 7.5 || cfg.Security.RateLimit.Burst != 12 {
		t.Fatalf("rate limit override = %+v", cfg.Security.RateLimit)
	}
	if cfg.Security.StreamerPassword != "s3cret" || cfg.Logging.Level != "debug" {
		t.Fatalf("password or log level override lost")
	}
}

func TestEnvSeparateHostPort(t *testing.T) {
	t.Setenv("TAOCI_ADDRESS", "192.168.1.5")
	t.Setenv("TAOCI_PORT", "3000")
	cfg := Default()
	if !LoadEnvOverrides(cfg) {
		t.Fatalf("env overrides not detected")
	}
	if cfg.Addr() != "192.168.1.5:3000" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
}

func TestLoadEffectivePrecedence(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
storage:
  db_path: /from/file
`)
	t.Setenv("TAOCI_DB_PATH", "/from/env")

	flags := Flags{
		Config: path,
		DB:     "/from/flag",
		Set:    map[string]bool{"config": true, "db": true},
	}
	eff, err := LoadEffective(flags)
	if err != nil {
		t.Fatalf("load effective: %v", err)
	}
	if eff.DBPath != "/from/flag" {
		t.Fatalf("flag should win, db path = %q", eff.DBPath)
	}
	if eff.Source != "flags" {
		t.Fatalf("source = %q", eff.Source)
	}
	if !eff.EnvUsed {
		t.Fatalf("env use not reported")
	}
	// file value survives where neither env nor flag touched it
	if eff.Config.Server.Port != 9000 {
		t.Fatalf("file port lost: %d", eff.Config.Server.Port)
	}
}

func TestLoadEffectiveEnvOverFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  db_path: /from/file
`)
	t.Setenv("TAOCI_DB_PATH", "/from/env")

	eff, err := LoadEffective(Flags{Config: path, Set: map[string]bool{"config": true}})
	if err != nil {
		t.Fatalf("load effective: %v", err)
	}
	if eff.DBPath != "/from/env" {
		t.Fatalf("env should beat file, db path = %q", eff.DBPath)
	}
	if eff.Source != "env" {
		t.Fatalf("source = %q", eff.Source)
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("./flag.yaml", true); got != "./flag.yaml" {
		t.Fatalf("set flag ignored: %q", got)
	}
	t.Setenv("TAOCI_CONFIG", "/env/config.yaml")
	if got := ResolveConfigPath("./default.yaml", false); got != "/env/config.yaml" {
		t.Fatalf("env path ignored: %q", got)
	}
}
