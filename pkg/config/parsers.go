package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr    string
	DB      string
	Backend string
	Config  string
	Set     map[string]bool
}

// EffectiveConfigResult is the merged outcome of config file, environment
// overrides and command-line flags.
type EffectiveConfigResult struct {
	Config  *Config
	Addr    string
	DBPath  string
	Backend string
	EnvUsed bool
	Source  string // "flags", "config", or "env"
}

// ParseConfigFlags parses command-line flags and returns them as a Flags struct.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "database path")
	backendPtr := flag.String("backend", "pebble", "storage backend (pebble|sqlite)")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Backend: *backendPtr, Config: *cfgPtr, Set: setFlags}
}

// ParseConfigFile resolves the config path and loads the YAML file. It
// returns the parsed config, a boolean indicating whether the file was
// present, and an error for fatal parsing problems.
func ParseConfigFile(flags Flags) (*Config, bool, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	if err != nil {
		if strings.Contains(err.Error(), "config file not found") {
			return Default(), false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// LoadEnvOverrides applies TAOCI_* environment overrides onto the provided
// cfg and reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("TAOCI_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("TAOCI_ADDRESS"); host != "" {
			envUsed = true
			cfg.Server.Address = host
		}
		if port := os.Getenv("TAOCI_PORT"); port != "" {
			envUsed = true
			if pi, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = pi
			}
		}
	}

	if v := os.Getenv("TAOCI_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TAOCI_DB_BACKEND"); v != "" {
		envUsed = true
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("TAOCI_NAMESPACE"); v != "" {
		envUsed = true
		cfg.Storage.Namespace = v
	}
	if v := os.Getenv("TAOCI_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("TAOCI_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("TAOCI_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("TAOCI_STREAMER_PASSWORD"); v != "" {
		envUsed = true
		cfg.Security.StreamerPassword = v
	}
	if v := os.Getenv("TAOCI_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if c := os.Getenv("TAOCI_TLS_CERT"); c != "" {
		envUsed = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("TAOCI_TLS_KEY"); k != "" {
		envUsed = true
		cfg.Server.TLS.KeyFile = k
	}
	return envUsed
}

// LoadEffective merges config file, environment overrides and flags into one
// effective configuration. Flags win over env, env wins over file.
func LoadEffective(flags Flags) (*EffectiveConfigResult, error) {
	cfg, fromFile, err := ParseConfigFile(flags)
	if err != nil {
		return nil, err
	}
	envUsed := LoadEnvOverrides(cfg)

	source := "config"
	if !fromFile {
		source = "defaults"
	}
	if envUsed {
		source = "env"
	}
	if flags.Set["addr"] {
		source = "flags"
		if h, p, err := net.SplitHostPort(flags.Addr); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		}
	}
	if flags.Set["db"] {
		source = "flags"
		cfg.Storage.DBPath = flags.DB
	}
	if flags.Set["backend"] {
		source = "flags"
		cfg.Storage.Backend = flags.Backend
	}

	return &EffectiveConfigResult{
		Config:  cfg,
		Addr:    cfg.Addr(),
		DBPath:  cfg.Storage.DBPath,
		Backend: cfg.Storage.Backend,
		EnvUsed: envUsed,
		Source:  source,
	}, nil
}

// ResolveConfigPath decides the config file path using the flag-provided value
// and the environment variable `TAOCI_CONFIG` when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("TAOCI_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
