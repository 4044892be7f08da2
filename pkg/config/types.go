package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
	Security     SecurityConfig     `yaml:"security"`
	Logging      LoggingConfig      `yaml:"logging"`
	Site         SiteConfig         `yaml:"site"`
	Schedule     ScheduleConfig     `yaml:"schedule"`
	Pages        []PageConfig       `yaml:"pages"`
	Board        BoardConfig        `yaml:"board"`
	AnswerBook   AnswerBookConfig   `yaml:"answer_book"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// StorageConfig selects the key-value backend and its location.
type StorageConfig struct {
	Backend      string    `yaml:"backend"` // pebble | sqlite
	DBPath       string    `yaml:"db_path"`
	Namespace    string    `yaml:"namespace"`
	CacheSize    SizeBytes `yaml:"cache_size"`
	FlushTimeout Duration  `yaml:"flush_timeout"`
}

// SecurityConfig holds security related settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	StreamerPassword string `yaml:"streamer_password"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig describes the fan site itself.
type SiteConfig struct {
	Name        string       `yaml:"name"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	VTuber      VTuberConfig `yaml:"vtuber"`
}

// VTuberConfig holds the streamer persona shown on the site.
type VTuberConfig struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Catchphrase string `yaml:"catchphrase"`
	Color       string `yaml:"color"`
	Birthday    string `yaml:"birthday"`
}

// ScheduleConfig holds event dates used for the countdown.
type ScheduleConfig struct {
	SiteLaunch string `yaml:"site_launch"`
	LiveStart  string `yaml:"live_start"`
	EventEnd   string `yaml:"event_end"`
}

// PageConfig registers one navigable page.
type PageConfig struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Icon        string `yaml:"icon"`
	Enabled     bool   `yaml:"enabled"`
	Description string `yaml:"description"`
}

// BoardConfig holds message board limits and content rules.
type BoardConfig struct {
	MaxMessages    int      `yaml:"max_messages"`
	ContentMinLen  int      `yaml:"content_min_len"`
	ContentMaxLen  int      `yaml:"content_max_len"`
	NicknameMaxLen int      `yaml:"nickname_max_len"`
	AvatarGlyphs   []string `yaml:"avatar_glyphs"`
}

// AnswerBookConfig holds the answer pools for the magic answer book.
type AnswerBookConfig struct {
	Answers        []string `yaml:"answers"`
	SpecialAnswers []string `yaml:"special_answers"`
	SpecialChance  float64  `yaml:"special_chance"`
}

// HousekeepingConfig holds configuration for the board trim runner.
type HousekeepingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	DryRun  bool   `yaml:"dry_run"`
}

// SizeBytes represents a number of bytes, unmarshaled from human-friendly strings like "64MB" or plain integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = 0
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*s = 0
		return nil
	}
	if v, err := humanize.ParseBytes(raw); err == nil {
		*s = SizeBytes(v)
		return nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*s = SizeBytes(i)
		return nil
	}
	return fmt.Errorf("invalid size value: %q", node.Value)
}

func (s SizeBytes) Int64() int64 { return int64(s) }

// Duration is a wrapper around time.Duration that supports YAML parsing from strings like "100ms" or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	// allow numeric seconds
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
