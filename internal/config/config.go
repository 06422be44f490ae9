package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	BaseURL  string `yaml:"baseURL"`
	LogLevel string `yaml:"logLevel"`
	PageSize int    `yaml:"pageSize"`
	// Pointer so an explicit zero rate (no fines) stays distinct from
	// the field being absent.
	PenaltyDailyRate *float64 `yaml:"penaltyDailyRate"`
	RequestTimeout   string   `yaml:"requestTimeout"`
	RedisAddr        string   `yaml:"redisAddr"`
	RedisPassword    string   `yaml:"redisPassword"`
	CacheTTL         string   `yaml:"cacheTTL"`
	SessionFile      string   `yaml:"sessionFile"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("LIBRIS_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("LIBRIS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("LIBRIS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("LIBRIS_PENALTY_DAILY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.PenaltyDailyRate = &f
		}
	}
	if v := os.Getenv("LIBRIS_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LIBRIS_CACHE_TTL"); v != "" {
		cfg.CacheTTL = strings.TrimSpace(v)
	}
	if v := os.Getenv("LIBRIS_SESSION_FILE"); v != "" {
		cfg.SessionFile = strings.TrimSpace(v)
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.PageSize == 0 {
		cfg.PageSize = 6
	}
	if cfg.PenaltyDailyRate == nil {
		rate := 5.0
		cfg.PenaltyDailyRate = &rate
	}
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = "10s"
	}
	if cfg.CacheTTL == "" {
		cfg.CacheTTL = "30s"
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = ".libris-session"
	}
}

func validateConfig(cfg FileConfig) error {
	if cfg.BaseURL == "" {
		return errors.New("config: baseURL is required (set in config.yaml or LIBRIS_BASE_URL)")
	}
	if cfg.PageSize < 1 {
		return errors.New("config: pageSize must be >= 1")
	}
	if *cfg.PenaltyDailyRate < 0 {
		return errors.New("config: penaltyDailyRate must be >= 0")
	}
	if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
		return fmt.Errorf("config: invalid requestTimeout: %w", err)
	}
	if _, err := time.ParseDuration(cfg.CacheTTL); err != nil {
		return fmt.Errorf("config: invalid cacheTTL: %w", err)
	}
	return nil
}

// ParseRequestTimeout parses the request timeout duration string.
func ParseRequestTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 10 * time.Second, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	return dur, nil
}

// ParseCacheTTL parses the cache TTL duration string.
func ParseCacheTTL(s string) (time.Duration, error) {
	if s == "" {
		return 30 * time.Second, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cacheTTL duration: %w", err)
	}
	return dur, nil
}
