// Package config loads server settings from a YAML file, a .env file and
// TALENTFLOW_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/TalentFlow/internal/utils"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageBadger = "badger"
)

// DevSecret is the fallback signing secret. Serving with it logs a warning.
const DevSecret = "talentflow-dev-secret"

type FaultsConfig struct {
	Enabled     bool
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
}

type Config struct {
	Addr          string
	Storage       string
	DataDir       string
	MigrationsDir string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
	Faults        FaultsConfig
}

// DefaultConfig returns a config with default values. The fault defaults
// mirror a slow mock backend: 200ms to 1.2s latency and 10% write failures.
func DefaultConfig() *Config {
	return &Config{
		Addr:        ":8080",
		Storage:     StorageSQLite,
		DataDir:     "data",
		JWTSecret:   DevSecret,
		TokenTTL:    12 * time.Hour,
		LogLevel:    "info",
		LogFormat:   "auto",
		CORSOrigins: []string{"*"},
		Faults: FaultsConfig{
			MinLatency:  200 * time.Millisecond,
			MaxLatency:  1200 * time.Millisecond,
			FailureRate: 0.1,
		},
	}
}

// LoadConfig reads path over the defaults; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are strings in the file.
	type yamlFaults struct {
		Enabled     *bool    `yaml:"enabled"`
		MinLatency  string   `yaml:"min_latency"`
		MaxLatency  string   `yaml:"max_latency"`
		FailureRate *float64 `yaml:"failure_rate"`
	}
	type yamlConfig struct {
		Addr          string     `yaml:"addr"`
		Storage       string     `yaml:"storage"`
		DataDir       string     `yaml:"data_dir"`
		MigrationsDir string     `yaml:"migrations_dir"`
		JWTSecret     string     `yaml:"jwt_secret"`
		TokenTTL      string     `yaml:"token_ttl"`
		LogLevel      string     `yaml:"log_level"`
		LogFormat     string     `yaml:"log_format"`
		CORSOrigins   []string   `yaml:"cors_origins"`
		Faults        yamlFaults `yaml:"faults"`
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&cfg.Addr, yc.Addr)
	setString(&cfg.Storage, yc.Storage)
	setString(&cfg.DataDir, yc.DataDir)
	setString(&cfg.MigrationsDir, yc.MigrationsDir)
	setString(&cfg.JWTSecret, yc.JWTSecret)
	setString(&cfg.LogLevel, yc.LogLevel)
	setString(&cfg.LogFormat, yc.LogFormat)
	if yc.CORSOrigins != nil {
		cfg.CORSOrigins = yc.CORSOrigins
	}
	if err := setDuration(&cfg.TokenTTL, yc.TokenTTL, "token_ttl"); err != nil {
		return nil, err
	}
	if yc.Faults.Enabled != nil {
		cfg.Faults.Enabled = *yc.Faults.Enabled
	}
	if yc.Faults.FailureRate != nil {
		cfg.Faults.FailureRate = *yc.Faults.FailureRate
	}
	if err := setDuration(&cfg.Faults.MinLatency, yc.Faults.MinLatency, "faults.min_latency"); err != nil {
		return nil, err
	}
	if err := setDuration(&cfg.Faults.MaxLatency, yc.Faults.MaxLatency, "faults.max_latency"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	*dst = d
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from TALENTFLOW_* variables.
func (c *Config) ApplyEnv() {
	c.Addr = utils.SafeEnv("TALENTFLOW_ADDR", c.Addr)
	c.Storage = utils.SafeEnv("TALENTFLOW_STORAGE", c.Storage)
	c.DataDir = utils.SafeEnv("TALENTFLOW_DATA_DIR", c.DataDir)
	c.MigrationsDir = utils.SafeEnv("TALENTFLOW_MIGRATIONS_DIR", c.MigrationsDir)
	c.JWTSecret = utils.SafeEnv("TALENTFLOW_JWT_SECRET", c.JWTSecret)
	c.TokenTTL = utils.EnvDuration("TALENTFLOW_TOKEN_TTL", c.TokenTTL)
	c.LogLevel = utils.SafeEnv("TALENTFLOW_LOG_LEVEL", c.LogLevel)
	c.LogFormat = utils.SafeEnv("TALENTFLOW_LOG_FORMAT", c.LogFormat)
	c.CORSOrigins = utils.EnvList("TALENTFLOW_CORS_ORIGINS", c.CORSOrigins)
	c.Faults.Enabled = utils.EnvBool("TALENTFLOW_FAULTS", c.Faults.Enabled)
}

// Load is LoadConfig followed by .env loading and environment overrides.
func Load(path, dotenv string) (*Config, error) {
	if err := LoadDotEnv(dotenv); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr must not be empty")
	}
	switch c.Storage {
	case StorageMemory:
	case StorageSQLite, StorageBadger:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("data_dir is required for %s storage", c.Storage)
		}
	default:
		return fmt.Errorf("storage must be one of memory, sqlite, badger, got %q", c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %v", c.TokenTTL)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("log_format must be auto, text or json, got %q", c.LogFormat)
	}
	if c.Faults.FailureRate < 0 || c.Faults.FailureRate > 1 {
		return fmt.Errorf("faults.failure_rate must be between 0 and 1, got %v", c.Faults.FailureRate)
	}
	if c.Faults.MinLatency < 0 || c.Faults.MaxLatency < c.Faults.MinLatency {
		return fmt.Errorf("faults latency range %v..%v is invalid", c.Faults.MinLatency, c.Faults.MaxLatency)
	}
	return nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
}
