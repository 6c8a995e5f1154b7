// Package config loads the runtime's configuration from an optional
// binder.yaml file, a .env file, and environment variables. Environment
// variables win over the YAML file, which wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file.
const FileName = "binder.yaml"

// Config is the typed runtime configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Inspect InspectConfig `yaml:"inspect"`
}

// AppConfig carries host application metadata.
type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"` // local | production | testing
}

// LogConfig configures the diagnostic channel (see the log package).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// InspectConfig configures the dev-time binding inspector.
type InspectConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the built-in baseline configuration.
func Default() *Config {
	return &Config{
		App:     AppConfig{Name: "binder", Env: "local"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Inspect: InspectConfig{Enabled: false, Addr: "127.0.0.1:7676"},
	}
}

// Load reads .env (if present) and populates a Config from environment
// variables on top of the defaults. Call once at bootstrap.
func Load(envFiles ...string) *Config {
	loadEnvFiles(envFiles)
	return applyEnv(Default())
}

// LoadDir resolves configuration for a project directory: binder.yaml (if
// present) overlays the defaults, then .env and environment variables
// overlay that. A malformed YAML file is an error; a missing one is not.
func LoadDir(dir string, envFiles ...string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	loadEnvFiles(envFiles)
	return applyEnv(cfg), nil
}

// LoadFile reads a YAML configuration file onto the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetBool returns a bool env value, falling back to defaultVal.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// GetInt returns an int env value, falling back to defaultVal.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// ── helpers ─────────────────────────────────────────────────────────────────

func loadEnvFiles(files []string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist outside development
	_ = godotenv.Load(files...)
}

func applyEnv(c *Config) *Config {
	c.App.Name = env("APP_NAME", c.App.Name)
	c.App.Env = env("APP_ENV", c.App.Env)
	c.Log.Level = env("LOG_LEVEL", c.Log.Level)
	c.Log.Format = env("LOG_FORMAT", c.Log.Format)
	c.Inspect.Enabled = envBool("INSPECT_ENABLED", c.Inspect.Enabled)
	c.Inspect.Addr = env("INSPECT_ADDR", c.Inspect.Addr)
	return c
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
