// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MaxEnumerateSteps caps how tall a staircase may be enumerated. Path
// counts grow as Fibonacci numbers; 30 steps is already 1.3 million paths.
const MaxEnumerateSteps = 30

// Config holds all application configuration.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	FrontendURL    string   `env:"FRONTEND_URL"`
	DBPath         string   `env:"DB_PATH" envDefault:"./data/mathlab.db"`
	PostsDir       string   `env:"POSTS_DIR"` // empty serves the bundled posts
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Session        SessionConfig
	Staircase      StaircaseConfig
	Log            LogConfig
}

// SessionConfig controls in-memory game sessions.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"60m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// StaircaseConfig bounds the path enumerator and its animation.
type StaircaseConfig struct {
	MaxSteps             int           `env:"MAX_ENUMERATE_STEPS" envDefault:"20"`
	MaxDisplayPaths      int           `env:"MAX_DISPLAY_PATHS" envDefault:"20"`
	AnimationInterval    time.Duration `env:"ANIMATION_INTERVAL" envDefault:"1s"`
	MinAnimationInterval time.Duration `env:"MIN_ANIMATION_INTERVAL" envDefault:"100ms"`
}

// LogConfig controls the slog handlers.
type LogConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	File    string `env:"LOG_FILE"`
	Journal bool   `env:"LOG_JOURNAL" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.Staircase.MaxSteps < 1 || c.Staircase.MaxSteps > MaxEnumerateSteps {
		return fmt.Errorf("MAX_ENUMERATE_STEPS must be between 1 and %d", MaxEnumerateSteps)
	}
	if c.Staircase.MaxDisplayPaths < 0 {
		return fmt.Errorf("MAX_DISPLAY_PATHS must be >= 0")
	}
	if c.Staircase.MinAnimationInterval <= 0 {
		return fmt.Errorf("MIN_ANIMATION_INTERVAL must be > 0")
	}
	if c.Staircase.AnimationInterval < c.Staircase.MinAnimationInterval {
		return fmt.Errorf("ANIMATION_INTERVAL must be >= MIN_ANIMATION_INTERVAL")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// IsContainer returns true if running inside a Docker container.
func IsContainer() bool {
	if os.Getenv("CONTAINER") == "true" {
		return true
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
