// Package config loads townsim settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the townsim binary.
type Config struct {
	Width  int   `env:"WIDTH" envDefault:"40"`
	Height int   `env:"HEIGHT" envDefault:"30"`
	Seed   int64 `env:"SEED" envDefault:"0"` // 0 draws a seed from entropy

	RandomOrgKey string `env:"RANDOM_ORG_KEY"`

	Guards      int `env:"GUARDS" envDefault:"4"`
	Enforcers   int `env:"ENFORCERS" envDefault:"1"`
	Vehicles    int `env:"VEHICLES" envDefault:"6"`
	PoliceCars  int `env:"POLICE_CARS" envDefault:"1"`
	Pedestrians int `env:"PEDESTRIANS" envDefault:"6"`

	Frame  time.Duration `env:"FRAME" envDefault:"16ms"`
	Frames uint64        `env:"FRAMES" envDefault:"0"` // 0 runs until signalled
	Speed  float64       `env:"SPEED" envDefault:"1.0"`

	Infamy   int    `env:"INFAMY" envDefault:"0"`
	Currency int    `env:"CURRENCY" envDefault:"100"`
	Bounty   int    `env:"BOUNTY" envDefault:"0"`
	Location string `env:"LOCATION" envDefault:"town"`

	DBPath     string `env:"DB_PATH" envDefault:"data/townsim.db"` // "off" disables the journal
	APIPort    int    `env:"API_PORT" envDefault:"8080"`           // 0 disables the API
	AdminKey   string `env:"ADMIN_KEY"`
	EventsRate int    `env:"EVENTS_RATE" envDefault:"60"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Prefix is prepended to every variable name.
const Prefix = "TOWNSIM_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses a fixed environment map, for tests and embedding.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects sizes, counts and amounts the simulation cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height))
	}
	counts := []struct {
		name string
		n    int
	}{
		{"guards", c.Guards},
		{"enforcers", c.Enforcers},
		{"vehicles", c.Vehicles},
		{"police_cars", c.PoliceCars},
		{"pedestrians", c.Pedestrians},
		{"infamy", c.Infamy},
		{"currency", c.Currency},
		{"bounty", c.Bounty},
		{"events_rate", c.EventsRate},
	}
	for _, f := range counts {
		if f.n < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, f.name, f.n))
		}
	}
	if c.Frame <= 0 {
		errs = append(errs, fmt.Errorf("%w: frame interval must be positive", ErrInvalid))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("%w: speed must be positive", ErrInvalid))
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("%w: api port %d out of range", ErrInvalid, c.APIPort))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// JournalEnabled reports whether events should be written to SQLite.
func (c Config) JournalEnabled() bool {
	return c.DBPath != "" && c.DBPath != "off"
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalid, name)
}
