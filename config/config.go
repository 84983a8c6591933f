package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds process settings. Environment variables provide defaults and
// command-line flags override them.
type Config struct {
	Level     string `env:"PLATFORMER_LEVEL" envDefault:"flat"`
	Debug     bool   `env:"PLATFORMER_DEBUG"`
	PrefabDir string `env:"PLATFORMER_PREFAB_DIR" envDefault:"prefabs"`
	StateFile string `env:"PLATFORMER_STATE_FILE" envDefault:"platformer_state.yaml"`
	Script    string `env:"PLATFORMER_SCRIPT"`
	Watch     bool   `env:"PLATFORMER_WATCH" envDefault:"true"`
	SentryDSN string `env:"SENTRY_DSN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RegisterFlags binds flags to cfg using its current values as defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Level, "level", cfg.Level, "level to load")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log controller transitions and draw the debug overlay")
	fs.StringVar(&cfg.PrefabDir, "prefabs", cfg.PrefabDir, "directory searched for prefab overrides; empty disables")
	fs.StringVar(&cfg.StateFile, "state", cfg.StateFile, "file used by save and load")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "tengo input script replacing the keyboard")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload prefab edits while running")
}
