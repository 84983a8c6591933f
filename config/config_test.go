package config

import (
	"flag"
	"strings"
	"testing"
)

type envTestConfig struct {
	Ticks int `env:"PLATFORMER_TEST_TICKS" envDefault:"60"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Ticks != 60 {
		t.Fatalf("expected default 60, got %d", cfg.Ticks)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PLATFORMER_TEST_TICKS", "many")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Level != "flat" || cfg.PrefabDir != "prefabs" || !cfg.Watch || cfg.Debug {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PLATFORMER_LEVEL", "steps")
	t.Setenv("PLATFORMER_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Level != "steps" || !cfg.Debug {
		t.Fatalf("expected env values, got %+v", cfg)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-level", "flat", "-script", "hop.tengo"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Level != "flat" || cfg.Script != "hop.tengo" || !cfg.Debug {
		t.Fatalf("expected flags to override only what they name, got %+v", cfg)
	}
}
