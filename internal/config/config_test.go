package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if !cfg.DevSecret() {
		t.Error("default should use the dev secret")
	}
	if cfg.TokenTTL() != 14*24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL())
	}
}

func TestLoadLayers(t *testing.T) {
	file := `
port = "9000"
db_path = "/tmp/k.db"
ranking_limit = 25
seed_puzzles = false
session_ttl = "30m"
log_format = "console"
`
	path := filepath.Join(t.TempDir(), "keshimasu.toml")
	if err := os.WriteFile(path, []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(env(map[string]string{
		"KESHIMASU_CONFIG": path,
		"PORT":             "9100",
		"JWT_SECRET":       "s3cret",
		"JWT_EXPIRES_DAYS": "3",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9100" {
		t.Errorf("env should override file: Port = %q", cfg.Port)
	}
	if cfg.DBPath != "/tmp/k.db" || cfg.RankingLimit != 25 || cfg.SeedPuzzles {
		t.Errorf("file layer not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.LogFormat != "console" {
		t.Errorf("SessionTTL=%v LogFormat=%q", cfg.SessionTTL, cfg.LogFormat)
	}
	if cfg.DevSecret() || cfg.JWTExpiresDays != 3 {
		t.Errorf("JWT settings = %q/%d", cfg.JWTSecret, cfg.JWTExpiresDays)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"bad int":        {"RANKING_LIMIT": "many"},
		"bad bool":       {"SEED_PUZZLES": "perhaps"},
		"bad duration":   {"SESSION_TTL": "soon"},
		"limit range":    {"RANKING_LIMIT": "0"},
		"log format":     {"LOG_FORMAT": "xml"},
		"missing config": {"KESHIMASU_CONFIG": "/nonexistent/keshimasu.toml"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(env(vars)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
