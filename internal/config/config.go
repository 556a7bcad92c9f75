// internal/config/config.go
//
// Server configuration, layered:
//   1. DefaultConfig
//   2. optional TOML file named by KESHIMASU_CONFIG
//   3. environment variables (after .env is loaded by godotenv)
//
// Later layers win. Validate runs once at the end.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `toml:"port"`
	DBPath         string        `toml:"db_path"`
	JWTSecret      string        `toml:"jwt_secret"`
	JWTExpiresDays int           `toml:"jwt_expires_days"`
	ClientOrigin   string        `toml:"client_origin"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"` // json | console
	CountryWords   string        `toml:"words_country_file"`
	CapitalWords   string        `toml:"words_capital_file"`
	RankingLimit   int           `toml:"ranking_limit"`
	SeedPuzzles    bool          `toml:"seed_puzzles"`
	SessionTTL     time.Duration `toml:"session_ttl"`
}

const devSecret = "dev_secret_change_me"

func DefaultConfig() *Config {
	return &Config{
		Port:           "5175",
		DBPath:         "./data/keshimasu.db",
		JWTSecret:      devSecret,
		JWTExpiresDays: 14,
		ClientOrigin:   "http://localhost:5173",
		LogLevel:       "info",
		LogFormat:      "json",
		RankingLimit:   10,
		SeedPuzzles:    true,
		SessionTTL:     2 * time.Hour,
	}
}

// Load builds the configuration from .env, the optional TOML file and the
// process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	if path, ok := lookup("KESHIMASU_CONFIG"); ok && path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("DB_PATH", &c.DBPath)
	str("JWT_SECRET", &c.JWTSecret)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("WORDS_COUNTRY_FILE", &c.CountryWords)
	str("WORDS_CAPITAL_FILE", &c.CapitalWords)

	for key, dst := range map[string]*int{
		"JWT_EXPIRES_DAYS": &c.JWTExpiresDays,
		"RANKING_LIMIT":    &c.RankingLimit,
	} {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup("SEED_PUZZLES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_PUZZLES: %w", err)
		}
		c.SeedPuzzles = b
	}
	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("jwt_expires_days must be > 0")
	}
	if c.RankingLimit <= 0 || c.RankingLimit > 100 {
		return fmt.Errorf("ranking_limit must be 1-100")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log_format %q (use json or console)", c.LogFormat)
	}
	return nil
}

// DevSecret reports whether the built-in development JWT secret is in use.
func (c *Config) DevSecret() bool { return c.JWTSecret == devSecret }

// TokenTTL is the lifetime of issued player tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
