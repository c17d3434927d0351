// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the signup server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabasePath: path to the SQLite database file.
//   - SecretKey: HMAC secret for signing password reset tokens (HS256).
//     Do not use the development default in production.
//   - BaseURL: externally reachable base URL, used to build reset links.
//   - SessionTTL / RememberSessionTTL: session lifetimes without and with
//     the remember-me option.
//   - ResetTokenTTL: lifetime of password reset tokens.
//   - TokenIssuer: issuer and audience pinned into reset tokens.
type Config struct {
	Addr               string        `env:"ADDR"                 envDefault:":8080"`
	DatabasePath       string        `env:"DATABASE_PATH"        envDefault:"app.db"`
	SecretKey          string        `env:"SECRET_KEY"           envDefault:"summer2020key"`
	BaseURL            string        `env:"BASE_URL"             envDefault:"http://localhost:8080"`
	SessionTTL         time.Duration `env:"SESSION_TTL"          envDefault:"12h"`
	RememberSessionTTL time.Duration `env:"REMEMBER_SESSION_TTL" envDefault:"720h"`
	ResetTokenTTL      time.Duration `env:"RESET_TOKEN_TTL"      envDefault:"10m"`
	TokenIssuer        string        `env:"TOKEN_ISSUER"         envDefault:"tutoring-api"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks if the configuration is usable.
func (c *Config) validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if c.SessionTTL <= 0 || c.RememberSessionTTL <= 0 {
		return fmt.Errorf("session lifetimes must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive")
	}

	return nil
}
