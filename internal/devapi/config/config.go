// Package config handles configuration for the development backend,
// including defaults, environment, JSON overlay and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Refresh response shapes understood by the client.
const (
	ShapeDataToken = "data"
	ShapeRootToken = "root"
	ShapeUserToken = "user"
)

// Config holds runtime settings for the dev API.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Dev only.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - RefreshShape: where /auth/refresh puts the new token (data, root, user).
//   - Seed: preload demo accounts and listings.
type Config struct {
	Addr                         string        `validate:"required"`
	SecretKey                    string        `validate:"required"`
	AccessTokenValidityDuration  time.Duration `validate:"gt=0"`
	RefreshTokenValidityDuration time.Duration `validate:"gt=0"`
	RefreshShape                 string        `validate:"oneof=data root user"`
	Seed                         bool
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must never be reused outside local runs.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.SecretKey = "devapi-secret"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.RefreshShape = ShapeDataToken
	c.Seed = true
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the environment, an optional JSON
// file and finally command-line flags taken from os.Args. Variables from a
// .env file in the working directory are loaded first; real environment
// variables win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return Load(os.Args[1:], os.LookupEnv)
}

func Load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
