package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both "15m"
// strings and integer nanoseconds.
type JsonConfig struct {
	Addr                         string         `json:"addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	RefreshShape                 string         `json:"refresh_shape"`
	Seed                         *bool          `json:"seed"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays cfg with the file given by -c/-config. Unset fields keep
// their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SecretKey != "" {
		cfg.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RefreshShape != "" {
		cfg.RefreshShape = c.RefreshShape
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return nil
}
