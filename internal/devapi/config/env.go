package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "DEVAPI_"

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := get("SECRET_KEY"); ok {
		cfg.SecretKey = v
	}
	if v, ok := get("REFRESH_SHAPE"); ok {
		cfg.RefreshShape = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("SEED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		cfg.Seed = b
	}

	for name, dst := range map[string]*time.Duration{
		"ACCESS_TTL":  &cfg.AccessTokenValidityDuration,
		"REFRESH_TTL": &cfg.RefreshTokenValidityDuration,
	} {
		v, ok := get(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}
	return nil
}
