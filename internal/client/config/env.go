package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "JOBBOARD_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup reads the process environment, falling back to the variables in
// dotenvPath. A missing or unreadable file is treated as empty.
func EnvLookup(dotenvPath string) LookupFunc {
	fileVals, err := godotenv.Read(dotenvPath)
	if err != nil {
		fileVals = map[string]string{}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}
}

func parseEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("API_URL", &cfg.APIBaseURL)
	str("STORE", &cfg.StoreBackend)
	str("DB_PATH", &cfg.DatabasePath)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("LOG_LEVEL", &cfg.LogLevel)

	if err := dur("REQUEST_TIMEOUT", &cfg.RequestTimeout); err != nil {
		return err
	}
	if err := dur("REFRESH_TIMEOUT", &cfg.RefreshTimeout); err != nil {
		return err
	}

	if v, ok := lookup(envPrefix + "REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", envPrefix, err)
		}
		cfg.RedisDB = n
	}

	return nil
}
