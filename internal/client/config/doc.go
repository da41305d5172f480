// Package config loads runtime configuration for the job board client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed JOBBOARD_, with a .env file in the
//     working directory filling in variables the process does not set.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// The result is validated; LoadConfig reports the first invalid field.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-s string   session store backend: sqlite or redis
//	-d string   SQLite database path
//	-l string   log level: debug, info, warn, error
//
// Environment
//
//	JOBBOARD_API_URL          JOBBOARD_STORE
//	JOBBOARD_REQUEST_TIMEOUT  JOBBOARD_DB_PATH
//	JOBBOARD_REFRESH_TIMEOUT  JOBBOARD_REDIS_ADDR
//	JOBBOARD_LOG_LEVEL        JOBBOARD_REDIS_PASSWORD
//	                          JOBBOARD_REDIS_DB
//
// Timeouts in the environment use Go duration syntax ("15s").
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "15s" or integer nanoseconds. Absent keys leave the earlier
// value in place:
//
//	{
//	  "api_base_url": "http://localhost:3000/api",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "10s",
//	  "store_backend": "sqlite",
//	  "database_path": "/home/ann/.config/jobboard/session.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "log_level": "info"
//	}
package config
