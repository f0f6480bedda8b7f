// Package config loads runtime configuration for the mailcal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yaml
//     or .yml are read as YAML, everything else as JSON.
//  3. Environment variables prefixed with MAILCAL_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL
//	-i int      online status check interval (seconds)
//	-m          mock mode (canned responses, no network)
//	-tz string  IANA zone used for calendar days
//	-d string   local cache database path
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept strings like "15s" or integer nanoseconds:
//
//	api_base_url: http://127.0.0.1:8000
//	request_timeout: 15s
//	mock_mode: false
//	timezone: Asia/Tokyo
//	refresh_cron: "*/5 * * * *"
//	identity:
//	  api_key: ...
//	  project_id: ...
package config
