package config

import "github.com/caarlos0/env/v6"

// parseEnv overlays cfg with MAILCAL_* variables. Unset variables leave the
// current value alone. environ replaces the process environment when non-nil.
func parseEnv(cfg *Config, environ map[string]string) error {
	return env.Parse(cfg, env.Options{Environment: environ})
}
