package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags known here are considered; see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-m", "-tz", "-d", "-l"})

	fs := flag.NewFlagSet("mailcal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.MockMode, "m", cfg.MockMode, "mock mode: canned responses, no network")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "IANA zone for calendar days")
	fs.StringVar(&cfg.CacheDBPath, "d", cfg.CacheDBPath, "local cache database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
