package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
)

// IdentityProvider holds the hosted identity-provider project credentials.
// mailcal only needs them to describe the account; tokens are minted elsewhere.
type IdentityProvider struct {
	APIKey            string `json:"api_key" yaml:"api_key" env:"API_KEY"`
	AuthDomain        string `json:"auth_domain" yaml:"auth_domain" env:"AUTH_DOMAIN"`
	ProjectID         string `json:"project_id" yaml:"project_id" env:"PROJECT_ID"`
	StorageBucket     string `json:"storage_bucket" yaml:"storage_bucket" env:"STORAGE_BUCKET"`
	MessagingSenderID string `json:"messaging_sender_id" yaml:"messaging_sender_id" env:"MESSAGING_SENDER_ID"`
	AppID             string `json:"app_id" yaml:"app_id" env:"APP_ID"`
}

// Config holds runtime settings for the mailcal CLI.
type Config struct {
	APIBaseURL     string        `env:"MAILCAL_API_URL"`
	RequestTimeout time.Duration `env:"MAILCAL_REQUEST_TIMEOUT"`

	// MockMode swaps the network transport for canned in-memory responses.
	MockMode bool `env:"MAILCAL_MOCK"`
	// DevMode tolerates a missing identity token.
	DevMode bool   `env:"MAILCAL_DEV_MODE"`
	IDToken string `env:"MAILCAL_ID_TOKEN"`

	Identity IdentityProvider `envPrefix:"MAILCAL_IDP_"`

	CacheDBPath string `env:"MAILCAL_CACHE_DB"`
	Timezone    string `env:"MAILCAL_TIMEZONE"`

	EmailLimit   int `env:"MAILCAL_EMAIL_LIMIT"`
	HistoryLimit int `env:"MAILCAL_HISTORY_LIMIT"`

	OnlineCheckInterval time.Duration `env:"MAILCAL_ONLINE_CHECK_INTERVAL"`
	// RefreshCron is a five-field cron expression; empty disables
	// scheduled refresh.
	RefreshCron string `env:"MAILCAL_REFRESH_CRON"`

	LogLevel  string `env:"MAILCAL_LOG_LEVEL"`
	LogFormat string `env:"MAILCAL_LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.MockMode = false
	c.DevMode = true
	c.CacheDBPath = "~/.mailcal/mailcal.db"
	c.Timezone = "Local"
	c.EmailLimit = 10
	c.HistoryLimit = 20
	c.OnlineCheckInterval = 30 * time.Second
	c.RefreshCron = "*/5 * * * *"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config from os.Args and the process environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil)
}

// Load applies defaults, then the config file named in args, then environ
// (nil means the process environment), then flags in args. Later sources
// take precedence over earlier ones.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("config flags: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.RefreshCron != "" {
		if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
			return nil, fmt.Errorf("refresh schedule %q: %w", cfg.RefreshCron, err)
		}
	}
	return cfg, nil
}

// Location resolves the configured IANA zone. "" and "Local" mean the
// machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DBPath returns CacheDBPath with a leading ~ expanded.
func (c *Config) DBPath() (string, error) {
	return homedir.Expand(c.CacheDBPath)
}
