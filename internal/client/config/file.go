package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mailcal/internal/flagx"
	"github.com/dmitrijs2005/mailcal/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used exclusively for file unmarshalling. Pointer fields
// distinguish "absent" from zero so partial files only override what they set.
type fileConfig struct {
	APIBaseURL          *string           `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout      *timex.Duration   `json:"request_timeout" yaml:"request_timeout"`
	MockMode            *bool             `json:"mock_mode" yaml:"mock_mode"`
	DevMode             *bool             `json:"dev_mode" yaml:"dev_mode"`
	IDToken             *string           `json:"id_token" yaml:"id_token"`
	Identity            *IdentityProvider `json:"identity" yaml:"identity"`
	CacheDBPath         *string           `json:"cache_db_path" yaml:"cache_db_path"`
	Timezone            *string           `json:"timezone" yaml:"timezone"`
	EmailLimit          *int              `json:"email_limit" yaml:"email_limit"`
	HistoryLimit        *int              `json:"history_limit" yaml:"history_limit"`
	OnlineCheckInterval *timex.Duration   `json:"online_check_interval" yaml:"online_check_interval"`
	RefreshCron         *string           `json:"refresh_cron" yaml:"refresh_cron"`
	LogLevel            *string           `json:"log_level" yaml:"log_level"`
	LogFormat           *string           `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config in args, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return err
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, fc.APIBaseURL)
	setIf(&cfg.MockMode, fc.MockMode)
	setIf(&cfg.DevMode, fc.DevMode)
	setIf(&cfg.IDToken, fc.IDToken)
	setIf(&cfg.Identity, fc.Identity)
	setIf(&cfg.CacheDBPath, fc.CacheDBPath)
	setIf(&cfg.Timezone, fc.Timezone)
	setIf(&cfg.EmailLimit, fc.EmailLimit)
	setIf(&cfg.HistoryLimit, fc.HistoryLimit)
	setIf(&cfg.RefreshCron, fc.RefreshCron)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
