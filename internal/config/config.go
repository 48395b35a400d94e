// Package config resolves settings from defaults, ~/.tt/config.yaml, TT_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/penwyp/go-tt/internal/core/session"
	"github.com/penwyp/go-tt/internal/data/store"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "TT"

	KeyDataFile          = "data_file"
	KeyReportDir         = "report_dir"
	KeyLogFile           = "log_file"
	KeyLogFormat         = "log_format"
	KeyTimezone          = "timezone"
	KeyHeartbeatInterval = "heartbeat_interval"
	KeyStaleTolerance    = "stale_tolerance"
	KeyLockTimeout       = "lock_timeout"
	KeyDebug             = "debug"

	DefaultDataFile   = "~/.timelog.json"
	DefaultReportDir  = "~/Documents/Time Sheet Reports"
	DefaultLogFile    = "~/.tt/logs/app.log"
	DefaultConfigFile = "~/.tt/config.yaml"
)

// Config is the resolved configuration. Paths are expanded and absolute.
type Config struct {
	DataFile  string
	ReportDir string
	LogFile   string
	Timezone  string

	// LogFormat is "text" or "json"
	LogFormat string

	HeartbeatInterval time.Duration
	StaleTolerance    time.Duration
	LockTimeout       time.Duration

	Debug bool

	// ConfigFile is the file that was read, empty if none
	ConfigFile string
}

// NewViper returns a viper instance with defaults and environment bindings
// applied. TT_TIME_FILE is kept as the data file variable for compatibility.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataFile, DefaultDataFile)
	v.SetDefault(KeyReportDir, DefaultReportDir)
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyHeartbeatInterval, session.DefaultHeartbeatInterval)
	v.SetDefault(KeyStaleTolerance, session.DefaultStaleTolerance)
	v.SetDefault(KeyLockTimeout, store.DefaultLockTimeout)
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv(KeyDataFile, "TT_TIME_FILE")
	return v
}

// Load reads the optional config file into v and resolves the result.
// TT_CONFIG overrides the config file location.
func Load(v *viper.Viper) (*Config, error) {
	configFile := DefaultConfigFile
	if override := os.Getenv("TT_CONFIG"); override != "" {
		configFile = override
	}
	configFile, err := ExpandPath(configFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		cfg.ConfigFile = configFile
	}

	if cfg.DataFile, err = ExpandPath(v.GetString(KeyDataFile)); err != nil {
		return nil, err
	}
	if cfg.ReportDir, err = ExpandPath(v.GetString(KeyReportDir)); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = ExpandPath(v.GetString(KeyLogFile)); err != nil {
		return nil, err
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat)))
	cfg.Timezone = v.GetString(KeyTimezone)
	cfg.HeartbeatInterval = v.GetDuration(KeyHeartbeatInterval)
	cfg.StaleTolerance = v.GetDuration(KeyStaleTolerance)
	cfg.LockTimeout = v.GetDuration(KeyLockTimeout)
	cfg.Debug = v.GetBool(KeyDebug)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks relationships between settings
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("%s must not be empty", KeyDataFile)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyHeartbeatInterval, c.HeartbeatInterval)
	}
	if c.StaleTolerance <= c.HeartbeatInterval {
		return fmt.Errorf("%s (%s) must exceed %s (%s)",
			KeyStaleTolerance, c.StaleTolerance, KeyHeartbeatInterval, c.HeartbeatInterval)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, c.LogFormat)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyLockTimeout, c.LockTimeout)
	}
	if _, err := time.LoadLocation(normalizeZone(c.Timezone)); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyTimezone, c.Timezone, err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and makes the path absolute
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded, nil
	}
	return abs, nil
}

func normalizeZone(tz string) string {
	if tz == "" {
		return "Local"
	}
	return tz
}
