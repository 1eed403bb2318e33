// Package config loads vimmeta settings from defaults, an optional TOML file
// and VIMMETA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "vimmeta"
	// LocalFileName is looked up in the working directory when no file is given.
	LocalFileName = ".vimmeta.toml"
	// EnvPrefix prefixes environment overrides, e.g. VIMMETA_WORKERS.
	EnvPrefix = "VIMMETA"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel      string        `mapstructure:"log_level"`
	DBPath        string        `mapstructure:"db_path"`
	Workers       int           `mapstructure:"workers"`    // 0 means one per CPU
	CacheSize     int           `mapstructure:"cache_size"` // parsed modules kept in memory
	Extensions    []string      `mapstructure:"extensions"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// LoadOptions selects where configuration comes from.
type LoadOptions struct {
	// ConfigFile is an explicit TOML file; it must exist when set.
	ConfigFile string
	// Dir is searched for LocalFileName when ConfigFile is empty.
	// Defaults to the working directory.
	Dir string
}

// DefaultDBPath returns $XDG_CACHE_HOME/vimmeta/vimmeta.db (or the
// platform's user cache directory).
func DefaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName, AppName+".db")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DBPath:        DefaultDBPath(),
		Workers:       0,
		CacheSize:     1024,
		Extensions:    []string{".vim"},
		WatchDebounce: 50 * time.Millisecond,
	}
}

// Load resolves the configuration and returns it with the path of the file
// that was read ("" when only defaults and environment applied).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	resolved := opts.ConfigFile
	if resolved != "" {
		if !fileExists(resolved) {
			return nil, "", fmt.Errorf("config file not found: %s", resolved)
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		if local := filepath.Join(dir, LocalFileName); fileExists(local) {
			resolved = local
		}
	}

	if resolved != "" {
		v.SetConfigFile(resolved)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks value ranges that the decoder cannot express.
func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path: must not be empty"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: must be >= 0, got %d", c.Workers))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size: must be >= 0, got %d", c.CacheSize))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("extensions: at least one extension required"))
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("extensions: %q must start with a dot", ext))
		}
	}
	if c.WatchDebounce <= 0 {
		errs = append(errs, fmt.Errorf("watch_debounce: must be positive, got %s", c.WatchDebounce))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
