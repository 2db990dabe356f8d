// Package config loads digest settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyServer      = "server"
	KeyLibrary     = "library"
	KeyExpandLevel = "expand_level"
	KeyNarrowWidth = "narrow_width"
	KeyOverlap     = "overlap"
	KeyTimeout     = "timeout"
	KeyCacheDir    = "cache_dir"
	KeyLogLevel    = "log.level"
	KeyLogFile     = "log.file"
	KeyLogMode     = "log.mode"
)

const appName = "digest"

// Config is the resolved configuration.
type Config struct {
	Server      string
	Library     string
	ExpandLevel int
	// NarrowWidth and Overlap are in terminal cells.
	NarrowWidth int
	Overlap     int
	Timeout     time.Duration
	CacheDir    string
	Logging     LoggingConfig
}

// Origin identifies the catalog source, for keying saved state.
func (c *Config) Origin() string {
	if c.Server != "" {
		return c.Server
	}
	return c.Library
}

// NewViper returns a viper instance with defaults, config file search paths
// and environment binding set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyExpandLevel, 1)
	v.SetDefault(KeyNarrowWidth, 100)
	v.SetDefault(KeyOverlap, 2)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyCacheDir, defaultCacheDir())
	v.SetDefault(KeyLogLevel, "none")
	v.SetDefault(KeyLogFile, filepath.Join(os.TempDir(), appName+".log"))
	v.SetDefault(KeyLogMode, "append")

	v.SetConfigName("." + appName) // .yaml is implicit
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("DIGEST_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	return v
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "articles")
}

// Load reads the config file, if any, and resolves v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server:      strings.TrimSpace(v.GetString(KeyServer)),
		Library:     strings.TrimSpace(v.GetString(KeyLibrary)),
		ExpandLevel: v.GetInt(KeyExpandLevel),
		NarrowWidth: v.GetInt(KeyNarrowWidth),
		Overlap:     v.GetInt(KeyOverlap),
		Timeout:     v.GetDuration(KeyTimeout),
		CacheDir:    v.GetString(KeyCacheDir),
		Logging: LoggingConfig{
			FileLogger: LoggerConfig{
				Level:       v.GetString(KeyLogLevel),
				Destination: v.GetString(KeyLogFile),
				Mode:        v.GetString(KeyLogMode),
			},
			ConsoleLogger: LoggerConfig{Level: "none"},
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Server == "" && c.Library == "":
		return errors.New("either a server or a library directory is required")
	case c.Server != "" && c.Library != "":
		return errors.New("server and library are mutually exclusive")
	case c.ExpandLevel < 0 || c.ExpandLevel > 2:
		return fmt.Errorf("%s must be 0, 1 or 2, got %d", KeyExpandLevel, c.ExpandLevel)
	case c.Overlap < 0:
		return fmt.Errorf("%s must not be negative", KeyOverlap)
	case c.Timeout <= 0:
		return fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	return c.Logging.validate()
}
