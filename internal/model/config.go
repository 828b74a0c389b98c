package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends understood by store.Open.
const (
	BackendSQLite   = "sqlite"
	BackendSettings = "settings"
)

// DefaultScope is the settings scope announcements are saved under.
const DefaultScope = "SAP/AnnouncementAPP"

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "settings".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the database file (sqlite) or YAML settings file (settings).
	Path string `mapstructure:"path" yaml:"path"`

	// Scope names the group the board is saved under.
	Scope string `mapstructure:"scope" yaml:"scope"`
}

// LogConfig controls the rotating file logger.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Title         string `mapstructure:"title" yaml:"title"`
	DefaultWindow string `mapstructure:"default_window" yaml:"default_window"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"db":        "storage.path",
	"backend":   "storage.backend",
	"scope":     "storage.scope",
	"log-level": "log.level",
	"window":    "display.default_window",
}

// DefaultConfigPath returns ~/.config/sapboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "sapboard", "config.yaml")
}

// DefaultDataDir returns the directory holding the board database and logs.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "sapboard")
}

// DefaultStoragePath returns the file each backend uses when storage.path
// is unset, so the two backends never share a file by default.
func DefaultStoragePath(backend string) string {
	if backend == BackendSettings {
		return filepath.Join(DefaultDataDir(), "settings.yaml")
	}
	return filepath.Join(DefaultDataDir(), "board.db")
}

func setDefaults(v *viper.Viper) {
	dataDir := DefaultDataDir()
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.scope", DefaultScope)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir, "sapboard.log"))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
	v.SetDefault("display.title", "SAP Board")
	v.SetDefault("display.default_window", WindowAll.String())
}

// LoadConfig reads configuration from the YAML file at path, then applies
// SAPBOARD_* environment variables and any flags set in flags (which may be
// nil). A missing file yields the defaults.
func LoadConfig(path string, flags *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("SAPBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendSettings:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			BackendSQLite, BackendSettings, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		c.Storage.Path = DefaultStoragePath(c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Scope) == "" {
		c.Storage.Scope = DefaultScope
	}
	if _, err := ParseWindow(c.Display.DefaultWindow); err != nil {
		return fmt.Errorf("display.default_window: %w", err)
	}
	return nil
}

// SaveConfig writes cfg to a YAML file at path, creating parent
// directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
