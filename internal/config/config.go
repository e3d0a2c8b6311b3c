package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmcdole/infigrid/internal/pager"
)

// Validation errors
var (
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidColumns  = errors.New("grid columns must be positive")
	ErrInvalidDelay    = errors.New("load delay must not be negative")
	ErrInvalidCell     = errors.New("cell height must be at least 1")
)

// Config holds all application configuration
type Config struct {
	Pagination PaginationConfig `mapstructure:"pagination"`
	UI         UIConfig         `mapstructure:"ui"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// PaginationConfig controls page size and the simulated load
type PaginationConfig struct {
	PageSize     int           `mapstructure:"page_size"`
	LoadDelay    time.Duration `mapstructure:"load_delay"`
	FillViewport bool          `mapstructure:"fill_viewport"` // keep loading while the end stays visible
}

// UIConfig holds UI configuration
type UIConfig struct {
	GridColumns int  `mapstructure:"grid_columns"`
	CellHeight  int  `mapstructure:"cell_height"` // interior lines per cell, excluding border
	Mouse       bool `mapstructure:"mouse"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"page-size": "pagination.page_size",
	"delay":     "pagination.load_delay",
	"columns":   "ui.grid_columns",
	"log-file":  "logging.file",
	"log-level": "logging.level",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Pagination: PaginationConfig{
			PageSize:     pager.DefaultPageSize,
			LoadDelay:    pager.DefaultLoadDelay,
			FillViewport: true,
		},
		UI: UIConfig{
			GridColumns: 3,
			CellHeight:  1,
			Mouse:       true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "infigrid", "infigrid.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "infigrid", "infigrid.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "infigrid")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "infigrid")
	}
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// File is an explicit config file. When empty the default locations are
	// searched and a missing file is not an error.
	File string

	// Flags are CLI flags to bind over file and environment values
	Flags *pflag.FlagSet
}

// LoadConfig loads configuration from defaults, file, environment and flags
func LoadConfig(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. INFIGRID_PAGINATION_PAGE_SIZE
	v.SetEnvPrefix("INFIGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("pagination.page_size", cfg.Pagination.PageSize)
	v.SetDefault("pagination.load_delay", cfg.Pagination.LoadDelay)
	v.SetDefault("pagination.fill_viewport", cfg.Pagination.FillViewport)

	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("ui.cell_height", cfg.UI.CellHeight)
	v.SetDefault("ui.mouse", cfg.UI.Mouse)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks the configuration for values the UI cannot work with
func (c *Config) Validate() error {
	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("invalid config: %w (got %d)", ErrInvalidPageSize, c.Pagination.PageSize)
	}
	if c.Pagination.LoadDelay < 0 {
		return fmt.Errorf("invalid config: %w (got %s)", ErrInvalidDelay, c.Pagination.LoadDelay)
	}
	if c.UI.GridColumns <= 0 {
		return fmt.Errorf("invalid config: %w (got %d)", ErrInvalidColumns, c.UI.GridColumns)
	}
	if c.UI.CellHeight < 1 {
		return fmt.Errorf("invalid config: %w (got %d)", ErrInvalidCell, c.UI.CellHeight)
	}
	return nil
}
