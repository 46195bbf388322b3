// Package config provides configuration types and defaults for dxfcat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
)

// Config holds all configuration options for dxfcat.
type Config struct {
	Database  string          `mapstructure:"database"` // layer state store path
	LogFile   string          `mapstructure:"log_file"` // debug log path, empty for ./debug.log
	Debug     bool            `mapstructure:"debug"`
	Linetypes LinetypesConfig `mapstructure:"linetypes"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// LinetypesConfig controls where line type definitions come from.
type LinetypesConfig struct {
	// Libraries are .lin files searched, in order, by `lin import`.
	Libraries []string `mapstructure:"libraries"`

	// CacheTTL is how long a parsed library stays cached.
	// Default: 10m
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WatchConfig controls `dxfcat watch`.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	// Default: 200ms
	Debounce time.Duration `mapstructure:"debounce"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/dxfcat/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "dxfcat"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultConfigDir returns ~/.config/dxfcat, or "" if the home dir is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dxfcat")
}

// DefaultDatabasePath returns the default layer state store location.
func DefaultDatabasePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return "dxfcat.db"
	}
	return filepath.Join(dir, "dxfcat.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		Database: DefaultDatabasePath(),
		Linetypes: LinetypesConfig{
			CacheTTL: 10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "dxfcat",
		},
	}
}

// Validate checks every section.
func Validate(cfg Config) error {
	if err := ValidateLinetypes(cfg.Linetypes); err != nil {
		return err
	}
	if err := ValidateWatch(cfg.Watch); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateLinetypes checks the line type library settings.
func ValidateLinetypes(lt LinetypesConfig) error {
	if lt.CacheTTL < 0 {
		return fmt.Errorf("linetypes.cache_ttl must not be negative, got %v", lt.CacheTTL)
	}
	for i, lib := range lt.Libraries {
		if lib == "" {
			return fmt.Errorf("linetypes.libraries[%d] is empty", i)
		}
	}
	return nil
}

// ValidateWatch checks the watch settings.
func ValidateWatch(w WatchConfig) error {
	if w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", w.Debounce)
	}
	return nil
}

// ValidateTracing checks the tracing settings.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the commented file written on first run.
func DefaultConfigTemplate() string {
	return `# dxfcat configuration

# Layer state store (SQLite)
# database: ~/.config/dxfcat/dxfcat.db

# Debug logging (also enabled by --debug or DXFCAT_DEBUG=1)
debug: false
# log_file: ./debug.log

# Line type libraries searched by "dxfcat lin import"
linetypes:
  libraries: []
  #   - /usr/share/dxfcat/acad.lin
  cache_ttl: 10m   # how long a parsed library stays cached

# "dxfcat watch" settings
watch:
  debounce: 200ms

# Tracing
tracing:
  enabled: false
  exporter: file     # none, file, stdout, otlp
  # file_path: ~/.config/dxfcat/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: dxfcat
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
