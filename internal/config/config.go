package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
)

// Environment variables that override file values.
const (
	EnvAddr          = "JSONBUILDER_ADDR"
	EnvLogLevel      = "JSONBUILDER_LOG_LEVEL"
	EnvTheme         = "JSONBUILDER_THEME"
	EnvPreviewFormat = "JSONBUILDER_PREVIEW_FORMAT"
)

// Config represents the complete configuration for jsonbuilder
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Preview PreviewConfig `yaml:"preview"`
	Theme   ThemeConfig   `yaml:"theme"`
	UI      UIConfig      `yaml:"ui"`
}

// ServerConfig controls the HTTP page shell
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	// SessionTTL is the idle time after which a page view is forgotten.
	SessionTTL  time.Duration `yaml:"session_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

// LoggingConfig selects the logrus level and formatter
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// PreviewConfig controls how the projection is printed
type PreviewConfig struct {
	Format string `yaml:"format"`
	Indent int    `yaml:"indent"`
}

// ThemeConfig picks a theme variant and optional token overrides
type ThemeConfig struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// UIConfig holds page chrome
type UIConfig struct {
	Title      string `yaml:"title"`
	DeleteIcon string `yaml:"delete_icon"`
}

// Default creates a new Config with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: 10 * time.Second,
			SessionTTL:    30 * time.Minute,
			MaxSessions:   1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Preview: PreviewConfig{
			Format: string(projection.FormatJSON),
			Indent: projection.DefaultIndent,
		},
		Theme: ThemeConfig{
			Name:    "emerald",
			Variant: "light",
			Tokens:  map[string]string{},
		},
		UI: UIConfig{
			Title: "JSON Schema Builder",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then environment overrides. The result
// is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads KEY=value pairs into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load env file %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides values from JSONBUILDER_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvTheme); ok {
		// "name" or "name:variant"
		name, variant, found := strings.Cut(v, ":")
		c.Theme.Name = strings.TrimSpace(name)
		if found {
			c.Theme.Variant = strings.TrimSpace(variant)
		}
	}
	if v, ok := lookup(EnvPreviewFormat); ok {
		c.Preview.Format = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.ShutdownGrace < 0 {
		return fmt.Errorf("config: server.shutdown_grace must not be negative, got %s", c.Server.ShutdownGrace)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("config: server.session_ttl must not be negative, got %s", c.Server.SessionTTL)
	}
	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("config: server.max_sessions must not be negative, got %d", c.Server.MaxSessions)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be text or json, got %q", c.Logging.Format)
	}
	if _, err := projection.ParseFormat(c.Preview.Format); err != nil {
		return fmt.Errorf("config: preview.format: %w", err)
	}
	if c.Preview.Indent < 0 || c.Preview.Indent > 8 {
		return fmt.Errorf("config: preview.indent must be between 0 and 8, got %d", c.Preview.Indent)
	}
	return nil
}

// PreviewFormat returns the parsed preview format. Call after Validate.
func (c *Config) PreviewFormat() projection.Format {
	format, err := projection.ParseFormat(c.Preview.Format)
	if err != nil {
		return projection.FormatJSON
	}
	return format
}

// FindConfigFile searches for a config file in the current directory and its
// parents. Returns "" when none exists.
func FindConfigFile() string {
	configNames := []string{"jsonbuilder.yaml", "jsonbuilder.yml", ".jsonbuilder.yaml", ".jsonbuilder.yml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}
