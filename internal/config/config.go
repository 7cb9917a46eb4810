package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/dotwiki/internal/grammar"
)

// Config represents the dotwiki configuration
type Config struct {
	SourceDir      string   `yaml:"source_dir"`
	OutputDir      string   `yaml:"output_dir"`
	SourceExt      string   `yaml:"source_ext"`
	OutputExt      string   `yaml:"output_ext"`
	Indent         string   `yaml:"indent"`
	FootnotePrefix string   `yaml:"footnote_prefix"`
	Disabled       []string `yaml:"disabled,omitempty"`
	Workers        int      `yaml:"workers"`
	LogFile        string   `yaml:"log_file"`
	LogLevel       string   `yaml:"log_level"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		SourceDir:      ".",
		OutputDir:      "public",
		SourceExt:      ".wiki",
		OutputExt:      ".html",
		Indent:         " ",
		FootnotePrefix: "wiki-footnote-",
		Disabled:       []string{},
		Workers:        4,
		LogFile:        filepath.Join(os.TempDir(), "dotwiki.log"),
		LogLevel:       "info",
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "dotwiki", "config.yaml")
	}
	return filepath.Join(home, ".config", "dotwiki", "config.yaml")
}

// StateFilePath returns the path to the build cache
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "dotwiki", "state.json")
}

// PIDFilePath returns the path of the background watcher PID file
// Can be overridden for testing
var PIDFilePath = func() string {
	return filepath.Join(xdg.DataHome, "dotwiki", "watch.pid")
}

// Load reads configuration from the config directory. Keys missing from
// the file keep their default value.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		// Return default config if file doesn't exist
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Disabled == nil {
		cfg.Disabled = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	for key, ext := range map[string]string{"source_ext": c.SourceExt, "output_ext": c.OutputExt} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%s must start with a dot, got '%s'", key, ext)
		}
	}
	if c.SourceExt == c.OutputExt {
		return fmt.Errorf("source_ext and output_ext must differ")
	}
	if strings.TrimSpace(c.Indent) != "" {
		return fmt.Errorf("indent must only contain whitespace")
	}
	if c.FootnotePrefix == "" {
		return fmt.Errorf("footnote_prefix cannot be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	block, err := grammar.Block()
	if err != nil {
		return err
	}
	inline, err := grammar.Inline()
	if err != nil {
		return err
	}
	for _, k := range c.Disabled {
		if !block.Defines(grammar.Kind(k)) && !inline.Defines(grammar.Kind(k)) {
			return fmt.Errorf("cannot disable unknown construct '%s'", k)
		}
	}

	return nil
}

// Level returns the parsed log level, info when unset or invalid
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.SourceDir, err = expandPath(c.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to expand source_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
