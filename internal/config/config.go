// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file >
// embedded defaults > compiled defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "15s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all collector configuration.
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Project    ProjectConfig    `yaml:"project"`
	Collectors CollectorsConfig `yaml:"collectors"`
	Probe      ProbeConfig      `yaml:"probe"`
}

// OutputConfig locates the report file.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Filename  string `yaml:"filename"`
}

// LoggingConfig holds logging settings. An empty Directory disables the
// log file.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// ProjectConfig names the project the language and git facts describe.
type ProjectConfig struct {
	RootDir string `yaml:"root_dir"`
}

// CollectorsConfig enables report groups.
type CollectorsConfig struct {
	System       bool `yaml:"system"`
	Python       bool `yaml:"python"`
	JavaScript   bool `yaml:"javascript"`
	TopProcesses int  `yaml:"top_processes"`
}

// ProbeConfig bounds external commands.
type ProbeConfig struct {
	Timeout     Duration `yaml:"timeout"`
	Concurrency int      `yaml:"concurrency"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Directory: "output",
			Filename:  "system_data.json",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Directory: "logs",
		},
		Project: ProjectConfig{
			RootDir: ".",
		},
		Collectors: CollectorsConfig{
			System:       true,
			Python:       true,
			JavaScript:   true,
			TopProcesses: 10,
		},
		Probe: ProbeConfig{
			Timeout:     Duration{30 * time.Second},
			Concurrency: 4,
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "parsing config data", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "reading config file", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags.
// Empty strings and nil pointers are treated as "not set" and skipped.
type CLIOverrides struct {
	OutputDir   string
	OutputFile  string
	ProjectRoot string
	LogLevel    string

	System     *bool
	Python     *bool
	JavaScript *bool
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted: auto-discover via Locate()
//   - explicit value: use that path ("" means no external file)
//
// An explicit path that cannot be read is an error; a discovered one that
// vanished is skipped.
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "parsing embedded config", err)
		}
	}

	explicit := len(configPath) > 0
	filePath := Locate()
	if explicit {
		filePath = configPath[0]
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig, "parsing config file", err,
					map[string]any{"path": filePath})
			}
		case explicit:
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig, "reading config file", err,
				map[string]any{"path": filePath})
		}
	}

	applyEnvOverrides(cfg)
	applyCLIOverrides(cfg, cli)

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("SF_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if dir := os.Getenv("SF_OUTPUT_DIR"); dir != "" {
		cfg.Output.Directory = dir
	}
	if root := os.Getenv("SF_PROJECT_ROOT"); root != "" {
		cfg.Project.RootDir = root
	}
}

func applyCLIOverrides(cfg *Config, cli CLIOverrides) {
	if cli.OutputDir != "" {
		cfg.Output.Directory = cli.OutputDir
	}
	if cli.OutputFile != "" {
		cfg.Output.Filename = cli.OutputFile
	}
	if cli.ProjectRoot != "" {
		cfg.Project.RootDir = cli.ProjectRoot
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.System != nil {
		cfg.Collectors.System = *cli.System
	}
	if cli.Python != nil {
		cfg.Collectors.Python = *cli.Python
	}
	if cli.JavaScript != nil {
		cfg.Collectors.JavaScript = *cli.JavaScript
	}
}

// Validate checks that the configuration can produce a report. Every
// problem is an INVALID_CONFIG error.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if !validLevels[c.Logging.Level] {
		return errors.New(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown log level %q (want debug, info, warn or error)", c.Logging.Level))
	}
	if strings.TrimSpace(c.Output.Filename) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output filename is required")
	}
	if filepath.Base(c.Output.Filename) != c.Output.Filename {
		return errors.New(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("output filename %q must not contain a directory", c.Output.Filename))
	}
	if c.Probe.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "probe timeout must be positive")
	}
	if c.Probe.Concurrency <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "probe concurrency must be positive")
	}
	return nil
}
