// Package system provides infrastructure for system-level configuration
// (~/.esmf/config.yaml): output defaults, validation limits and unit
// catalog overrides.
package system

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config represents the global configuration file (~/.esmf/config.yaml).
// It is separate from aspect model documents.
type Config struct {
	Output        OutputConfig     `yaml:"output"`
	Validation    ValidationConfig `yaml:"validation"`
	Units         UnitsConfig      `yaml:"units"`
	Redaction     RedactionConfig  `yaml:"redaction"`
	DefaultLocale string           `yaml:"default_locale"`
}

// RedactionConfig controls scrubbing of instance values echoed in reports.
type RedactionConfig struct {
	// Patterns are extra regular expressions whose matches are redacted.
	Patterns []string `yaml:"patterns"`
	// Paths are instance paths whose values are always redacted.
	Paths           []string       `yaml:"paths"`
	HashMode        HashModeConfig `yaml:"hash_mode"`
	DisableGitleaks bool           `yaml:"disable_gitleaks"`
}

// HashModeConfig replaces redacted values with a salted hash.
type HashModeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Salt    string `yaml:"salt"`
}

// OutputConfig sets report output defaults.
type OutputConfig struct {
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ValidationConfig bounds validation sessions.
type ValidationConfig struct {
	// Timeout is the outer budget around one run, e.g. "30s".
	Timeout             string `yaml:"timeout"`
	MaxConcurrency      int    `yaml:"max_concurrency"`
	MaxExpressionLength int    `yaml:"max_expression_length"`
	MaxExpressionNodes  uint   `yaml:"max_expression_nodes"`
	Parallel            bool   `yaml:"parallel"`
}

// UnitsConfig adds to or replaces the built-in unit catalog.
type UnitsConfig struct {
	// Catalog is a YAML unit catalog that replaces the embedded one.
	Catalog string `yaml:"catalog"`
	// Symbols maps unit names or URNs to symbols, overriding the catalog.
	Symbols map[string]string `yaml:"symbols"`
}

// Defaults.
const (
	DefaultOutputFormat   = "table"
	DefaultTimeout        = 2 * time.Minute
	DefaultMaxConcurrency = 4
	DefaultLocale         = "en"
)

// TimeoutDuration parses the configured timeout, falling back to DefaultTimeout.
func (v ValidationConfig) TimeoutDuration() (time.Duration, error) {
	if v.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(v.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid validation timeout %q: %w", v.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("validation timeout must be positive, got %s", d)
	}
	return d, nil
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: DefaultOutputFormat},
		Validation: ValidationConfig{
			MaxConcurrency: DefaultMaxConcurrency,
		},
		Units:         UnitsConfig{Symbols: map[string]string{}},
		DefaultLocale: DefaultLocale,
	}
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig().
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}
	if _, err := config.Validation.TimeoutDuration(); err != nil {
		return nil, err
	}
	return config, nil
}
