package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/compression"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/parser"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/profiling"
)

// Config represents the main configuration
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Parser    ParserConfig     `yaml:"parser"`
	Input     InputConfig      `yaml:"input"`
	Report    ReportConfig     `yaml:"report"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Profiling profiling.Config `yaml:"profiling"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// ParserConfig selects how lines are parsed
type ParserConfig struct {
	Type string `yaml:"type"` // quoted or combined
}

// InputConfig defines how the input log is read
type InputConfig struct {
	Compression string `yaml:"compression,omitempty"` // none, gzip, snappy, auto
}

// ReportConfig defines how the report file is written
type ReportConfig struct {
	Compression string `yaml:"compression,omitempty"` // none, gzip, snappy
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default values
const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
	DefaultParserType  = string(parser.ParserTypeQuoted)
	DefaultCompression = string(compression.None)
)

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified configuration
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Parser.Type == "" {
		c.Parser.Type = DefaultParserType
	}
	if c.Input.Compression == "" {
		c.Input.Compression = DefaultCompression
	}
	if c.Report.Compression == "" {
		c.Report.Compression = DefaultCompression
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "console": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	switch parser.ParserType(c.Parser.Type) {
	case parser.ParserTypeQuoted, parser.ParserTypeCombined:
	default:
		return fmt.Errorf("invalid parser type: %s", c.Parser.Type)
	}

	if _, err := compression.Parse(c.Input.Compression); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	reportCompression, err := compression.Parse(c.Report.Compression)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if reportCompression == compression.Auto {
		return fmt.Errorf("report: compression must be explicit, not auto")
	}

	return nil
}

// InputCompression returns the validated input compression type
func (c *Config) InputCompression() compression.Type {
	t, _ := compression.Parse(c.Input.Compression)
	return t
}

// ReportCompression returns the validated report compression type
func (c *Config) ReportCompression() compression.Type {
	t, _ := compression.Parse(c.Report.Compression)
	return t
}

// ParserSettings returns the configuration for parser.New
func (c *Config) ParserSettings() *parser.ParserConfig {
	return &parser.ParserConfig{Type: parser.ParserType(c.Parser.Type)}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Parser: ParserConfig{
			Type: DefaultParserType,
		},
		Input: InputConfig{
			Compression: DefaultCompression,
		},
		Report: ReportConfig{
			Compression: DefaultCompression,
		},
	}
}
