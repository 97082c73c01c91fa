// Package config holds the settings of a conversion run.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Containers        []string      `mapstructure:"containers"`
	UnknownCallPolicy string        `mapstructure:"unknown_call_policy"`
	Tables            TablesConfig  `mapstructure:"tables"`
	Logging           LoggingConfig `mapstructure:"logging"`
	Output            OutputConfig  `mapstructure:"output"`
}

// TablesConfig selects the signature tables loaded for a run.
type TablesConfig struct {
	Stubs bool     `mapstructure:"stubs"`
	Extra []string `mapstructure:"extra"`
}

// LoggingConfig configures the conversion log.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig configures the written C++ source.
type OutputConfig struct {
	Indent string `mapstructure:"indent"`
	Suffix string `mapstructure:"suffix"`
}

// Defaults.
const (
	DefaultUnknownCallPolicy = "favor_scalar"
	DefaultLoggingLevel      = "warn"
	DefaultLoggingFormat     = "text"
	DefaultOutputIndent      = "    "
	DefaultOutputSuffix      = ".cc"
)

// Sentinel errors for configuration validation.
var (
	ErrInvalidPolicy        = errors.New("unknown_call_policy must be favor_scalar or favor_container")
	ErrInvalidLoggingLevel  = errors.New("logging.level must be debug, info, warn or error")
	ErrInvalidLoggingFormat = errors.New("logging.format must be text or json")
	ErrInvalidIndent        = errors.New("output.indent must be spaces or a tab")
	ErrInvalidSuffix        = errors.New("output.suffix must start with a dot")
	ErrInvalidContainer     = errors.New("containers must not contain empty prefixes")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%q: %w", c.Logging.Format, ErrInvalidLoggingFormat)
	}
	if c.Output.Indent == "" || (strings.Trim(c.Output.Indent, " ") != "" && c.Output.Indent != "\t") {
		return fmt.Errorf("%q: %w", c.Output.Indent, ErrInvalidIndent)
	}
	if !strings.HasPrefix(c.Output.Suffix, ".") {
		return fmt.Errorf("%q: %w", c.Output.Suffix, ErrInvalidSuffix)
	}
	for _, p := range c.Containers {
		if strings.TrimSpace(p) == "" {
			return ErrInvalidContainer
		}
	}
	return nil
}

// Policy returns the parsed unknown-call policy.
func (c *Config) Policy() (convpack.UnknownCallPolicy, error) {
	p, err := convpack.ParseUnknownCallPolicy(c.UnknownCallPolicy)
	if err != nil {
		return p, fmt.Errorf("%q: %w", c.UnknownCallPolicy, ErrInvalidPolicy)
	}
	return p, nil
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return level, fmt.Errorf("%q: %w", c.Logging.Level, ErrInvalidLoggingLevel)
	}
	return level, nil
}

// ContainerPrefixes returns the configured container prefixes, or nil to
// keep the built-in set.
func (c *Config) ContainerPrefixes() []string {
	if len(c.Containers) == 0 {
		return nil
	}
	return c.Containers
}
