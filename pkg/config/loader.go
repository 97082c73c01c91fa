package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	searchName = ".ralph-cpp"
	fileType   = "yaml"
	envPrefix  = "RALPHCPP"
)

// Default returns the settings of a run with no config file and no
// environment overrides.
func Default() *Config {
	return &Config{
		Containers:        []string{},
		UnknownCallPolicy: DefaultUnknownCallPolicy,
		Tables:            TablesConfig{Extra: []string{}},
		Logging:           LoggingConfig{Level: DefaultLoggingLevel, Format: DefaultLoggingFormat},
		Output:            OutputConfig{Indent: DefaultOutputIndent, Suffix: DefaultOutputSuffix},
	}
}

// Load resolves the settings of a run. Values come from the environment
// (RALPHCPP_LOGGING_LEVEL and so on), then the config file, then Default.
// An explicit path must exist; without one .ralph-cpp.yaml is looked up in
// the working directory and $HOME and may be absent.
func Load(path string) (*Config, error) {
	v := newViper(Default())
	if err := readFile(v, path); err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// newViper registers every key of base as a default. Viper only consults
// the environment for keys it knows, so this also enables the overrides.
func newViper(base *Config) *viper.Viper {
	v := viper.New()
	for key, value := range map[string]any{
		"containers":          base.Containers,
		"unknown_call_policy": base.UnknownCallPolicy,
		"tables.stubs":        base.Tables.Stubs,
		"tables.extra":        base.Tables.Extra,
		"logging.level":       base.Logging.Level,
		"logging.format":      base.Logging.Format,
		"output.indent":       base.Output.Indent,
		"output.suffix":       base.Output.Suffix,
	} {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigType(fileType)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(searchName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	var missing viper.ConfigFileNotFoundError
	switch err := v.ReadInConfig(); {
	case err == nil, errors.As(err, &missing):
		return nil
	default:
		return fmt.Errorf("read config: %w", err)
	}
}
