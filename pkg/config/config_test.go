package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ralph-cpp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, convpack.FavorScalar, policy)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	assert.Equal(t, DefaultOutputIndent, cfg.Output.Indent)
	assert.Equal(t, DefaultOutputSuffix, cfg.Output.Suffix)
	assert.False(t, cfg.Tables.Stubs)
	assert.Nil(t, cfg.ContainerPrefixes())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
containers: ["std::vector", "AccessorDataPointer"]
unknown_call_policy: favor_container
tables:
  stubs: true
  extra: [local.yaml]
logging:
  level: debug
  format: json
output:
  indent: "  "
  suffix: .cpp
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"std::vector", "AccessorDataPointer"}, cfg.ContainerPrefixes())
	policy, _ := cfg.Policy()
	assert.Equal(t, convpack.FavorContainer, policy)
	assert.True(t, cfg.Tables.Stubs)
	assert.Equal(t, []string{"local.yaml"}, cfg.Tables.Extra)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, ".cpp", cfg.Output.Suffix)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv("RALPHCPP_LOGGING_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	level, _ := cfg.LogLevel()
	assert.Equal(t, slog.LevelError, level)
}

func TestMissingSearchedConfigUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultUnknownCallPolicy, cfg.UnknownCallPolicy)
}

func TestLoadWithoutSourcesEqualsDefault(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.UnknownCallPolicy, cfg.UnknownCallPolicy)
	assert.Equal(t, want.Logging, cfg.Logging)
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, want.Tables.Stubs, cfg.Tables.Stubs)
	assert.Empty(t, cfg.Tables.Extra)
	assert.Empty(t, cfg.Containers)
}

func TestDefaultIsFreshEachCall(t *testing.T) {
	a := Default()
	a.Output.Indent = "\t"
	a.Containers = append(a.Containers, "std::vector")
	b := Default()
	assert.Equal(t, DefaultOutputIndent, b.Output.Indent)
	assert.Empty(t, b.Containers)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"policy", func(c *Config) { c.UnknownCallPolicy = "guess" }, ErrInvalidPolicy},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLoggingLevel},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLoggingFormat},
		{"indent", func(c *Config) { c.Output.Indent = "--" }, ErrInvalidIndent},
		{"empty indent", func(c *Config) { c.Output.Indent = "" }, ErrInvalidIndent},
		{"suffix", func(c *Config) { c.Output.Suffix = "cc" }, ErrInvalidSuffix},
		{"container", func(c *Config) { c.Containers = []string{"std::string", " "} }, ErrInvalidContainer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}

	cfg := Default()
	cfg.Output.Indent = "\t"
	assert.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the rest of the test and
// restores it on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
