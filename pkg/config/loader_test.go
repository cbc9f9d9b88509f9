package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/herald/pkg/errors"
)

// isolate points the working directory and XDG config home at fresh temp
// directories so tests never see a developer's real config.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Cleanup(func() { xdg.Reload() })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Verbosity)
	assert.Empty(t, cfg.Demo.Scenario)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "file", cfg.Tracing.Exporter)
	assert.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.Equal(t, "herald", cfg.Tracing.ServiceName)

	// The shipped service toggles are all on.
	assert.True(t, cfg.ServiceEnabled("database"))
	assert.True(t, cfg.ServiceEnabled("analytics"))
}

func TestLoadFromTOMLFile(t *testing.T) {
	dir := isolate(t)

	content := `
verbosity = 2

[demo]
scenario = "launch.yaml"

[demo.services]
mailer = false

[tracing]
enabled = true
exporter = "stdout"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "herald.toml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "launch.yaml", cfg.Demo.Scenario)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)

	// File keys merge over defaults key by key.
	assert.False(t, cfg.ServiceEnabled("mailer"))
	assert.True(t, cfg.ServiceEnabled("database"))
	assert.Equal(t, "herald", cfg.Tracing.ServiceName, "untouched defaults survive the merge")
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := isolate(t)

	content := `
verbosity: 1
demo:
  scenario: flows/signin.yaml
tracing:
  enabled: true
  exporter: none
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "herald.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Verbosity)
	assert.Equal(t, "flows/signin.yaml", cfg.Demo.Scenario)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestWorkingDirectoryBeatsXDG(t *testing.T) {
	dir := isolate(t)

	xdgDir := filepath.Join(dir, "xdg", "herald")
	require.NoError(t, os.MkdirAll(xdgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdgDir, "herald.toml"),
		[]byte("verbosity = 3\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "herald.toml"),
		[]byte("verbosity = 1\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Verbosity)
}

func TestXDGConfigUsedWhenNoLocalFile(t *testing.T) {
	dir := isolate(t)

	xdgDir := filepath.Join(dir, "xdg", "herald")
	require.NoError(t, os.MkdirAll(xdgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdgDir, "herald.toml"),
		[]byte("verbosity = 3\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Verbosity)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "herald.toml"),
		[]byte("verbosity = 1\n"), 0644))
	t.Setenv("HERALD_VERBOSITY", "3")
	t.Setenv("HERALD_TRACING__SERVICE_NAME", "herald-ci")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Verbosity)
	assert.Equal(t, "herald-ci", cfg.Tracing.ServiceName,
		"double underscore separates sections, single underscores stay in the key")
}

func TestOverridesBeatEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("HERALD_VERBOSITY", "1")

	cfg, err := LoadWithOverrides(map[string]interface{}{
		"verbosity":       2,
		"tracing.enabled": true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Verbosity)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "herald.toml"),
		[]byte("verbosity = [broken\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), "got %v", err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{"unknown exporter", map[string]interface{}{"tracing.exporter": "kafka"}},
		{"negative sample rate", map[string]interface{}{"tracing.sample_rate": -0.5}},
		{"sample rate above one", map[string]interface{}{"tracing.sample_rate": 1.5}},
		{"negative verbosity", map[string]interface{}{"verbosity": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := LoadWithOverrides(tt.overrides)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HERALD_VERBOSITY", "verbosity"},
		{"HERALD_DEMO__SCENARIO", "demo.scenario"},
		{"HERALD_TRACING__ENABLED", "tracing.enabled"},
		{"HERALD_TRACING__SAMPLE_RATE", "tracing.sample_rate"},
		{"HERALD_TRACING__OTLP_ENDPOINT", "tracing.otlp_endpoint"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestServiceEnabled(t *testing.T) {
	cfg := &Config{Demo: Demo{Services: map[string]bool{
		"database": true,
		"mailer":   false,
	}}}

	assert.True(t, cfg.ServiceEnabled("database"))
	assert.False(t, cfg.ServiceEnabled("mailer"))
	assert.True(t, cfg.ServiceEnabled("never-listed"))

	empty := &Config{}
	assert.True(t, empty.ServiceEnabled("anything"))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, 0, cfg.Verbosity)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "file", cfg.Tracing.Exporter)
	assert.True(t, cfg.ServiceEnabled("audit"))
}
