package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/herald/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const envPrefix = "HERALD_"

// rawBytesProvider implements koanf's provider interface for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrNotImplemented, "rawBytesProvider delivers bytes only")
}

// Load builds the effective configuration: embedded defaults, then the
// first config file found, then HERALD_* environment variables.
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides loads like Load and applies overrides as the highest
// layer. The CLI pushes flag values through here so that flags beat both
// files and the environment.
func LoadWithOverrides(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. First config file found
	if path, parser := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Programmatic overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshalConfig(k)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDefaultsOnly parses just the embedded defaults.
func loadDefaultsOnly() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}
	return unmarshalConfig(k)
}

func unmarshalConfig(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapToBoolMapHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// findConfigFile returns the first config file present: working directory
// first, then the XDG config home. TOML and YAML are both accepted.
func findConfigFile() (string, koanf.Parser) {
	candidates := []struct {
		path   string
		parser koanf.Parser
	}{
		{"herald.toml", toml.Parser()},
		{"herald.yaml", yaml.Parser()},
		{filepath.Join(xdg.ConfigHome, "herald", "herald.toml"), toml.Parser()},
		{filepath.Join(xdg.ConfigHome, "herald", "herald.yaml"), yaml.Parser()},
	}

	for _, c := range candidates {
		if _, err := os.Stat(c.path); err == nil {
			return c.path, c.parser
		}
	}
	return "", nil
}

// ConfigFilePath returns the preferred location for a user config file,
// used by gen-config -w.
func ConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, "herald", "herald.toml")
}

// envTransform maps HERALD_TRACING__SAMPLE_RATE to tracing.sample_rate.
// A double underscore separates sections so that single underscores
// survive inside key names.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// mapToBoolMapHookFunc decodes loosely-typed maps into map[string]bool
// fields such as demo.services.
func mapToBoolMapHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.Map && t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Bool {
			if m, ok := data.(map[string]interface{}); ok {
				newMap := make(map[string]bool)
				for k, v := range m {
					if b, ok := v.(bool); ok {
						newMap[k] = b
					}
				}
				return newMap, nil
			}
		}
		return data, nil
	}
}
