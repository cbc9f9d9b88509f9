package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/herald/pkg/errors"
)

// DefaultsTOML returns the embedded defaults file as shipped.
func DefaultsTOML() string {
	return string(defaultConfig)
}

// EffectiveTOML renders cfg as a TOML document, for gen-config output.
func EffectiveTOML(cfg *Config) (string, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration as TOML")
	}
	return string(out), nil
}

// TemplateTOML returns the defaults with every assignment commented out,
// ready to drop into a config directory and edit selectively.
func TemplateTOML() string {
	return commentOutConfigValues(DefaultsTOML())
}

// commentOutConfigValues keeps comments, blank lines, and section headers
// as-is and comments out assignment lines.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			result = append(result, line)
		case strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
