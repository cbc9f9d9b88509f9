package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how the CLI renders its output.
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText based on the output's
	// terminal capabilities.
	FormatAuto Format = iota
	// FormatTerminal renders rich output with colors and styling.
	FormatTerminal
	// FormatText renders plain text without any styling.
	FormatText
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat resolves FormatAuto against the environment and the
// output's terminal capabilities.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// Piped or redirected output gets plain text
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// NewRenderer returns the renderer for a format, resolving FormatAuto
// against stdout.
func NewRenderer(f Format) Renderer {
	if f == FormatAuto {
		f = DetectFormat(os.Stdout)
	}
	if f == FormatTerminal {
		return NewTerminalRenderer()
	}
	return NewPlainRenderer()
}
