// Package detector picks the progress renderer for the current terminal.
package detector

import (
	"os"

	"github.com/xyproto/env/v2"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode for the process.
// Anything other than an interactive terminal outside CI gets linear output.
func DetectEnvironment() OutputMode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())))
}

func detect(isTTY bool) OutputMode {
	env.Load()
	if !isTTY || env.Bool("CI") || env.Str("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

// ParseMode parses the --output flag. Accepted values are auto, tui, linear and ci.
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(domain.ErrInvalidOutputMode, "unknown output mode"), "output", flag)
	}
}

// ResolveMode applies an explicit mode over the detected one.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
