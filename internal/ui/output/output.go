// Package output builds termenv outputs with the colour rules every weld renderer shares.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/xyproto/env/v2"
)

// noColor reports whether NO_COLOR is set to a non-empty value.
func noColor() bool {
	env.Load()
	return env.Str("NO_COLOR") != ""
}

// ColorProfile returns the profile for the interactive TUI: Ascii under NO_COLOR,
// otherwise whatever the terminal advertises.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the profile for CI logs: Ascii under NO_COLOR, otherwise
// plain ANSI, which every CI log viewer understands.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates a termenv.Output for w using ColorProfile. A nil w means stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile creates a termenv.Output for w with the profile chosen by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}
