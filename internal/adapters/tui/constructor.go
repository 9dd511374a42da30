// Package tui provides the interactive terminal view of a build.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/weld/internal/ui/output"
)

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Modules:    make([]*Node, 0),
		ModuleMap:  make(map[string]*Node),
		StepMap:    make(map[string]*Node),
		FlatList:   make([]*Node, 0),
		Output:     out,
		AutoScroll: true,
		FollowMode: true,
	}
}
