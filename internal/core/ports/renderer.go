package ports

import (
	"context"
	"time"
)

// StepStart describes a module, or one step of a module, as it begins.
type StepStart struct {
	ID string
	// ParentID is empty for a module.
	ParentID string
	Name     string
	// Module is the source path. It is only set on modules.
	Module string
	Slot   int
	// Arch is set on the per-architecture steps.
	Arch string
	Time time.Time
}

// StepEnd describes how a module or step finished.
type StepEnd struct {
	ID   string
	Time time.Time
	Err  error
	// Symbol is the module's entry symbol.
	Symbol string
	// Reused is set when a module's existing object was up to date.
	Reused bool
}

// Renderer is the abstraction for build progress output.
// The same event stream drives either the interactive TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer. Asynchronous renderers may launch goroutines here.
	Start(ctx context.Context) error

	// Stop stops accepting events and flushes buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlan is called once the module list is known.
	// modules are listed in build order; deps maps a module to the modules it loads after.
	OnPlan(modules []string, deps map[string][]string)

	// OnStepStart is called when a module or one of its steps begins.
	OnStepStart(step StepStart)

	// OnStepOutput is called when a step emits output. data may hold partial lines.
	OnStepOutput(id string, data []byte)

	// OnStepEnd is called when a module or step finishes. step.Err is nil on success.
	OnStepEnd(step StepEnd)
}
