package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/weld/internal/adapters/telemetry"
	"go.trai.ch/weld/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated. A build canceled through its context
// is not a renderer failure.
func (r *Renderer) Wait() error {
	err := <-r.errCh
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled)) {
		return nil
	}
	return err
}

// OnPlan resets the module list.
func (r *Renderer) OnPlan(modules []string, deps map[string][]string) {
	r.program.Send(telemetry.MsgPlan{
		Modules:      modules,
		Dependencies: deps,
	})
}

// OnStepStart forwards module and step starts to the TUI.
func (r *Renderer) OnStepStart(step ports.StepStart) {
	r.program.Send(telemetry.MsgStepStart{StepStart: step})
}

// OnStepOutput forwards compiler and backend output to the TUI.
func (r *Renderer) OnStepOutput(id string, data []byte) {
	r.program.Send(telemetry.MsgStepOutput{
		ID:   id,
		Data: data,
	})
}

// OnStepEnd forwards module and step completion to the TUI.
func (r *Renderer) OnStepEnd(step ports.StepEnd) {
	r.program.Send(telemetry.MsgStepEnd{StepEnd: step})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
