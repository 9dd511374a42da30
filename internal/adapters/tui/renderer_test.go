package tui_test

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/tui"
	"go.trai.ch/weld/internal/core/ports"
)

func TestRenderer_Lifecycle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	model := tui.NewModel(io.Discard)
	r := tui.NewRenderer(&model, tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.NotNil(t, r.Program())

	require.NoError(t, r.Start(t.Context()))

	r.OnPlan([]string{"app/a.rb"}, nil)
	r.OnStepStart(ports.StepStart{ID: "m1", Name: "app/a.rb", Module: "app/a.rb", Slot: 2, Time: t0})
	r.OnStepStart(ports.StepStart{ID: "s1", ParentID: "m1", Name: "compile", Arch: "arm64", Time: t0})
	r.OnStepOutput("s1", []byte("ok\n"))
	r.OnStepEnd(ports.StepEnd{ID: "s1", Time: t0.Add(time.Second)})
	r.OnStepEnd(ports.StepEnd{ID: "m1", Time: t0.Add(time.Second), Symbol: "MREP_app_a_rb"})

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	// Quit is processed after every message sent before it.
	require.Len(t, model.Modules, 1)
	assert.Equal(t, tui.StatusDone, model.Modules[0].Status)
	assert.Equal(t, 2, model.Modules[0].Slot)
	assert.Equal(t, "MREP_app_a_rb", model.Modules[0].Symbol)
}
