package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/adapters/linear"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

var start = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func module(id, name string, slot int) ports.StepStart {
	return ports.StepStart{ID: id, Name: name, Module: "/p/" + name, Slot: slot, Time: start}
}

func step(id, parent, name, arch string, at time.Time) ports.StepStart {
	return ports.StepStart{ID: id, ParentID: parent, Name: name, Arch: arch, Time: at}
}

func end(id string, after time.Duration) ports.StepEnd {
	return ports.StepEnd{ID: id, Time: start.Add(after)}
}

func TestRenderer_Build(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(t.Context()))

	r.OnPlan([]string{"app/a.rb", "app/b.rb"}, map[string][]string{"app/b.rb": {"app/a.rb"}})

	r.OnStepStart(module("m1", "app/a.rb", 0))
	r.OnStepStart(step("s1", "m1", "compile", "arm64", start))
	r.OnStepOutput("s1", []byte("warning: unused variable\n"))
	r.OnStepEnd(end("s1", 300*time.Millisecond))
	r.OnStepStart(step("s2", "m1", "merge", "", start.Add(300*time.Millisecond)))
	r.OnStepEnd(end("s2", 400*time.Millisecond))
	compiled := end("m1", 400*time.Millisecond)
	compiled.Symbol = "MREP_app_a_rb"
	r.OnStepEnd(compiled)

	r.OnStepStart(module("m2", "app/b.rb", 1))
	reused := end("m2", 2*time.Millisecond)
	reused.Symbol = "MREP_app_b_rb"
	reused.Reused = true
	r.OnStepEnd(reused)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	g := goldie.New(t)
	g.Assert(t, "build_stderr", stderr.Bytes())
	assert.Equal(t, "[app/a.rb compile arm64] warning: unused variable\n", stdout.String())
}

func TestRenderer_StepFailure(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnStepStart(module("m1", "app/a.rb", 0))
	r.OnStepStart(step("s1", "m1", "assemble", "x86_64", start))
	failedStep := end("s1", time.Second)
	failedStep.Err = zerr.New("native backend failed")
	r.OnStepEnd(failedStep)
	failedModule := end("m1", time.Second)
	failedModule.Err = zerr.New("module build failed")
	r.OnStepEnd(failedModule)

	assert.Contains(t, stderr.String(), "[app/a.rb assemble x86_64] ✗ Failed after 1s: native backend failed\n")
	assert.Contains(t, stderr.String(), "[app/a.rb] ✗ Failed after 1s: module build failed\n")
}

func TestRenderer_CompiledWithoutSymbol(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnStepStart(module("m1", "app/a.rb", 2))
	r.OnStepEnd(end("m1", 5*time.Millisecond))

	assert.Equal(t, "[app/a.rb] Starting on slot 2...\n[app/a.rb] ✓ Compiled in 5ms\n", stderr.String())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnStepStart(module("m1", "app/a.rb", 0))
	r.OnStepOutput("m1", []byte("first "))
	assert.Empty(t, stdout.String())

	r.OnStepOutput("m1", []byte("line\nsecond"))
	assert.Equal(t, "[app/a.rb] first line\n", stdout.String())

	r.OnStepEnd(end("m1", 0))
	assert.Equal(t, "[app/a.rb] first line\n[app/a.rb] second\n", stdout.String())
}

func TestRenderer_StopFlushesOpenSpans(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnStepStart(module("m1", "app/a.rb", 0))
	r.OnStepOutput("m1", []byte("no newline"))
	require.NoError(t, r.Stop())

	assert.Equal(t, "[app/a.rb] no newline\n", stdout.String())
}

func TestRenderer_UnknownStep(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnStepOutput("nope", []byte("data\n"))
	r.OnStepEnd(end("nope", 0))

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestNewRenderer_NilWriters(t *testing.T) {
	assert.NotNil(t, linear.NewRenderer(nil, nil))
}
