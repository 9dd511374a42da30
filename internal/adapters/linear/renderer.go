// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/ui/output"
	"go.trai.ch/weld/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It prints chronological lines prefixed with the module they belong to.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu    sync.Mutex
	spans map[string]*spanState
}

type spanState struct {
	prefix    string
	startTime time.Time
	step      bool
	buf       bytes.Buffer
}

// NewRenderer creates a new linear Renderer.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		spans:  make(map[string]*spanState),
	}
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining partial lines.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.spans {
		r.flushLocked(s)
	}
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlan prints how many modules the build covers.
func (r *Renderer) OnPlan(modules []string, _ map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Compiling %d module(s)\n", len(modules))
}

// OnStepStart registers a module or step. Only modules announce themselves;
// steps share the module prefix with the step name appended.
func (r *Renderer) OnStepStart(step ports.StepStart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &spanState{prefix: "[" + step.Name + "]", startTime: step.Time}
	if parent, ok := r.spans[step.ParentID]; ok && step.ParentID != "" {
		label := step.Name
		if step.Arch != "" {
			label += " " + step.Arch
		}
		s.step = true
		s.prefix = parent.prefix[:len(parent.prefix)-1] + " " + label + "]"
	} else {
		prefix := r.output.String(s.prefix).Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s Starting on slot %d...\n", prefix, step.Slot)
	}
	r.spans[step.ID] = s
}

// OnStepOutput buffers output and prints complete lines with the step prefix.
func (r *Renderer) OnStepOutput(id string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[id]
	if !ok {
		return
	}

	s.buf.Write(data)
	for {
		i := bytes.IndexByte(s.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := s.buf.Next(i + 1)
		r.printLineLocked(s.prefix, line)
	}
}

// OnStepEnd flushes remaining output and prints the outcome. Steps only report failures;
// modules report their entry symbol.
func (r *Renderer) OnStepEnd(step ports.StepEnd) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[step.ID]
	if !ok {
		return
	}
	r.flushLocked(s)
	delete(r.spans, step.ID)

	duration := step.Time.Sub(s.startTime).Round(time.Millisecond)
	switch {
	case step.Err != nil:
		icon := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", s.prefix, icon, duration, step.Err)
	case s.step:
	case step.Reused:
		icon := r.output.String(style.Tilde).Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date%s\n", s.prefix, icon, symbolSuffix(step.Symbol))
	default:
		icon := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Compiled in %v%s\n", s.prefix, icon, duration, symbolSuffix(step.Symbol))
	}
}

func symbolSuffix(symbol string) string {
	if symbol == "" {
		return ""
	}
	return " (" + symbol + ")"
}

// flushLocked prints a trailing partial line. Must be called with r.mu held.
func (r *Renderer) flushLocked(s *spanState) {
	if s.buf.Len() > 0 {
		r.printLineLocked(s.prefix, s.buf.Bytes())
		s.buf.Reset()
	}
}

// printLineLocked prints a line with the span prefix. Must be called with r.mu held.
func (r *Renderer) printLineLocked(prefix string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, line)
}
