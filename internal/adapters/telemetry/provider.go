package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/weld/internal/core/ports"
)

// LogBufferSize determines the size of the async log channel.
const LogBufferSize = 4096

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ StepSink     = (*OTelTracer)(nil)
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// Plans, step events and span output are forwarded to the renderer from a single
// goroutine, so the renderer sees them in the order they were produced. Install a
// Bridge reporting to the tracer to get step events into that order.
type OTelTracer struct {
	// name selects the tracer of the global provider current at each Start, so a
	// provider installed after the tracer was created still receives its spans.
	name    string
	logChan chan any
	done    chan struct{}

	// mu guards closed and is held for reading while a message is queued.
	mu     sync.RWMutex
	closed bool

	rmu      sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	t := &OTelTracer{
		name:    name,
		logChan: make(chan any, LogBufferSize), // Buffered to handle bursts
		done:    make(chan struct{}),
	}
	go t.runLoop()
	return t
}

func (t *OTelTracer) runLoop() {
	defer close(t.done)
	for msg := range t.logChan {
		r := t.currentRenderer()
		if r == nil {
			continue
		}

		switch m := msg.(type) {
		case MsgStepStart:
			r.OnStepStart(m.StepStart)
		case MsgStepOutput:
			r.OnStepOutput(m.ID, m.Data)
		case MsgStepEnd:
			r.OnStepEnd(m.StepEnd)
		case MsgPlan:
			r.OnPlan(m.Modules, m.Dependencies)
		}
	}
}

// WithRenderer sets the renderer span output and plans are sent to.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.rmu.Lock()
	defer t.rmu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.rmu.RLock()
	defer t.rmu.RUnlock()
	return t.renderer
}

// OnStepStart queues a step start behind everything sent before it.
func (t *OTelTracer) OnStepStart(step ports.StepStart) {
	t.send(MsgStepStart{StepStart: step}, true)
}

// OnStepEnd queues a step end behind the step's last output.
func (t *OTelTracer) OnStepEnd(step ports.StepEnd) {
	t.send(MsgStepEnd{StepEnd: step}, true)
}

// Shutdown stops the background forwarder after everything queued so far was delivered.
// It is safe to call more than once.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.logChan)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start creates a new span. Attributes given as options are part of the span from its
// start, so span processors see them in OnStart.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	attrs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		attrs = append(attrs, toAttribute(k, v))
	}

	ctx, span := otel.Tracer(t.name).Start(ctx, name, trace.WithAttributes(attrs...))
	s := &OTelSpan{span: span}

	if t.currentRenderer() != nil {
		spanID := span.SpanContext().SpanID().String()
		s.batcher = NewBatchProcessor(0, 0, func(data []byte) {
			t.send(MsgStepOutput{ID: spanID, Data: data}, false)
		})
	}

	return ctx, s
}

// EmitPlan signals that a set of modules is planned for compilation by adding an event
// to the current span and resetting the renderer's module list.
func (t *OTelTracer) EmitPlan(ctx context.Context, moduleNames []string, deps map[string][]string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("modules", moduleNames),
		))
	}

	// The plan initializes the UI, so it is never dropped.
	t.send(MsgPlan{Modules: moduleNames, Dependencies: deps}, true)
}

// send queues msg for the renderer. Output chunks are dropped when the buffer is full
// so a slow renderer never blocks the build; plans and step events never are.
func (t *OTelTracer) send(msg any, block bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed || t.currentRenderer() == nil {
		return
	}

	if block {
		t.logChan <- msg
		return
	}
	select {
	case t.logChan <- msg:
	default:
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *BatchProcessor
}

// End completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// toAttribute keeps numbers, booleans and string slices typed. Anything else is
// recorded as its string form.
func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

// Write satisfies io.Writer by adding a log event to the span or writing to the batcher.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
