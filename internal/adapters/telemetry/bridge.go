package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/weld/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// StepSink receives the events a Bridge produces. Every ports.Renderer is one; an
// OTelTracer is one that orders them with the span output it forwards.
type StepSink interface {
	OnStepStart(step ports.StepStart)
	OnStepEnd(step ports.StepEnd)
}

// Bridge is a span processor that turns module and step spans into step events.
type Bridge struct {
	sink StepSink
}

// NewBridge returns a Bridge reporting to sink. A nil sink drops every span.
func NewBridge(sink StepSink) *Bridge {
	return &Bridge{sink: sink}
}

// OnStart reports a module or step start with the attributes it was started with.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if b.sink == nil || !sc.IsValid() {
		return
	}

	step := ports.StepStart{
		ID:   sc.SpanID().String(),
		Name: s.Name(),
		Time: s.StartTime(),
	}
	if p := trace.SpanContextFromContext(parent); p.IsValid() {
		step.ParentID = p.SpanID().String()
	}
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case ports.AttrModule:
			step.Module = kv.Value.AsString()
		case ports.AttrSlot:
			step.Slot = int(kv.Value.AsInt64())
		case ports.AttrArch:
			step.Arch = kv.Value.AsString()
		}
	}
	b.sink.OnStepStart(step)
}

// OnEnd reports how a module or step finished. Modules also carry their entry symbol
// and whether the existing object was reused.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if b.sink == nil || !sc.IsValid() {
		return
	}

	step := ports.StepEnd{
		ID:   sc.SpanID().String(),
		Time: s.EndTime(),
	}
	if status := s.Status(); status.Code == codes.Error {
		desc := status.Description
		if desc == "" {
			desc = "step failed"
		}
		step.Err = errors.New(desc)
	}
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case ports.AttrSymbol:
			step.Symbol = kv.Value.AsString()
		case ports.AttrRebuilt:
			step.Reused = kv.Value.Type() == attribute.BOOL && !kv.Value.AsBool()
		}
	}
	b.sink.OnStepEnd(step)
}

// ForceFlush does nothing; events are delivered as spans start and end.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error { return nil }
