package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/histctl/internal/engine/history"
	"github.com/dshills/histctl/internal/signal"
)

// TracerName identifies spans emitted by TracedHistory.
const TracerName = "github.com/dshills/histctl/internal/engine/history"

// Span names, one per mutating operation.
const (
	SpanSnapshot = "history.snapshot"
	SpanUndo     = "history.undo"
	SpanRedo     = "history.redo"
	SpanClear    = "history.clear"
)

// Span attribute keys.
const (
	AttrUndoCount = attribute.Key("history.undo_count")
	AttrRedoCount = attribute.Key("history.redo_count")
	AttrFailedOp  = attribute.Key("history.failed_op")
)

// TracedHistory wraps a history and records a span for each mutating
// operation. Capability signals are forwarded unchanged.
type TracedHistory struct {
	inner  history.History
	tracer trace.Tracer
	ctx    context.Context
}

// TracedOption configures a TracedHistory.
type TracedOption func(*TracedHistory)

// WithTracerProvider sets the provider spans are created from. Defaults
// to the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracedOption {
	return func(t *TracedHistory) {
		if tp != nil {
			t.tracer = tp.Tracer(TracerName)
		}
	}
}

// WithParentContext sets the context spans are started under.
func WithParentContext(ctx context.Context) TracedOption {
	return func(t *TracedHistory) {
		if ctx != nil {
			t.ctx = ctx
		}
	}
}

// NewTracedHistory decorates inner with tracing.
func NewTracedHistory(inner history.History, opts ...TracedOption) *TracedHistory {
	t := &TracedHistory{
		inner: inner,
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(TracerName)
	}
	return t
}

// Unwrap returns the decorated history.
func (t *TracedHistory) Unwrap() history.History {
	return t.inner
}

// CanUndo forwards the inner history's signal.
func (t *TracedHistory) CanUndo() signal.Observable[bool] { return t.inner.CanUndo() }

// CanRedo forwards the inner history's signal.
func (t *TracedHistory) CanRedo() signal.Observable[bool] { return t.inner.CanRedo() }

// CanClear forwards the inner history's signal.
func (t *TracedHistory) CanClear() signal.Observable[bool] { return t.inner.CanClear() }

// CanSnapshot forwards the inner history's signal.
func (t *TracedHistory) CanSnapshot() signal.Observable[bool] { return t.inner.CanSnapshot() }

// Snapshot records an action pair inside a history.snapshot span.
func (t *TracedHistory) Snapshot(undo, redo func()) error {
	return t.record(SpanSnapshot, "snapshot", func() error { return t.inner.Snapshot(undo, redo) })
}

// Undo runs the inner Undo inside a history.undo span.
func (t *TracedHistory) Undo() error {
	return t.record(SpanUndo, "undo", t.inner.Undo)
}

// Redo runs the inner Redo inside a history.redo span.
func (t *TracedHistory) Redo() error {
	return t.record(SpanRedo, "redo", t.inner.Redo)
}

// Clear runs the inner Clear inside a history.clear span.
func (t *TracedHistory) Clear() error {
	return t.record(SpanClear, "clear", t.inner.Clear)
}

// UndoCount returns the inner history's undo size, or 0 if it does not
// report sizes.
func (t *TracedHistory) UndoCount() int {
	if c, ok := t.inner.(history.Counter); ok {
		return c.UndoCount()
	}
	return 0
}

// RedoCount returns the inner history's redo size, or 0 if it does not
// report sizes.
func (t *TracedHistory) RedoCount() int {
	if c, ok := t.inner.(history.Counter); ok {
		return c.RedoCount()
	}
	return 0
}

// OnDiscard registers fn with the inner history when it reports discarded
// entries. Otherwise fn is never called.
func (t *TracedHistory) OnDiscard(fn func(*history.Entry)) (cancel func()) {
	if d, ok := t.inner.(history.Discarder); ok {
		return d.OnDiscard(fn)
	}
	return func() {}
}

// PeekUndo returns the inner history's newest undo entry, or nil.
func (t *TracedHistory) PeekUndo() *history.Entry {
	if p, ok := t.inner.(history.Peeker); ok {
		return p.PeekUndo()
	}
	return nil
}

// record runs fn inside a span. Errors come back as *history.OperationError
// naming op. A panic from fn marks the span as failed and is re-raised.
func (t *TracedHistory) record(name, op string, fn func() error) error {
	_, span := t.tracer.Start(t.ctx, name)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			t.setCounts(span)
			panic(r)
		}
	}()

	err := fn()
	if err != nil {
		var opErr *history.OperationError
		if !errors.As(err, &opErr) {
			opErr = &history.OperationError{Op: op, Err: err}
			err = opErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(AttrFailedOp.String(opErr.Op))
	}
	t.setCounts(span)
	return err
}

func (t *TracedHistory) setCounts(span trace.Span) {
	if c, ok := t.inner.(history.Counter); ok {
		span.SetAttributes(
			AttrUndoCount.Int(c.UndoCount()),
			AttrRedoCount.Int(c.RedoCount()),
		)
	}
}
