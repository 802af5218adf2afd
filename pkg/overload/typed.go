// Package overload builds functions that dispatch on the runtime types of
// their arguments.
//
//	t := overload.New()
//	area, err := t.Define("area", overload.Signatures{
//		overload.Sig("number", overload.Fn(square)),
//		overload.Sig("number, number", overload.Fn(rect)),
//	})
//	out, err := area.Call(3)
package overload

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/funvibe/overload/internal/dispatch"
	"github.com/funvibe/overload/internal/tracing"
	"github.com/funvibe/overload/internal/typesystem"
)

// Typed owns a type registry and builds dispatchers against it.
// Like the registry, it must not be mutated while a build is in progress.
type Typed struct {
	reg        *typesystem.Registry
	tracer     trace.Tracer
	onMismatch MismatchHandler
}

// Option configures a Typed instance.
type Option func(*Typed)

// WithTracer records a span for every Define and Merge.
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Typed) { t.tracer = tracer }
}

// WithOnMismatch installs a handler for calls no signature accepts.
func WithOnMismatch(h MismatchHandler) Option {
	return func(t *Typed) { t.onMismatch = h }
}

// New creates an instance with the default types and no conversions.
func New(opts ...Option) *Typed {
	t := &Typed{
		reg:    typesystem.NewRegistry(),
		tracer: tracing.Noop().Tracer(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create returns a fresh default instance with the same options.
func (t *Typed) Create() *Typed {
	return &Typed{reg: typesystem.NewRegistry(), tracer: t.tracer, onMismatch: t.onMismatch}
}

// Clone returns an independent copy including types and conversions.
// Dispatchers of t are not dispatchers of the clone.
func (t *Typed) Clone() *Typed {
	return &Typed{reg: t.reg.Clone(), tracer: t.tracer, onMismatch: t.onMismatch}
}

// Registry exposes the underlying registry.
func (t *Typed) Registry() *typesystem.Registry { return t.reg }

// Tracer returns the tracer Define and Merge record spans with.
func (t *Typed) Tracer() trace.Tracer { return t.tracer }

// Conversions lists the registered conversions in insertion order.
func (t *Typed) Conversions() []Conversion { return t.reg.Conversions() }

func (t *Typed) options() dispatch.Options {
	return dispatch.Options{OnMismatch: t.onMismatch}
}

// Define builds a dispatcher from signatures. An empty name is reported as
// "unnamed" in errors.
func (t *Typed) Define(name string, sigs Signatures) (*Dispatcher, error) {
	_, span := t.tracer.Start(context.Background(), tracing.SpanDefine, trace.WithAttributes(
		attribute.String(tracing.AttrFunction, name),
		attribute.Int(tracing.AttrSignatures, len(sigs)),
		attribute.String(tracing.AttrRegistryID, t.reg.ID().String()),
	))
	defer span.End()

	d, err := dispatch.Build(t.reg, name, sigs, t.options())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(tracing.AttrCandidates, len(d.Candidates())))
	return d, nil
}

// Merge unions dispatchers and signature sets into a new dispatcher. With an
// empty name the sources' names must agree.
func (t *Typed) Merge(name string, sources ...Source) (*Dispatcher, error) {
	_, span := t.tracer.Start(context.Background(), tracing.SpanMerge, trace.WithAttributes(
		attribute.String(tracing.AttrFunction, name),
		attribute.Int(tracing.AttrSources, len(sources)),
		attribute.String(tracing.AttrRegistryID, t.reg.ID().String()),
	))
	defer span.End()

	d, err := dispatch.MergeBuild(t.reg, name, t.options(), sources...)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrFunction, d.Name()),
		attribute.Int(tracing.AttrCandidates, len(d.Candidates())),
	)
	return d, nil
}

// AddType inserts a type ahead of Object.
func (t *Typed) AddType(typ Type) error { return t.reg.AddType(typ, true) }

// AddTypes inserts types before the named type; empty means before any.
func (t *Typed) AddTypes(types []Type, before string) error { return t.reg.AddTypes(types, before) }

// AddConversion registers a conversion. With override an existing conversion
// for the same pair is replaced in place.
func (t *Typed) AddConversion(c Conversion, override bool) error {
	return t.reg.AddConversion(c, override)
}

// AddConversions registers conversions in order.
func (t *Typed) AddConversions(cs []Conversion, override bool) error {
	return t.reg.AddConversions(cs, override)
}

// RemoveConversion removes the conversion matching c's pair and converter.
func (t *Typed) RemoveConversion(c Conversion) error { return t.reg.RemoveConversion(c) }

// Clear removes every type except any, and every conversion.
func (t *Typed) Clear() { t.reg.Clear() }

// ClearConversions removes every conversion.
func (t *Typed) ClearConversions() { t.reg.ClearConversions() }

// Convert converts v to the named type.
func (t *Typed) Convert(v any, to string) (any, error) { return t.reg.Convert(v, to) }

// TypeNames lists the registered types in order.
func (t *Typed) TypeNames() []string { return t.reg.TypeNames() }

// TypeNamesOf lists the types accepting v.
func (t *Typed) TypeNamesOf(v any) []string { return t.reg.TypeNamesOf(v) }

// IsDispatcher reports whether v is a dispatcher built by this instance.
func (t *Typed) IsDispatcher(v any) bool {
	d, ok := v.(*Dispatcher)
	return ok && d.IsDispatcherOf(t.reg)
}

func (t *Typed) own(v any) (*Dispatcher, error) {
	if d, ok := v.(*Dispatcher); ok && d.IsDispatcherOf(t.reg) {
		return d, nil
	}
	return nil, dispatch.NewNotDispatcherError(v)
}

// Find returns the implementation of fn handling signature.
func (t *Typed) Find(fn any, signature string, exact bool) (Func, error) {
	d, err := t.own(fn)
	if err != nil {
		return nil, err
	}
	return d.Find(t.reg, signature, exact)
}

// FindSignature returns the candidate of fn handling signature.
func (t *Typed) FindSignature(fn any, signature string, exact bool) (*Candidate, error) {
	d, err := t.own(fn)
	if err != nil {
		return nil, err
	}
	return d.FindSignature(t.reg, signature, exact)
}

// Resolve returns the candidate fn would select for args, or nil.
func (t *Typed) Resolve(fn any, args ...any) (*Candidate, error) {
	d, err := t.own(fn)
	if err != nil {
		return nil, err
	}
	return d.Resolve(args...), nil
}
