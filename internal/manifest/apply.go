package manifest

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/internal/tracing"
	"github.com/funvibe/overload/pkg/overload"
)

// Library holds the dispatchers a manifest built, in declaration order.
type Library struct {
	names []string
	funcs map[string]*overload.Dispatcher
}

// Names returns the function names in declaration order.
func (l *Library) Names() []string { return append([]string(nil), l.names...) }

// Get returns the named dispatcher.
func (l *Library) Get(name string) (*overload.Dispatcher, bool) {
	d, ok := l.funcs[name]
	return d, ok
}

// Apply registers the manifest's types and conversions on t and builds every
// function. The first failure aborts; t keeps whatever was registered before it.
func (m *Manifest) Apply(t *overload.Typed) (*Library, error) {
	_, span := t.Tracer().Start(context.Background(), tracing.SpanManifest, trace.WithAttributes(
		attribute.Int(tracing.AttrTypes, len(m.Types)),
		attribute.Int(tracing.AttrFunctions, len(m.Functions)),
		attribute.String(tracing.AttrRegistryID, t.Registry().ID().String()),
	))
	defer span.End()

	lib, err := m.apply(t)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return lib, nil
}

func (m *Manifest) apply(t *overload.Typed) (*Library, error) {
	for _, spec := range m.Types {
		typ := overload.Type{Name: spec.Name, Test: Classifiers[spec.Classifier]}
		if err := t.AddTypes([]overload.Type{typ}, spec.Before); err != nil {
			return nil, fmt.Errorf("type %s: %w", spec.Name, err)
		}
	}

	for _, spec := range m.Conversions {
		c := overload.Conversion{From: spec.From, To: spec.To, Convert: Converters[spec.Converter]}
		if err := t.AddConversion(c, spec.Override); err != nil {
			return nil, fmt.Errorf("conversion %s -> %s: %w", spec.From, spec.To, err)
		}
	}

	lib := &Library{funcs: make(map[string]*overload.Dispatcher, len(m.Functions))}
	for _, fn := range m.Functions {
		d, err := m.build(t, lib, fn)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		lib.names = append(lib.names, fn.Name)
		lib.funcs[fn.Name] = d
	}
	log.Info(log.CatManifest, "applied manifest",
		"types", len(m.Types),
		"conversions", len(m.Conversions),
		"functions", len(lib.names))
	return lib, nil
}

func (m *Manifest) build(t *overload.Typed, lib *Library, fn FunctionSpec) (*overload.Dispatcher, error) {
	sigs := make(overload.Signatures, 0, len(fn.Signatures))
	for _, spec := range fn.Signatures {
		sigs = append(sigs, overload.Sig(spec.Params, implFor(spec)))
	}
	if len(fn.Merge) == 0 {
		return t.Define(fn.Name, sigs)
	}

	sources := make([]overload.Source, 0, len(fn.Merge)+1)
	for _, name := range fn.Merge {
		d, _ := lib.Get(name)
		sources = append(sources, d)
	}
	if len(sigs) > 0 {
		sources = append(sources, sigs)
	}
	return t.Merge(fn.Name, sources...)
}

func implFor(spec SignatureSpec) overload.Impl {
	switch {
	case spec.Ref != "":
		return overload.ReferTo([]string{spec.Ref}, func(refs ...overload.Func) overload.Func {
			return refs[0]
		})
	case spec.Impl == SelfImpl:
		return overload.ReferToSelf(each)
	default:
		return overload.Fn(bind(Implementations[spec.Impl], isRest(spec.Params)))
	}
}

func isRest(params string) bool {
	parts := strings.Split(params, config.ParamSeparator)
	return strings.HasPrefix(strings.TrimSpace(parts[len(parts)-1]), config.RestMarker)
}
