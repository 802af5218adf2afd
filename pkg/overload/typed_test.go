package overload

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/funvibe/overload/internal/tracing"
)

func stringify(args ...any) (any, error) { return fmt.Sprint(args...), nil }

func boolToString(v any) (any, error) { return strconv.FormatBool(v.(bool)), nil }

func TestDefineAndCall(t *testing.T) {
	typed := New()
	require.NoError(t, typed.AddConversion(Conversion{From: "boolean", To: "string", Convert: boolToString}, false))

	concat, err := typed.Define("concat", Signatures{
		Sig("string, string", Fn(func(args ...any) (any, error) {
			return args[0].(string) + args[1].(string), nil
		})),
		Sig("number, number", Fn(func(args ...any) (any, error) {
			return args[0].(int) + args[1].(int), nil
		})),
	})
	require.NoError(t, err)
	require.True(t, typed.IsDispatcher(concat))

	got, err := concat.Call("a", true)
	require.NoError(t, err)
	require.Equal(t, "atrue", got)

	got, err = concat.Call(1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, got)

	_, err = concat.Call(1, "x")
	require.ErrorIs(t, err, ErrWrongType)
}

func TestDispatchersAreFunctions(t *testing.T) {
	typed := New()
	inner, err := typed.Define("inner", Signatures{Sig("number", Fn(stringify))})
	require.NoError(t, err)
	require.Equal(t, []string{"Function"}, typed.TypeNamesOf(inner))

	apply, err := typed.Define("apply", Signatures{
		Sig("Function, number", Fn(func(args ...any) (any, error) {
			return args[0].(Callable).Call(args[1])
		})),
	})
	require.NoError(t, err)
	got, err := apply.Call(inner, 4)
	require.NoError(t, err)
	require.Equal(t, "4", got)
}

func TestOwnership(t *testing.T) {
	a := New()
	b := a.Clone()
	c := a.Create()

	fn, err := a.Define("f", Signatures{Sig("number", Fn(stringify))})
	require.NoError(t, err)

	require.True(t, a.IsDispatcher(fn))
	require.False(t, b.IsDispatcher(fn))
	require.False(t, c.IsDispatcher(fn))
	require.False(t, a.IsDispatcher(stringify))

	_, err = b.Find(fn, "number", false)
	require.ErrorIs(t, err, ErrNotDispatcher)
	_, err = b.Resolve(fn, 1)
	require.ErrorIs(t, err, ErrNotDispatcher)
	_, err = a.FindSignature("not a dispatcher", "number", false)
	var nde *NotDispatcherError
	require.ErrorAs(t, err, &nde)

	_, err = b.Merge("", fn)
	require.ErrorIs(t, err, ErrForeignDispatcher)

	impl, err := a.Find(fn, "number", true)
	require.NoError(t, err)
	out, err := impl(5)
	require.NoError(t, err)
	require.Equal(t, "5", out)

	cand, err := a.Resolve(fn, 5)
	require.NoError(t, err)
	require.Equal(t, "number", cand.String())
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	require.NoError(t, a.AddConversion(Conversion{From: "boolean", To: "string", Convert: boolToString}, false))
	b := a.Clone()
	b.ClearConversions()

	got, err := a.Convert(true, "string")
	require.NoError(t, err)
	require.Equal(t, "true", got)

	_, err = b.Convert(true, "string")
	require.ErrorIs(t, err, ErrNoConversion)

	c := a.Create()
	_, err = c.Convert(true, "string")
	require.ErrorIs(t, err, ErrNoConversion)
	require.Equal(t, a.TypeNames(), c.TypeNames())
}

func TestCustomType(t *testing.T) {
	type money struct{ cents int }
	typed := New()
	require.NoError(t, typed.AddType(Type{Name: "Money", Test: func(v any) bool {
		_, ok := v.(money)
		return ok
	}}))
	names := typed.TypeNames()
	require.Equal(t, "Money", names[len(names)-4], "inserted ahead of Object")

	format, err := typed.Define("format", Signatures{
		Sig("Money", Fn(func(args ...any) (any, error) {
			m := args[0].(money)
			return fmt.Sprintf("$%d.%02d", m.cents/100, m.cents%100), nil
		})),
		Sig("Object", Fn(func(args ...any) (any, error) { return "object", nil })),
	})
	require.NoError(t, err)

	got, err := format.Call(money{cents: 1050})
	require.NoError(t, err)
	require.Equal(t, "$10.50", got)

	typed.Clear()
	require.Equal(t, []string{"any"}, typed.TypeNames())
	got, err = format.Call(money{cents: 1})
	require.NoError(t, err, "built dispatchers keep their classifiers")
	require.Equal(t, "$0.01", got)
}

func TestMergeIdempotent(t *testing.T) {
	typed := New()
	fn, err := typed.Define("f", Signatures{
		Sig("number|string", Fn(stringify)),
		Sig("...boolean", Fn(stringify)),
	})
	require.NoError(t, err)

	merged, err := typed.Merge("", fn, fn)
	require.NoError(t, err)
	require.Equal(t, fn.Signatures(), merged.Signatures())
	require.Equal(t, "f", merged.Name())
}

func TestOnMismatch(t *testing.T) {
	typed := New(WithOnMismatch(func(name string, args []any, diag *DispatchError) (any, error) {
		return nil, fmt.Errorf("%s rejected %d args: %w", name, len(args), diag)
	}))
	fn, err := typed.Define("f", Signatures{Sig("number", Fn(stringify))})
	require.NoError(t, err)

	_, err = fn.Call("x", "y")
	require.ErrorContains(t, err, "f rejected 2 args")
	var diag *DispatchError
	require.True(t, errors.As(err, &diag))
	require.Equal(t, CategoryWrongType, diag.Category)
}

func TestTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := tracing.NewSyncProvider(exporter)
	typed := New(WithTracer(provider.Tracer()))

	_, err := typed.Define("ok", Signatures{Sig("number", Fn(stringify))})
	require.NoError(t, err)
	_, err = typed.Define("bad", Signatures{Sig("number", Fn(stringify)), Sig("number", Fn(stringify))})
	require.ErrorIs(t, err, ErrConflict)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, tracing.SpanDefine, spans[0].Name)
	require.Equal(t, codes.Unset, spans[0].Status.Code)
	require.Equal(t, codes.Error, spans[1].Status.Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	require.Equal(t, "ok", attrs[tracing.AttrFunction])
	require.Equal(t, "1", attrs[tracing.AttrCandidates])
	require.Equal(t, typed.Registry().ID().String(), attrs[tracing.AttrRegistryID])
}

func TestReferences(t *testing.T) {
	typed := New()
	fib, err := typed.Define("fib", Signatures{
		Sig("number", ReferToSelf(func(self *Dispatcher) Func {
			return func(args ...any) (any, error) {
				n := args[0].(int)
				if n < 2 {
					return n, nil
				}
				a, err := self.Call(n - 1)
				if err != nil {
					return nil, err
				}
				b, err := self.Call(n - 2)
				if err != nil {
					return nil, err
				}
				return a.(int) + b.(int), nil
			}
		})),
		Sig("string", ReferTo([]string{"number"}, func(refs ...Func) Func {
			return func(args ...any) (any, error) {
				n, err := strconv.Atoi(args[0].(string))
				if err != nil {
					return nil, err
				}
				return refs[0](n)
			}
		})),
	})
	require.NoError(t, err)

	got, err := fib.Call("10")
	require.NoError(t, err)
	require.Equal(t, 55, got)
}

func TestFromMapDefine(t *testing.T) {
	typed := New()
	fn, err := typed.Define("", FromMap(map[string]Impl{
		"number": Fn(func(args ...any) (any, error) { return "n", nil }),
		"string": Fn(func(args ...any) (any, error) { return "s", nil }),
	}))
	require.NoError(t, err)
	require.Equal(t, []string{"number", "string"}, []string{fn.Entries()[0].Signature, fn.Entries()[1].Signature})

	_, err = fn.Call(true)
	require.EqualError(t, err,
		"unexpected type of argument in function unnamed (expected: number or string, actual: boolean, index: 0)")
}
