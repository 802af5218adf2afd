package manifest

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/overload/pkg/overload"
)

// Classifiers available to manifest types.
var Classifiers = map[string]overload.Classifier{
	"integer": func(v any) bool {
		if v == nil {
			return false
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
		return false
	},
	"float": func(v any) bool {
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	},
	"positive": func(v any) bool {
		f, ok := toFloat(v)
		return ok && f > 0
	},
	"emptyString": func(v any) bool {
		s, ok := v.(string)
		return ok && s == ""
	},
	"stringMap": func(v any) bool {
		_, ok := v.(map[string]any)
		return ok
	},
	"duration": func(v any) bool {
		_, ok := v.(time.Duration)
		return ok
	},
}

// Converters available to manifest conversions.
var Converters = map[string]overload.Converter{
	"format": func(v any) (any, error) {
		return fmt.Sprint(v), nil
	},
	"parseNumber": func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parseNumber: %T is not a string", v)
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	},
	"parseBool": func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parseBool: %T is not a string", v)
		}
		return strconv.ParseBool(strings.TrimSpace(s))
	},
	"parseDate": func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parseDate: %T is not a string", v)
		}
		return time.Parse(time.RFC3339, s)
	},
	"parseUUID": func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parseUUID: %T is not a string", v)
		}
		return uuid.Parse(s)
	},
	"compile": func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("compile: %T is not a string", v)
		}
		return regexp.Compile(s)
	},
	"truthy": func(v any) (any, error) {
		if v == nil {
			return false, nil
		}
		return !reflect.ValueOf(v).IsZero(), nil
	},
	"toNumber": func(v any) (any, error) {
		switch b := v.(type) {
		case bool:
			if b {
				return 1, nil
			}
			return 0, nil
		}
		if f, ok := toFloat(v); ok {
			return f, nil
		}
		return nil, fmt.Errorf("toNumber: cannot convert %T", v)
	},
	"wrap": func(v any) (any, error) {
		return []any{v}, nil
	},
}

// SelfImpl names the implementation that applies the function being defined
// to every element of an Array argument.
const SelfImpl = "each"

// Body is a catalog implementation. It receives the arguments with a rest
// list already spread into them.
type Body func(args []any) (any, error)

// Implementations available to manifest signatures.
var Implementations = map[string]Body{
	"identity": func(args []any) (any, error) {
		if len(args) == 1 {
			return args[0], nil
		}
		return args, nil
	},
	"first": func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	},
	"count": func(args []any) (any, error) {
		return len(args), nil
	},
	"sum": func(args []any) (any, error) {
		total := 0.0
		for _, a := range args {
			f, ok := toFloat(a)
			if !ok {
				return nil, fmt.Errorf("sum: %v is not a number", a)
			}
			total += f
		}
		return total, nil
	},
	"concat": func(args []any) (any, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(fmt.Sprint(a))
		}
		return b.String(), nil
	},
	"describe": func(args []any) (any, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprintf("%T(%v)", a, a)
		}
		return strings.Join(parts, ", "), nil
	},
}

func each(self *overload.Dispatcher) overload.Func {
	return func(args ...any) (any, error) {
		items := reflect.ValueOf(args[0])
		out := make([]any, items.Len())
		for i := range out {
			v, err := self.Call(items.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
}

// bind adapts body to the dispatch calling convention; a rest signature
// passes its trailing list, which is spread back into the arguments.
func bind(body Body, rest bool) overload.Func {
	if !rest {
		return func(args ...any) (any, error) { return body(args) }
	}
	return func(args ...any) (any, error) {
		last := len(args) - 1
		spread := append(append([]any(nil), args[:last]...), args[last].([]any)...)
		return body(spread)
	}
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func catalogNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
