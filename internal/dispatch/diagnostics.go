package dispatch

import (
	"math"
	"strings"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// diagnose explains why no declared signature accepts args. Signatures are
// narrowed argument by argument; the first position that eliminates all of
// them is a wrong type. Otherwise the arity of the survivors decides between
// too few and too many, and anything left is a general mismatch.
func diagnose(fn string, args []any, declared [][]*signature.Param, types typesystem.Snapshot) *DispatchError {
	matching := declared
	for i, arg := range args {
		var next [][]*signature.Param
		for _, params := range matching {
			p := signature.ParamAt(params, i)
			if p != nil && p.Test()(arg) {
				next = append(next, params)
			}
		}
		if len(next) > 0 {
			matching = next
			continue
		}
		expected := expectedAt(matching, i)
		if len(expected) > 0 {
			return NewWrongTypeError(fn, i, types.NamesOf(arg), expected)
		}
		break
	}

	lowest, highest := math.MaxInt, 0
	for _, params := range matching {
		n := len(params)
		if n < lowest {
			lowest = n
		}
		if signature.HasRest(params) {
			highest = math.MaxInt
		} else if n > highest {
			highest = n
		}
	}

	if len(args) < lowest {
		return NewTooFewArgsError(fn, len(args), expectedAt(matching, len(args)))
	}
	if len(args) > highest {
		return NewTooManyArgsError(fn, len(args), highest)
	}

	actual := make([]string, len(args))
	for i, arg := range args {
		actual[i] = strings.Join(types.NamesOf(arg), config.UnionSeparator)
	}
	return NewMismatchError(fn, actual)
}

// expectedAt merges the type names accepted at position i, in first-seen
// order. A wildcard anywhere collapses the result to the wildcard alone.
func expectedAt(matching [][]*signature.Param, i int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, params := range matching {
		p := signature.ParamAt(params, i)
		if p == nil {
			continue
		}
		for _, t := range p.Types {
			if t.IsAny {
				return []string{t.Name}
			}
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t.Name)
			}
		}
	}
	return out
}
