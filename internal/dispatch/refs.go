package dispatch

import (
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// resolveReferences turns every implementation into a concrete function.
// Each pass resolves the references whose dependencies are already concrete;
// a pass that makes no progress while references remain is a cycle.
// names[i] is the declared signature of impls[i]; exact maps the canonical
// text of every exact candidate to its implementation index.
func resolveReferences(reg *typesystem.Registry, impls []Impl, names []string, exact map[string]int, self *Dispatcher) ([]Func, error) {
	resolved := make([]Func, len(impls))
	pending := 0
	for i, impl := range impls {
		if c, ok := impl.(*Concrete); ok {
			resolved[i] = c.Fn
		} else {
			pending++
		}
	}

	for pending > 0 {
		progressed := false
		for i, impl := range impls {
			if resolved[i] != nil {
				continue
			}
			var fn Func
			switch ref := impl.(type) {
			case *PendingSelf:
				fn = ref.Callback(self)
			case *PendingRefs:
				deps, ready, err := collectResolutions(reg, ref.Refs, names[i], resolved, exact)
				if err != nil {
					return nil, err
				}
				if !ready {
					continue
				}
				fn = ref.Callback(deps...)
			}
			if fn == nil {
				return nil, NewInvalidImplementationError(names[i], "reference callback returned nil")
			}
			resolved[i] = fn
			pending--
			progressed = true
		}
		if !progressed {
			var cycle []string
			for i := range impls {
				if resolved[i] == nil {
					cycle = append(cycle, names[i])
				}
			}
			return nil, NewCircularReferenceError(cycle)
		}
	}
	return resolved, nil
}

// collectResolutions looks up the implementations behind refs. ready is false
// while any of them is still pending.
func collectResolutions(reg *typesystem.Registry, refs []string, from string, resolved []Func, exact map[string]int) ([]Func, bool, error) {
	deps := make([]Func, 0, len(refs))
	for _, ref := range refs {
		canonical, err := signature.Canonical(reg, ref)
		if err != nil {
			return nil, false, err
		}
		idx, ok := exact[canonical]
		if !ok {
			return nil, false, NewUnknownReferenceError(ref, from)
		}
		if resolved[idx] == nil {
			return nil, false, nil
		}
		deps = append(deps, resolved[idx])
	}
	return deps, true, nil
}
