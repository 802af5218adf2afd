// Package dispatch compiles signature sets into dispatchers and runs them.
package dispatch

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// Entry binds a textual signature to an implementation.
type Entry struct {
	Signature string
	Impl      Impl
}

// MismatchHandler replaces the default failure of a call no signature
// accepts. It receives the diagnosed error and may return a fallback result
// or a different error.
type MismatchHandler func(name string, args []any, diag *DispatchError) (any, error)

// Options tune a build.
type Options struct {
	OnMismatch MismatchHandler
}

// Dispatcher is a compiled multi-signature function. It is immutable after
// Build and safe for concurrent calls.
type Dispatcher struct {
	name  string
	owner uuid.UUID

	entries    []Entry
	sources    []Entry
	signatures map[string]Impl
	declared   [][]*signature.Param

	candidates []*Candidate
	byName     map[string]*Candidate
	fast       [config.MaxFastPaths]fastPath
	nFast      int

	types      typesystem.Snapshot
	onMismatch MismatchHandler
	lookups    *gocache.Cache
}

type prelim struct {
	params []*signature.Param
	fn     int
}

// Build parses, checks, expands, ranks and compiles entries into a dispatcher
// against the current state of reg. Later registry changes do not affect it.
func Build(reg *typesystem.Registry, name string, entries []Entry, opts Options) (*Dispatcher, error) {
	if len(entries) == 0 {
		return nil, NewNoSignaturesError(displayName(name))
	}

	d := &Dispatcher{
		name:       name,
		owner:      reg.ID(),
		signatures: make(map[string]Impl),
		byName:     make(map[string]*Candidate),
		types:      reg.Snapshot(),
		onMismatch: opts.OnMismatch,
		lookups:    gocache.New(gocache.NoExpiration, 0),
	}

	impls := make([]Impl, 0, len(entries))
	names := make([]string, 0, len(entries))
	exact := make(map[string]int)
	var plan []prelim

	for _, e := range entries {
		params, err := signature.Parse(reg, e.Signature)
		if err != nil {
			return nil, fmt.Errorf("signature %q of function %s: %w", e.Signature, displayName(name), err)
		}
		canonical := signature.Stringify(params, config.ParamSeparator)
		if reason := validImpl(e.Impl); reason != "" {
			return nil, NewInvalidImplementationError(canonical, reason)
		}
		for i, prev := range d.declared {
			if signature.Conflicting(prev, params) {
				return nil, signature.NewConflictError(names[i], canonical)
			}
		}

		fn := len(impls)
		impls = append(impls, e.Impl)
		names = append(names, canonical)
		d.declared = append(d.declared, params)
		d.sources = append(d.sources, Entry{Signature: canonical, Impl: e.Impl})

		for _, split := range signature.Split(signature.ExpandAll(reg, params)) {
			plan = append(plan, prelim{params: split, fn: fn})
			if !signature.IsExact(split) {
				continue
			}
			key := signature.Stringify(split, config.ParamSeparator)
			if _, seen := exact[key]; !seen {
				exact[key] = fn
				d.entries = append(d.entries, Entry{Signature: key, Impl: e.Impl})
				d.signatures[key] = e.Impl
			}
		}
	}

	sortPlan(plan)

	// References may also name a declared union signature.
	for fn, canonical := range names {
		if _, ok := exact[canonical]; !ok {
			exact[canonical] = fn
		}
	}
	resolved, err := resolveReferences(reg, impls, names, exact, d)
	if err != nil {
		return nil, err
	}

	for _, p := range plan {
		key := signature.Stringify(p.params, config.ParamSeparator)
		if _, dup := d.byName[key]; dup {
			continue
		}
		c := newCandidate(displayName(name), p.params, p.fn, impls[p.fn], resolved[p.fn])
		d.byName[key] = c
		d.candidates = append(d.candidates, c)
	}
	d.fast, d.nFast = compileFastPaths(d.candidates)

	log.Debug(log.CatBuild, "built dispatcher",
		"fn", displayName(name),
		"signatures", len(entries),
		"candidates", len(d.candidates),
		"fastPaths", d.nFast)
	return d, nil
}

func sortPlan(plan []prelim) {
	sort.SliceStable(plan, func(i, j int) bool {
		return signature.Compare(plan[i].params, plan[j].params) < 0
	})
}

func displayName(name string) string {
	if name == "" {
		return config.UnnamedFunction
	}
	return name
}

// Name returns the dispatcher's name, empty when unnamed.
func (d *Dispatcher) Name() string { return d.name }

// Owner identifies the registry instance that built the dispatcher.
func (d *Dispatcher) Owner() uuid.UUID { return d.owner }

// IsDispatcherOf reports whether reg built this dispatcher.
func (d *Dispatcher) IsDispatcherOf(reg *typesystem.Registry) bool {
	return d != nil && reg != nil && d.owner == reg.ID()
}

// Signatures returns the exact canonical signatures mapped to their declared
// implementations. The map is a copy.
func (d *Dispatcher) Signatures() map[string]Impl {
	out := make(map[string]Impl, len(d.signatures))
	for k, v := range d.signatures {
		out[k] = v
	}
	return out
}

// Entries returns the exact signatures in declaration order.
func (d *Dispatcher) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Candidates returns the ranked plan, most specific first.
func (d *Dispatcher) Candidates() []*Candidate {
	return append([]*Candidate(nil), d.candidates...)
}

// Call dispatches args to the most specific matching candidate.
func (d *Dispatcher) Call(args ...any) (any, error) {
	var convErr error
	for i := 0; i < d.nFast; i++ {
		fp := &d.fast[i]
		if !fp.match(args) {
			continue
		}
		if out, ok, err := fp.cand.attempt(args, &convErr); ok {
			return out, err
		}
	}
	for _, c := range d.candidates[d.nFast:] {
		if !c.test(args) {
			continue
		}
		if out, ok, err := c.attempt(args, &convErr); ok {
			return out, err
		}
	}
	if convErr != nil {
		return nil, convErr
	}
	return d.mismatch(args)
}

// Func returns Call as a Func value.
func (d *Dispatcher) Func() Func { return d.Call }

func (d *Dispatcher) mismatch(args []any) (any, error) {
	diag := diagnose(displayName(d.name), args, d.declared, d.types)
	log.Warn(log.CatDispatch, "no matching signature",
		"fn", diag.Fn,
		"category", string(diag.Category),
		"args", len(args))
	if d.onMismatch != nil {
		return d.onMismatch(d.name, args, diag)
	}
	return nil, diag
}
