package dispatch

import (
	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// FindSignature looks up the candidate that handles text, parsed against reg.
// An exact canonical hit wins. Otherwise candidates are filtered position by
// position: a candidate survives when its param there admits every requested
// type (or any) and is a rest param whenever the requested one is. The first
// survivor no longer than the request is returned. With exactOnly, converted
// candidates are never considered.
func (d *Dispatcher) FindSignature(reg *typesystem.Registry, text string, exactOnly bool) (*Candidate, error) {
	params, err := signature.Parse(reg, text)
	if err != nil {
		return nil, err
	}
	canonical := signature.Stringify(params, config.ParamSeparator)
	key := lookupKey(canonical, exactOnly)
	if hit, ok := d.lookups.Get(key); ok {
		return hit.(*Candidate), nil
	}

	c := d.findSignature(params, canonical, exactOnly)
	if c == nil {
		return nil, NewSignatureNotFoundError(displayName(d.name), signature.Stringify(params, ", "))
	}
	d.lookups.SetDefault(key, c)
	return c, nil
}

func (d *Dispatcher) findSignature(params []*signature.Param, canonical string, exactOnly bool) *Candidate {
	if c, ok := d.byName[canonical]; ok && (!exactOnly || !c.converted) {
		return c
	}

	var remaining []*Candidate
	for _, c := range d.candidates {
		if exactOnly && c.converted {
			continue
		}
		remaining = append(remaining, c)
	}

	for i, want := range params {
		var filtered []*Candidate
		for _, c := range remaining {
			have := signature.ParamAt(c.params, i)
			if have == nil || (want.Rest && !have.Rest) {
				continue
			}
			if !have.HasAny && !admitsAll(have.TypeSet(), want) {
				continue
			}
			filtered = append(filtered, c)
		}
		remaining = filtered
		if len(remaining) == 0 {
			break
		}
	}

	for _, c := range remaining {
		if len(c.params) <= len(params) {
			return c
		}
	}
	return nil
}

func admitsAll(have map[string]bool, want *signature.Param) bool {
	for _, t := range want.Types {
		if !have[t.Name] {
			return false
		}
	}
	return true
}

func lookupKey(canonical string, exactOnly bool) string {
	if exactOnly {
		return "exact:" + canonical
	}
	return "any:" + canonical
}

// Find returns the implementation handling text. See FindSignature.
func (d *Dispatcher) Find(reg *typesystem.Registry, text string, exactOnly bool) (Func, error) {
	c, err := d.FindSignature(reg, text, exactOnly)
	if err != nil {
		return nil, err
	}
	return c.resolved, nil
}

// Resolve returns the candidate a call with args would select, or nil.
// Conversions are not run.
func (d *Dispatcher) Resolve(args ...any) *Candidate {
	for _, c := range d.candidates {
		if c.test(args) {
			return c
		}
	}
	return nil
}
