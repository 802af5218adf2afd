// Package signature parses, validates, expands and ranks dispatch signatures.
package signature

import (
	"math"
	"strings"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/typesystem"
)

// TypeRef is a type reference inside a parameter. Conversion is set when the
// type reached the parameter through a conversion rather than by declaration.
type TypeRef struct {
	Name       string
	Index      int
	Test       typesystem.Classifier
	IsAny      bool
	Conversion *typesystem.Conversion
}

// Exact reports whether the reference was declared rather than converted.
func (t TypeRef) Exact() bool { return t.Conversion == nil }

func refOf(t *typesystem.Type) TypeRef {
	return TypeRef{Name: t.Name, Index: t.Index(), Test: t.Test, IsAny: t.IsAny}
}

// Param is one declared parameter slot.
type Param struct {
	Types         []TypeRef
	Rest          bool
	HasAny        bool
	HasConversion bool

	name    string
	typeSet map[string]bool
}

// NewParam builds a param and derives its flags and canonical name.
func NewParam(types []TypeRef, rest bool) *Param {
	p := &Param{Types: types, Rest: rest, typeSet: make(map[string]bool, len(types))}
	var b strings.Builder
	if rest {
		b.WriteString(config.RestMarker)
	}
	for i, t := range types {
		if i > 0 {
			b.WriteString(config.UnionSeparator)
		}
		b.WriteString(t.Name)
		p.typeSet[t.Name] = true
		p.HasAny = p.HasAny || t.IsAny
		p.HasConversion = p.HasConversion || !t.Exact()
	}
	p.name = b.String()
	return p
}

// String returns the canonical text of the param, e.g. "...number|string".
func (p *Param) String() string { return p.name }

// TypeSet returns the set of type names the param admits.
// The set is shared; callers must not modify it.
func (p *Param) TypeSet() map[string]bool { return p.typeSet }

// TypeNames returns the type names in declaration order.
func (p *Param) TypeNames() []string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = t.Name
	}
	return names
}

// ExactTypes returns the declared (non-converted) type references.
func (p *Param) ExactTypes() []TypeRef {
	var out []TypeRef
	for _, t := range p.Types {
		if t.Exact() {
			out = append(out, t)
		}
	}
	return out
}

// Exact returns p restricted to its declared types.
func (p *Param) Exact() *Param {
	if !p.HasConversion {
		return p
	}
	return NewParam(p.ExactTypes(), p.Rest)
}

// Test returns a classifier accepting any of the param's types.
func (p *Param) Test() typesystem.Classifier {
	switch len(p.Types) {
	case 0:
		return func(any) bool { return true }
	case 1:
		return p.Types[0].Test
	case 2:
		t0, t1 := p.Types[0].Test, p.Types[1].Test
		return func(v any) bool { return t0(v) || t1(v) }
	}
	tests := make([]typesystem.Classifier, len(p.Types))
	for i, t := range p.Types {
		tests[i] = t.Test
	}
	return func(v any) bool {
		for _, test := range tests {
			if test(v) {
				return true
			}
		}
		return false
	}
}

func (p *Param) lowestTypeIndex() int {
	lowest := math.MaxInt
	for _, t := range p.Types {
		if t.Exact() && t.Index < lowest {
			lowest = t.Index
		}
	}
	return lowest
}

func (p *Param) lowestConversionIndex() int {
	lowest := math.MaxInt
	for _, t := range p.Types {
		if !t.Exact() && t.Conversion.Index() < lowest {
			lowest = t.Conversion.Index()
		}
	}
	return lowest
}

// Stringify joins the canonical names of params with sep.
func Stringify(params []*Param, sep string) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.String()
	}
	return strings.Join(names, sep)
}

// HasRest reports whether the last param is a rest param.
func HasRest(params []*Param) bool {
	return len(params) > 0 && params[len(params)-1].Rest
}

// ParamAt returns the param covering argument position i: the declared param,
// the trailing rest param past the end, or nil.
func ParamAt(params []*Param, i int) *Param {
	if i < len(params) {
		return params[i]
	}
	if HasRest(params) {
		return params[len(params)-1]
	}
	return nil
}

// TypeSetAt returns the type set covering argument position i (empty when none).
func TypeSetAt(params []*Param, i int) map[string]bool {
	p := ParamAt(params, i)
	if p == nil {
		return nil
	}
	return p.TypeSet()
}

// IsExact reports whether no param carries a conversion.
func IsExact(params []*Param) bool {
	for _, p := range params {
		if p.HasConversion {
			return false
		}
	}
	return true
}

// Signature is an ordered param list bound to an implementation slot.
type Signature struct {
	Params []*Param
	Fn     int
}

// String returns the canonical text of the signature.
func (s *Signature) String() string { return Stringify(s.Params, config.ParamSeparator) }

// HasRest reports whether the signature ends with a rest param.
func (s *Signature) HasRest() bool { return HasRest(s.Params) }
