package signature

import (
	"github.com/funvibe/overload/internal/typesystem"
)

// Expand returns p with every type reachable by a registered conversion
// appended as a conversion-tagged reference.
func Expand(reg *typesystem.Registry, p *Param) *Param {
	convs := reg.AvailableConversions(p.TypeNames())
	if len(convs) == 0 {
		return p
	}
	types := make([]TypeRef, len(p.Types), len(p.Types)+len(convs))
	copy(types, p.Types)
	for _, c := range convs {
		from, err := reg.FindType(c.From)
		if err != nil {
			continue
		}
		ref := refOf(from)
		ref.Conversion = c
		types = append(types, ref)
	}
	return NewParam(types, p.Rest)
}

// ExpandAll expands every param of a signature.
func ExpandAll(reg *typesystem.Registry, params []*Param) []*Param {
	out := make([]*Param, len(params))
	for i, p := range params {
		out[i] = Expand(reg, p)
	}
	return out
}

// Split flattens union params into single-type candidates. A rest param keeps
// its full type set; when conversions widened it, an exact-only variant is
// emitted first so exact rest matches are never shadowed.
func Split(params []*Param) [][]*Param {
	return split(params, 0, nil)
}

func split(params []*Param, index int, soFar []*Param) [][]*Param {
	if index >= len(params) {
		out := make([]*Param, len(soFar))
		copy(out, soFar)
		return [][]*Param{out}
	}

	p := params[index]
	var variants []*Param
	if p.Rest {
		exact := p.ExactTypes()
		if len(exact) < len(p.Types) {
			variants = append(variants, NewParam(exact, true))
		}
		variants = append(variants, p)
	} else {
		for _, t := range p.Types {
			variants = append(variants, NewParam([]TypeRef{t}, false))
		}
	}

	var result [][]*Param
	for _, v := range variants {
		result = append(result, split(params, index+1, append(soFar[:index:index], v))...)
	}
	return result
}
