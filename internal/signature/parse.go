package signature

import (
	"strings"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/typesystem"
)

// Parse parses a textual signature such as "number, ...string|boolean".
// The empty signature declares zero params.
func Parse(reg *typesystem.Registry, text string) ([]*Param, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Param{}, nil
	}
	return ParseParams(reg, strings.Split(text, config.ParamSeparator))
}

// ParseParams parses a signature given as one descriptor per parameter.
func ParseParams(reg *typesystem.Registry, raw []string) ([]*Param, error) {
	params := make([]*Param, 0, len(raw))
	for i, r := range raw {
		p, err := parseParam(reg, strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		if p.Rest && i != len(raw)-1 {
			return nil, NewRestPositionError(i, strings.TrimSpace(r))
		}
		params = append(params, p)
	}
	return params, nil
}

func parseParam(reg *typesystem.Registry, raw string) (*Param, error) {
	rest := strings.HasPrefix(raw, config.RestMarker)
	body := raw
	if rest {
		body = strings.TrimSpace(raw[len(config.RestMarker):])
		if body == "" {
			body = reg.AnyTypeName()
		}
	}

	parts := strings.Split(body, config.UnionSeparator)
	refs := make([]TypeRef, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		t, err := reg.FindType(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		refs = append(refs, refOf(t))
	}
	return NewParam(refs, rest), nil
}

// Canonical parses text and returns its canonical form.
func Canonical(reg *typesystem.Registry, text string) (string, error) {
	params, err := Parse(reg, text)
	if err != nil {
		return "", err
	}
	return Stringify(params, config.ParamSeparator), nil
}
