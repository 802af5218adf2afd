package signature

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/funvibe/overload/internal/typesystem"
)

func mustParse(t *testing.T, reg *typesystem.Registry, text string) []*Param {
	t.Helper()
	params, err := Parse(reg, text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return params
}

func TestParse(t *testing.T) {
	reg := typesystem.NewRegistry()
	tests := []struct {
		text      string
		canonical string
		rest      bool
	}{
		{text: "", canonical: ""},
		{text: "  ", canonical: ""},
		{text: "number", canonical: "number"},
		{text: "number, string", canonical: "number,string"},
		{text: " number | string ,boolean", canonical: "number|string,boolean"},
		{text: "string|string", canonical: "string"},
		{text: "number, ...string", canonical: "number,...string", rest: true},
		{text: "...", canonical: "...any", rest: true},
		{text: "... boolean|null", canonical: "...boolean|null", rest: true},
		{text: "any", canonical: "any"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			params := mustParse(t, reg, tt.text)
			if got := Stringify(params, ","); got != tt.canonical {
				t.Errorf("canonical = %q, want %q", got, tt.canonical)
			}
			if got := HasRest(params); got != tt.rest {
				t.Errorf("HasRest = %v, want %v", got, tt.rest)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	reg := typesystem.NewRegistry()
	params := mustParse(t, reg, "number|any, ...")
	if !params[0].HasAny || params[0].Rest {
		t.Errorf("param 0 flags = any:%v rest:%v", params[0].HasAny, params[0].Rest)
	}
	if !params[1].HasAny || !params[1].Rest {
		t.Errorf("param 1 flags = any:%v rest:%v", params[1].HasAny, params[1].Rest)
	}
	if params[0].HasConversion || params[1].HasConversion {
		t.Error("parsed params must not carry conversions")
	}
}

func TestParseRestPosition(t *testing.T) {
	reg := typesystem.NewRegistry()
	_, err := Parse(reg, "...number, string")
	if !errors.Is(err, ErrRestPosition) {
		t.Fatalf("err = %v, want ErrRestPosition", err)
	}
	var rpe *RestPositionError
	if !errors.As(err, &rpe) || rpe.Index != 0 || rpe.Param != "...number" {
		t.Errorf("err = %#v", err)
	}
}

func TestParseUnknownType(t *testing.T) {
	reg := typesystem.NewRegistry()
	_, err := Parse(reg, "number, Strng")
	if !errors.Is(err, typesystem.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}

	_, err = Parse(reg, "STRING")
	var ute *typesystem.UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v, want *UnknownTypeError", err)
	}
	if ute.Hint != "string" {
		t.Errorf("Hint = %q, want %q", ute.Hint, "string")
	}
}

func TestCanonical(t *testing.T) {
	reg := typesystem.NewRegistry()
	got, err := Canonical(reg, " Date ,  ...number|string ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Date,...number|string" {
		t.Errorf("Canonical = %q", got)
	}
	if _, err := Canonical(reg, "nope"); err == nil {
		t.Error("expected an error for an unknown type")
	}
}

func TestParamAt(t *testing.T) {
	reg := typesystem.NewRegistry()
	params := mustParse(t, reg, "number, ...string")
	if p := ParamAt(params, 0); p.String() != "number" {
		t.Errorf("ParamAt(0) = %s", p)
	}
	if p := ParamAt(params, 5); p == nil || p.String() != "...string" {
		t.Errorf("ParamAt(5) = %v", p)
	}
	if p := ParamAt(mustParse(t, reg, "number"), 1); p != nil {
		t.Errorf("ParamAt past a fixed list = %s, want nil", p)
	}
}

// Canonical text parses back to params with the same per-position type sets.
func TestParseRoundTrip(t *testing.T) {
	reg := typesystem.NewRegistry()
	names := reg.TypeNames()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 4).Draw(t, "n")
		raw := make([]string, n)
		for i := range raw {
			types := rapid.SliceOfNDistinct(rapid.SampledFrom(names), 1, 3, rapid.ID[string]).Draw(t, "types")
			raw[i] = strings.Join(types, "|")
		}
		if n > 0 && rapid.Bool().Draw(t, "rest") {
			raw[n-1] = "..." + raw[n-1]
		}

		first, err := ParseParams(reg, raw)
		if err != nil {
			t.Fatalf("ParseParams(%q): %v", raw, err)
		}
		text := Stringify(first, ",")
		second, err := Parse(reg, text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if len(first) != len(second) {
			t.Fatalf("len %d != %d for %q", len(first), len(second), text)
		}
		for i := range first {
			if diff := cmp.Diff(first[i].TypeSet(), second[i].TypeSet()); diff != "" {
				t.Fatalf("param %d type set mismatch (-first +second):\n%s", i, diff)
			}
			if first[i].Rest != second[i].Rest {
				t.Fatalf("param %d rest flag changed", i)
			}
		}
		if again := Stringify(second, ","); again != text {
			t.Fatalf("canonical text not stable: %q -> %q", text, again)
		}
	})
}
