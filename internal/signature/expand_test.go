package signature

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/overload/internal/typesystem"
)

func registryWithConversions(t *testing.T, convs ...typesystem.Conversion) *typesystem.Registry {
	t.Helper()
	reg := typesystem.NewRegistry()
	if err := reg.AddConversions(convs, false); err != nil {
		t.Fatalf("AddConversions: %v", err)
	}
	return reg
}

func boolToString(v any) (any, error) { return strconv.FormatBool(v.(bool)), nil }

func boolToNumber(v any) (any, error) {
	if v.(bool) {
		return 1, nil
	}
	return 0, nil
}

func numberToString(v any) (any, error) { return strconv.Itoa(v.(int)), nil }

func splitNames(candidates [][]*Param) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = Stringify(c, ",")
	}
	return out
}

func TestExpand(t *testing.T) {
	reg := registryWithConversions(t,
		typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString},
		typesystem.Conversion{From: "number", To: "string", Convert: numberToString},
	)

	p := Expand(reg, mustParse(t, reg, "string")[0])
	if got := p.String(); got != "string|boolean|number" {
		t.Errorf("expanded = %q", got)
	}
	if !p.HasConversion {
		t.Error("expanded param should carry a conversion")
	}
	if diff := cmp.Diff([]string{"string"}, p.Exact().TypeNames()); diff != "" {
		t.Errorf("Exact() mismatch (-want +got):\n%s", diff)
	}
	for _, ref := range p.Types[1:] {
		if ref.Conversion == nil || ref.Conversion.To != "string" || ref.Conversion.From != ref.Name {
			t.Errorf("ref %s carries conversion %+v", ref.Name, ref.Conversion)
		}
	}

	// A source already in the set is not added again.
	p = Expand(reg, mustParse(t, reg, "string|number")[0])
	if got := p.String(); got != "string|number|boolean" {
		t.Errorf("expanded union = %q", got)
	}

	same := mustParse(t, reg, "Date")[0]
	if Expand(reg, same) != same {
		t.Error("a param without conversions should be returned unchanged")
	}
}

func TestExpandKeepsEarliestConversionPerSource(t *testing.T) {
	reg := registryWithConversions(t,
		typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString},
		typesystem.Conversion{From: "boolean", To: "number", Convert: boolToNumber},
	)
	p := Expand(reg, mustParse(t, reg, "string|number")[0])
	if got := p.String(); got != "string|number|boolean" {
		t.Fatalf("expanded = %q", got)
	}
	conv := p.Types[2].Conversion
	if conv.To != "string" {
		t.Errorf("boolean converts to %s, want string", conv.To)
	}
}

func TestSplit(t *testing.T) {
	reg := registryWithConversions(t,
		typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString},
	)
	tests := []struct {
		text string
		want []string
	}{
		{text: "", want: []string{""}},
		{text: "number|string, Date", want: []string{"number,Date", "string,Date", "boolean,Date"}},
		{text: "number, ...string", want: []string{"number,...string", "number,...string|boolean"}},
		{text: "...number", want: []string{"...number"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := splitNames(Split(ExpandAll(reg, mustParse(t, reg, tt.text))))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitDoesNotAlias(t *testing.T) {
	reg := typesystem.NewRegistry()
	out := Split(mustParse(t, reg, "number|string, boolean|null"))
	got := splitNames(out)
	want := []string{"number,boolean", "number,null", "string,boolean", "string,null"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}
