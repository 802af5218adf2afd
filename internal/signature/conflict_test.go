package signature

import (
	"testing"

	"github.com/funvibe/overload/internal/typesystem"
)

func TestConflicting(t *testing.T) {
	reg := typesystem.NewRegistry()
	tests := []struct {
		a, b string
		want bool
	}{
		{a: "string|number", b: "string", want: true},
		{a: "string", b: "number", want: false},
		{a: "string,number", b: "...string", want: false},
		{a: "string,string", b: "...string", want: true},
		{a: "string", b: "...string", want: true},
		{a: "number,...string", b: "number,string,string", want: true},
		{a: "number,...string", b: "number", want: false},
		{a: "...string", b: "...string|number", want: true},
		{a: "...string", b: "string,...string", want: false},
		{a: "", b: "", want: true},
		{a: "", b: "...", want: false},
		{a: "any", b: "number", want: false},
		{a: "any", b: "any", want: true},
		{a: "number,string", b: "number,boolean", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a := mustParse(t, reg, tt.a)
			b := mustParse(t, reg, tt.b)
			if got := Conflicting(a, b); got != tt.want {
				t.Errorf("Conflicting(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Conflicting(b, a); got != tt.want {
				t.Errorf("Conflicting(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
