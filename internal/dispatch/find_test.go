package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/overload/internal/typesystem"
)

func TestFindSignature(t *testing.T) {
	reg := newRegistry(t, typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString})
	d := mustBuild(t, reg, "f",
		Entry{"number", label("number")},
		Entry{"string, ...number", label("string,...number")},
		Entry{"Date|null", label("Date|null")},
		Entry{"...any", label("rest")},
	)

	tests := []struct {
		text  string
		exact bool
		want  string
	}{
		{text: "number", want: "number"},
		{text: " number ", exact: true, want: "number"},
		{text: "null", want: "null"},
		{text: "Date", want: "Date"},
		{text: "boolean", want: "...any"},
		{text: "boolean, number", want: "boolean,...number"},
		{text: "string,...number", want: "string,...number"},
		{text: "string, number, number", want: "string,...number"},
		{text: "Array", want: "...any"},
		{text: "...string", want: "...any"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, err := d.FindSignature(reg, tt.text, tt.exact)
			require.NoError(t, err)
			require.Equal(t, tt.want, c.String())
		})
	}
}

func TestFindSignatureExactOnly(t *testing.T) {
	reg := newRegistry(t, typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString})
	d := mustBuild(t, reg, "f", Entry{"string", echo()})

	c, err := d.FindSignature(reg, "boolean", false)
	require.NoError(t, err)
	require.True(t, c.Converted())
	got, err := c.Invoke(true)
	require.NoError(t, err)
	require.Equal(t, []any{"true"}, got)

	_, err = d.FindSignature(reg, "boolean", true)
	require.ErrorIs(t, err, ErrSignatureNotFound)
	require.EqualError(t, err, "signature not found (signature: f(boolean))")
}

func TestFindSignatureNotFound(t *testing.T) {
	reg := typesystem.NewRegistry()
	d := mustBuild(t, reg, "f", Entry{"number,string", label("a")})

	for _, text := range []string{"number", "string,string", "number,string,string", "...number"} {
		_, err := d.FindSignature(reg, text, false)
		require.ErrorIs(t, err, ErrSignatureNotFound, text)
	}

	_, err := d.FindSignature(reg, "Nmber", false)
	require.ErrorIs(t, err, typesystem.ErrUnknownType)
}

func TestFindIsMemoized(t *testing.T) {
	reg := typesystem.NewRegistry()
	d := mustBuild(t, reg, "f", Entry{"number", label("a")}, Entry{"string", label("b")})

	first, err := d.FindSignature(reg, "string", false)
	require.NoError(t, err)
	require.Equal(t, 1, d.lookups.ItemCount())

	second, err := d.FindSignature(reg, "string ", false)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, d.lookups.ItemCount())

	fn, err := d.Find(reg, "number", true)
	require.NoError(t, err)
	out, err := fn(1)
	require.NoError(t, err)
	require.Equal(t, "a", out)
	require.Equal(t, 2, d.lookups.ItemCount())
}

func TestResolve(t *testing.T) {
	reg := typesystem.NewRegistry()
	d := mustBuild(t, reg, "f", Entry{"number", label("a")}, Entry{"string,...boolean", label("b")})

	c := d.Resolve(1)
	require.NotNil(t, c)
	require.Equal(t, "number", c.String())

	c = d.Resolve("x", true, false)
	require.NotNil(t, c)
	require.Equal(t, "string,...boolean", c.String())
	require.True(t, c.Matches("x", true))
	require.False(t, c.Matches("x"))

	require.Nil(t, d.Resolve("x"))
	require.Nil(t, d.Resolve())
}

func TestInvokeTooFewArgs(t *testing.T) {
	reg := newRegistry(t, typesystem.Conversion{From: "boolean", To: "string", Convert: boolToString})
	d := mustBuild(t, reg, "f",
		Entry{"number, ...string", echo()},
		Entry{"string, string", echo()},
	)

	tests := []struct {
		signature string
		args      []any
		index     int
		expected  []string
	}{
		{"number, ...string", nil, 0, []string{"number"}},
		{"number, ...string", []any{1}, 1, []string{"string"}},
		{"number, ...boolean", []any{1}, 1, []string{"string", "boolean"}},
		{"string, string", []any{"a"}, 1, []string{"string"}},
	}
	for _, tt := range tests {
		c, err := d.FindSignature(reg, tt.signature, false)
		require.NoError(t, err, tt.signature)

		_, err = c.Invoke(tt.args...)
		require.ErrorIs(t, err, ErrTooFewArgs, tt.signature)
		var derr *DispatchError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, "f", derr.Fn)
		require.Equal(t, tt.index, derr.Index)
		require.Equal(t, tt.expected, derr.Expected)
	}

	c, err := d.FindSignature(reg, "number, ...boolean", false)
	require.NoError(t, err)
	got, err := c.Invoke(1, "a", true)
	require.NoError(t, err)
	require.Equal(t, []any{1, []any{"a", "true"}}, got)
}
