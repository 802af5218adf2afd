package dispatch

import (
	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// Candidate is one ranked, single-type entry of a dispatcher's plan.
type Candidate struct {
	fnName    string
	name      string
	params    []*signature.Param
	fn        int
	impl      Impl
	resolved  Func
	test      func(args []any) bool
	convert   func(args []any) ([]any, error)
	converted bool
}

// String returns the canonical signature of the candidate.
func (c *Candidate) String() string { return c.name }

// Params returns the candidate's params. The slice must not be modified.
func (c *Candidate) Params() []*signature.Param { return c.params }

// Impl returns the implementation as it was declared.
func (c *Candidate) Impl() Impl { return c.impl }

// Converted reports whether the candidate accepts arguments through a conversion.
func (c *Candidate) Converted() bool { return c.converted }

// Matches reports whether args satisfy the candidate's classifiers.
func (c *Candidate) Matches(args ...any) bool { return c.test(args) }

// Implementation returns the resolved implementation. Arguments are passed
// through unchanged; a rest param must be supplied as a single []any.
func (c *Candidate) Implementation() Func { return c.resolved }

// Invoke converts args the way dispatch would and calls the implementation.
// Args are not tested against the candidate's classifiers first; fewer args
// than params yields a too-few-arguments DispatchError.
func (c *Candidate) Invoke(args ...any) (any, error) {
	if len(args) < len(c.params) {
		return nil, NewTooFewArgsError(c.fnName, len(args), signature.ParamAt(c.params, len(args)).TypeNames())
	}
	converted, err := c.convertArgs(args)
	if err != nil {
		return nil, err
	}
	return c.resolved(converted...)
}

func (c *Candidate) convertArgs(args []any) ([]any, error) {
	if c.convert == nil {
		return args, nil
	}
	return c.convert(args)
}

// attempt runs a candidate whose test already passed. ok is false when an
// argument conversion failed and dispatch should move on; the first such
// failure is kept in firstErr.
func (c *Candidate) attempt(args []any, firstErr *error) (out any, ok bool, err error) {
	converted, convErr := c.convertArgs(args)
	if convErr != nil {
		if *firstErr == nil {
			*firstErr = convErr
		}
		return nil, false, nil
	}
	out, err = c.resolved(converted...)
	return out, true, err
}

// compileTest builds the arity and classifier check of a param list.
// A rest param needs at least one argument.
func compileTest(params []*signature.Param) func(args []any) bool {
	if signature.HasRest(params) {
		fixed := compileTests(params[:len(params)-1])
		restTest := params[len(params)-1].Test()
		n := len(fixed)
		return func(args []any) bool {
			if len(args) <= n {
				return false
			}
			for i, test := range fixed {
				if !test(args[i]) {
					return false
				}
			}
			for _, arg := range args[n:] {
				if !restTest(arg) {
					return false
				}
			}
			return true
		}
	}

	tests := compileTests(params)
	switch len(tests) {
	case 0:
		return func(args []any) bool { return len(args) == 0 }
	case 1:
		t0 := tests[0]
		return func(args []any) bool { return len(args) == 1 && t0(args[0]) }
	case 2:
		t0, t1 := tests[0], tests[1]
		return func(args []any) bool { return len(args) == 2 && t0(args[0]) && t1(args[1]) }
	}
	return func(args []any) bool {
		if len(args) != len(tests) {
			return false
		}
		for i, test := range tests {
			if !test(args[i]) {
				return false
			}
		}
		return true
	}
}

func compileTests(params []*signature.Param) []typesystem.Classifier {
	tests := make([]typesystem.Classifier, len(params))
	for i, p := range params {
		tests[i] = p.Test()
	}
	return tests
}

type argConverter func(v any) (any, error)

// compileArgConverter returns nil when p carries no conversion. Otherwise the
// declared types are tried first and a matching value passes through; then
// the first conversion whose source type matches is applied.
func compileArgConverter(p *signature.Param) argConverter {
	if !p.HasConversion {
		return nil
	}
	var exact []typesystem.Classifier
	var convs []*typesystem.Conversion
	var froms []typesystem.Classifier
	for _, t := range p.Types {
		if t.Exact() {
			exact = append(exact, t.Test)
			continue
		}
		convs = append(convs, t.Conversion)
		froms = append(froms, t.Test)
	}
	return func(v any) (any, error) {
		for _, test := range exact {
			if test(v) {
				return v, nil
			}
		}
		for i, from := range froms {
			if from(v) {
				return convs[i].Convert(v)
			}
		}
		return v, nil
	}
}

// compileArgs returns nil when arguments can be passed through unchanged.
// Otherwise it converts the arguments and packs a trailing rest into []any.
func compileArgs(fnName, sig string, params []*signature.Param) func(args []any) ([]any, error) {
	rest := signature.HasRest(params)
	converters := make([]argConverter, len(params))
	anyConversion := false
	for i, p := range params {
		converters[i] = compileArgConverter(p)
		anyConversion = anyConversion || converters[i] != nil
	}
	if !rest && !anyConversion {
		return nil
	}

	fixed := len(params)
	var restConv argConverter
	if rest {
		fixed--
		restConv = converters[fixed]
	}
	return func(args []any) ([]any, error) {
		out := make([]any, 0, fixed+1)
		for i := 0; i < fixed; i++ {
			v := args[i]
			if conv := converters[i]; conv != nil {
				var err error
				if v, err = conv(v); err != nil {
					return nil, NewConversionFailedError(fnName, sig, i, err)
				}
			}
			out = append(out, v)
		}
		if rest {
			packed := make([]any, 0, len(args)-fixed)
			for j, v := range args[fixed:] {
				if restConv != nil {
					var err error
					if v, err = restConv(v); err != nil {
						return nil, NewConversionFailedError(fnName, sig, fixed+j, err)
					}
				}
				packed = append(packed, v)
			}
			out = append(out, packed)
		}
		return out, nil
	}
}

func newCandidate(fnName string, params []*signature.Param, fn int, impl Impl, resolved Func) *Candidate {
	name := signature.Stringify(params, config.ParamSeparator)
	return &Candidate{
		fnName:    fnName,
		name:      name,
		params:    params,
		fn:        fn,
		impl:      impl,
		resolved:  resolved,
		test:      compileTest(params),
		convert:   compileArgs(fnName, name, params),
		converted: !signature.IsExact(params),
	}
}

// fastPath is an unrolled check for a top-ranked candidate of arity at most two.
type fastPath struct {
	arity int
	test0 typesystem.Classifier
	test1 typesystem.Classifier
	cand  *Candidate
}

func (f *fastPath) match(args []any) bool {
	if len(args) != f.arity {
		return false
	}
	switch f.arity {
	case 0:
		return true
	case 1:
		return f.test0(args[0])
	}
	return f.test0(args[0]) && f.test1(args[1])
}

// compileFastPaths covers the leading run of candidates without rest params
// and with at most two params.
func compileFastPaths(candidates []*Candidate) ([config.MaxFastPaths]fastPath, int) {
	var paths [config.MaxFastPaths]fastPath
	n := 0
	for _, c := range candidates {
		if n == config.MaxFastPaths || len(c.params) > config.MaxFastPathArity || signature.HasRest(c.params) {
			break
		}
		fp := fastPath{arity: len(c.params), cand: c}
		if fp.arity > 0 {
			fp.test0 = c.params[0].Test()
		}
		if fp.arity > 1 {
			fp.test1 = c.params[1].Test()
		}
		paths[n] = fp
		n++
	}
	return paths, n
}
