package typesystem

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/log"
)

// Registry is an ordered catalog of types and the conversions between them.
// A registry is not safe for concurrent mutation.
type Registry struct {
	id           uuid.UUID
	types        map[string]*Type
	order        []string
	nConversions int
}

// NewRegistry creates a registry holding the default types followed by any.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	if err := r.AddTypes(DefaultTypes(), config.AnyTypeName); err != nil {
		panic("typesystem: invalid default types: " + err.Error())
	}
	return r
}

// NewEmptyRegistry creates a registry holding only the any type.
func NewEmptyRegistry() *Registry {
	r := &Registry{id: uuid.New()}
	r.reset()
	return r
}

func (r *Registry) reset() {
	anyType := AnyType()
	anyType.index = 0
	r.types = map[string]*Type{anyType.Name: &anyType}
	r.order = []string{anyType.Name}
	r.nConversions = 0
}

// ID identifies this registry instance. Clones get a fresh ID.
func (r *Registry) ID() uuid.UUID { return r.id }

// Clone returns an independent copy of the registry with a new identity.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		id:           uuid.New(),
		types:        make(map[string]*Type, len(r.types)),
		order:        append([]string(nil), r.order...),
		nConversions: r.nConversions,
	}
	for name, t := range r.types {
		c.types[name] = t.clone()
	}
	return c
}

// FindType looks up a type by name. The error carries a case-insensitive
// suggestion when a near match exists.
func (r *Registry) FindType(name string) (*Type, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}
	lower := strings.ToLower(name)
	for _, other := range r.order {
		if strings.ToLower(other) == lower {
			return nil, NewUnknownTypeError(name, other)
		}
	}
	return nil, NewUnknownTypeError(name, "")
}

// HasType reports whether name is registered.
func (r *Registry) HasType(name string) bool {
	_, ok := r.types[name]
	return ok
}

// AnyTypeName returns the name of the wildcard type.
func (r *Registry) AnyTypeName() string {
	for _, name := range r.order {
		if r.types[name].IsAny {
			return name
		}
	}
	return config.AnyTypeName
}

// TypeNames returns all type names in registry order.
func (r *Registry) TypeNames() []string {
	return append([]string(nil), r.order...)
}

// AddTypes inserts types before the type named before; an empty before
// inserts ahead of the wildcard. Indices of all following types are renumbered.
func (r *Registry) AddTypes(types []Type, before string) error {
	if before == "" {
		before = r.AnyTypeName()
	}
	at, err := r.FindType(before)
	if err != nil {
		return err
	}
	beforeIndex := at.index

	seen := make(map[string]bool, len(types))
	for i, t := range types {
		if t.Name == "" {
			return NewInvalidTypeError(i, "name is required")
		}
		if t.Test == nil {
			return NewInvalidTypeError(i, "classifier is required")
		}
		if t.IsAny {
			return NewInvalidTypeError(i, "only one wildcard type is allowed")
		}
		if _, ok := r.types[t.Name]; ok || seen[t.Name] {
			return NewDuplicateTypeError(t.Name)
		}
		seen[t.Name] = true
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		r.types[t.Name] = &Type{Name: t.Name, Test: t.Test}
		names = append(names, t.Name)
	}
	order := make([]string, 0, len(r.order)+len(names))
	order = append(order, r.order[:beforeIndex]...)
	order = append(order, names...)
	order = append(order, r.order[beforeIndex:]...)
	r.order = order
	for i, name := range r.order {
		r.types[name].index = i
	}

	log.Debug(log.CatRegistry, "added types", "names", strings.Join(names, ","), "before", before)
	return nil
}

// AddType adds a single type. With beforeObject it is placed ahead of the
// object-like type (when registered), otherwise ahead of the wildcard.
func (r *Registry) AddType(t Type, beforeObject bool) error {
	before := ""
	if beforeObject && r.HasType(config.ObjectTypeName) {
		before = config.ObjectTypeName
	}
	return r.AddTypes([]Type{t}, before)
}

func (r *Registry) validateConversion(c Conversion) (*Type, error) {
	if c.From == "" || c.To == "" {
		return nil, NewInvalidConversionError(c.From, c.To, "from and to are required")
	}
	if _, err := r.FindType(c.From); err != nil {
		return nil, err
	}
	to, err := r.FindType(c.To)
	if err != nil {
		return nil, err
	}
	if c.From == c.To {
		return nil, NewSelfConversionError(c.From)
	}
	if c.Convert == nil {
		return nil, NewInvalidConversionError(c.From, c.To, "converter is required")
	}
	return to, nil
}

// AddConversion registers c. An existing conversion for the same pair is an
// error unless override is set, in which case it is replaced in place.
func (r *Registry) AddConversion(c Conversion, override bool) error {
	to, err := r.validateConversion(c)
	if err != nil {
		return err
	}
	for _, existing := range to.conversionsTo {
		if existing.From != c.From {
			continue
		}
		if !override {
			return NewDuplicateConversionError(c.From, c.To)
		}
		existing.Convert = c.Convert
		log.Debug(log.CatRegistry, "replaced conversion", "from", c.From, "to", c.To, "index", existing.index)
		return nil
	}
	to.conversionsTo = append(to.conversionsTo, &Conversion{
		From:    c.From,
		To:      to.Name,
		Convert: c.Convert,
		index:   r.nConversions,
	})
	r.nConversions++
	log.Debug(log.CatRegistry, "added conversion", "from", c.From, "to", c.To, "index", r.nConversions-1)
	return nil
}

// AddConversions registers each conversion in order, stopping at the first error.
func (r *Registry) AddConversions(cs []Conversion, override bool) error {
	for _, c := range cs {
		if err := r.AddConversion(c, override); err != nil {
			return err
		}
	}
	return nil
}

// RemoveConversion removes the conversion matching c's pair and converter.
func (r *Registry) RemoveConversion(c Conversion) error {
	to, err := r.validateConversion(c)
	if err != nil {
		return err
	}
	for i, existing := range to.conversionsTo {
		if existing.From != c.From {
			continue
		}
		if !sameConverter(existing.Convert, c.Convert) {
			return NewConversionMismatchError(c.From, c.To)
		}
		to.conversionsTo = append(to.conversionsTo[:i:i], to.conversionsTo[i+1:]...)
		log.Debug(log.CatRegistry, "removed conversion", "from", c.From, "to", c.To)
		return nil
	}
	return NewUnknownConversionError(c.From, c.To)
}

// Clear drops every type except the wildcard, and all conversions.
func (r *Registry) Clear() {
	r.reset()
	log.Debug(log.CatRegistry, "cleared registry")
}

// ClearConversions drops all conversions but keeps the types.
func (r *Registry) ClearConversions() {
	for _, t := range r.types {
		t.conversionsTo = nil
	}
	r.nConversions = 0
	log.Debug(log.CatRegistry, "cleared conversions")
}

// Conversions returns copies of all conversions ordered by insertion index.
func (r *Registry) Conversions() []Conversion {
	var out []Conversion
	for _, name := range r.order {
		for _, c := range r.types[name].conversionsTo {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// Convert converts v to the named type. A value that already belongs to the
// type is returned unchanged.
func (r *Registry) Convert(v any, to string) (any, error) {
	t, err := r.FindType(to)
	if err != nil {
		return nil, err
	}
	if t.Test(v) {
		return v, nil
	}
	if len(t.conversionsTo) == 0 {
		return nil, NewNoConversionError(to, v, "there are no conversions to "+to+" defined")
	}
	from := ""
	for _, name := range r.order {
		if candidate := r.types[name]; !candidate.IsAny && candidate.Test(v) {
			from = name
			break
		}
	}
	for _, c := range t.conversionsTo {
		if c.From == from {
			return c.Convert(v)
		}
	}
	return nil, NewNoConversionError(to, v, "")
}

// TypeNamesOf returns the names of all non-any types accepting v, or the
// wildcard name when none does.
func (r *Registry) TypeNamesOf(v any) []string {
	return r.Snapshot().NamesOf(v)
}

// Snapshot freezes the current classifiers in registry order.
func (r *Registry) Snapshot() Snapshot {
	s := make(Snapshot, len(r.order))
	for i, name := range r.order {
		t := r.types[name]
		s[i] = TypeTest{Name: t.Name, Test: t.Test, IsAny: t.IsAny}
	}
	return s
}

// AvailableConversions returns the conversions into any of names whose source
// is not itself in names. For each source only the earliest registered
// conversion is kept; the result follows the registry order of the targets.
// The lowest insertion index wins rather than the first target scanned, so a
// conversion registered earlier is preferred even into a later target.
// The returned conversions are copies.
func (r *Registry) AvailableConversions(names []string) []*Conversion {
	if len(names) == 0 {
		return nil
	}
	known := make(map[string]bool, len(names))
	targets := make([]*Type, 0, len(names))
	for _, name := range names {
		if known[name] {
			continue
		}
		known[name] = true
		if t, ok := r.types[name]; ok {
			targets = append(targets, t)
		}
	}
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].index < targets[j].index })

	best := make(map[string]*Conversion)
	var froms []string
	for _, t := range targets {
		for _, c := range t.conversionsTo {
			if known[c.From] {
				continue
			}
			prev, ok := best[c.From]
			if !ok {
				froms = append(froms, c.From)
			}
			if !ok || c.index < prev.index {
				best[c.From] = c
			}
		}
	}

	out := make([]*Conversion, len(froms))
	for i, from := range froms {
		cc := *best[from]
		out[i] = &cc
	}
	return out
}
