package typesystem

import (
	"reflect"
)

// Classifier reports whether a runtime value belongs to a type.
type Classifier func(v any) bool

// Converter turns a value of one type into a value of another.
type Converter func(v any) (any, error)

// Type is a named value classifier.
// Index and conversion lists are owned by the Registry the type lives in.
type Type struct {
	Name  string
	Test  Classifier
	IsAny bool

	index         int
	conversionsTo []*Conversion
}

// Index is the registration position of the type; lower is more specific.
func (t *Type) Index() int { return t.index }

// ConversionsTo returns the conversions targeting this type, in insertion order.
func (t *Type) ConversionsTo() []*Conversion {
	out := make([]*Conversion, len(t.conversionsTo))
	copy(out, t.conversionsTo)
	return out
}

func (t *Type) clone() *Type {
	c := &Type{Name: t.Name, Test: t.Test, IsAny: t.IsAny, index: t.index}
	c.conversionsTo = make([]*Conversion, len(t.conversionsTo))
	for i, conv := range t.conversionsTo {
		cc := *conv
		c.conversionsTo[i] = &cc
	}
	return c
}

// Conversion is a directed coercion between two registered types.
type Conversion struct {
	From    string
	To      string
	Convert Converter

	index int
}

// Index is the global insertion counter value assigned at registration.
func (c *Conversion) Index() int { return c.index }

// sameConverter compares converters by code pointer.
// Closures created from the same literal compare equal.
func sameConverter(a, b Converter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// TypeTest is a frozen (name, classifier) pair.
type TypeTest struct {
	Name  string
	Test  Classifier
	IsAny bool
}

// Snapshot is an immutable copy of a registry's classifiers.
type Snapshot []TypeTest

// NamesOf returns the names of all non-any types accepting v, or ["any"].
func (s Snapshot) NamesOf(v any) []string {
	var names []string
	anyName := ""
	for _, t := range s {
		if t.IsAny {
			anyName = t.Name
			continue
		}
		if t.Test(v) {
			names = append(names, t.Name)
		}
	}
	if len(names) == 0 {
		if anyName == "" {
			anyName = "any"
		}
		return []string{anyName}
	}
	return names
}
