package dispatch

import (
	"sort"

	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/internal/signature"
	"github.com/funvibe/overload/internal/typesystem"
)

// Source is anything that contributes signatures to a merge.
type Source interface {
	SourceName() string
	SourceEntries() []Entry
}

// Signatures is an ordered, unnamed signature set.
type Signatures []Entry

func (s Signatures) SourceName() string     { return "" }
func (s Signatures) SourceEntries() []Entry { return s }

// Named is a signature set asserting a function name.
type Named struct {
	Name       string
	Signatures Signatures
}

func (n Named) SourceName() string     { return n.Name }
func (n Named) SourceEntries() []Entry { return n.Signatures }

// A dispatcher contributes its declared signatures, unions included, so that
// references to a union signature still resolve after a merge.
func (d *Dispatcher) SourceName() string     { return d.name }
func (d *Dispatcher) SourceEntries() []Entry { return append([]Entry(nil), d.sources...) }

// FromMap converts a signature map into an ordered set, sorted by signature
// text so builds from the same map are reproducible.
func FromMap(m map[string]Impl) Signatures {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Signatures, len(keys))
	for i, k := range keys {
		out[i] = Entry{Signature: k, Impl: m[k]}
	}
	return out
}

// Merge unions the signatures of sources. Signatures are compared by their
// canonical text: the same implementation twice is kept once, two different
// implementations are an error. When name is empty, every non-empty source
// name must agree and becomes the merged name.
func Merge(reg *typesystem.Registry, name string, sources ...Source) (string, Signatures, error) {
	explicit := name != ""
	var merged Signatures
	index := make(map[string]int)

	for i, src := range sources {
		if src == nil {
			return "", nil, NewEmptySourceError(i)
		}
		if d, ok := src.(*Dispatcher); ok && !d.IsDispatcherOf(reg) {
			return "", nil, NewForeignDispatcherError(displayName(d.name))
		}
		entries := src.SourceEntries()
		if len(entries) == 0 {
			return "", nil, NewEmptySourceError(i)
		}
		if !explicit {
			if srcName := src.SourceName(); srcName != "" {
				if name != "" && name != srcName {
					return "", nil, NewNameMismatchError(name, srcName)
				}
				name = srcName
			}
		}

		for _, e := range entries {
			key, err := signature.Canonical(reg, e.Signature)
			if err != nil {
				return "", nil, err
			}
			if at, seen := index[key]; seen {
				if merged[at].Impl != e.Impl {
					return "", nil, NewDuplicateSignatureError(key)
				}
				continue
			}
			index[key] = len(merged)
			merged = append(merged, Entry{Signature: key, Impl: e.Impl})
		}
	}

	log.Debug(log.CatBuild, "merged signatures",
		"fn", displayName(name),
		"sources", len(sources),
		"signatures", len(merged))
	return name, merged, nil
}

// MergeBuild merges sources and builds the result.
func MergeBuild(reg *typesystem.Registry, name string, opts Options, sources ...Source) (*Dispatcher, error) {
	merged, entries, err := Merge(reg, name, sources...)
	if err != nil {
		return nil, err
	}
	return Build(reg, merged, entries, opts)
}
