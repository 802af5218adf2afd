// Package manifest declares types, conversions and dispatchers in an
// overload.yaml file.
//
// A manifest names entries from fixed catalogs: classifiers for new types,
// converters for conversions and implementations for signatures. It cannot
// introduce new Go code, only compose what the catalogs offer.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/internal/tracing"
)

// Manifest represents the top-level overload.yaml.
type Manifest struct {
	// Types lists extra types to register.
	Types []TypeSpec `yaml:"types,omitempty"`

	// Conversions lists conversions to register, in order. Order matters:
	// earlier conversions win ties during dispatch.
	Conversions []ConversionSpec `yaml:"conversions,omitempty"`

	// Functions lists the dispatchers to build, in order.
	Functions []FunctionSpec `yaml:"functions"`

	// Tracing configures span export for the CLI.
	Tracing tracing.Config `yaml:"tracing,omitempty"`
}

// TypeSpec declares a type backed by a catalog classifier.
type TypeSpec struct {
	Name       string `yaml:"name"`
	Classifier string `yaml:"classifier"`

	// Before is the type the new type is inserted ahead of.
	// Defaults to "Object".
	Before string `yaml:"before,omitempty"`
}

// ConversionSpec declares a conversion backed by a catalog converter.
type ConversionSpec struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Converter string `yaml:"converter"`

	// Override replaces an existing conversion for the same pair in place.
	Override bool `yaml:"override,omitempty"`
}

// FunctionSpec declares one dispatcher.
type FunctionSpec struct {
	Name       string          `yaml:"name"`
	Signatures []SignatureSpec `yaml:"signatures,omitempty"`

	// Merge lists previously declared functions whose signatures are merged
	// into this one.
	Merge []string `yaml:"merge,omitempty"`
}

// SignatureSpec binds a signature to an implementation.
type SignatureSpec struct {
	// Params is the signature text, e.g. "number, ...string".
	Params string `yaml:"params"`

	// Impl names a catalog implementation, or "each" for the function itself
	// applied to every element of an Array.
	Impl string `yaml:"impl,omitempty"`

	// Ref names a sibling signature whose implementation handles these params.
	// Mutually exclusive with Impl.
	Ref string `yaml:"ref,omitempty"`
}

// LoadManifest reads and parses an overload.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses overload.yaml content from bytes.
// The path argument is used only for error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	m.setDefaults()
	log.Debug(log.CatManifest, "parsed manifest",
		"path", path,
		"types", len(m.Types),
		"conversions", len(m.Conversions),
		"functions", len(m.Functions))
	return &m, nil
}

// FindManifest searches for overload.yaml starting from dir and walking up
// to parent directories. Returns the empty string and nil error when none
// exists.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.ManifestFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the manifest for semantic errors. Type names inside
// signatures are checked later, against the registry.
func (m *Manifest) validate(path string) error {
	if len(m.Functions) == 0 {
		return fmt.Errorf("%s: no functions defined", path)
	}

	for i, t := range m.Types {
		if t.Name == "" {
			return fmt.Errorf("%s: types[%d]: name is required", path, i)
		}
		if t.Classifier == "" {
			return fmt.Errorf("%s: types[%d] (%s): classifier is required", path, i, t.Name)
		}
		if _, ok := Classifiers[t.Classifier]; !ok {
			return fmt.Errorf("%s: types[%d] (%s): unknown classifier %q (available: %s)",
				path, i, t.Name, t.Classifier, strings.Join(catalogNames(Classifiers), ", "))
		}
	}

	for i, c := range m.Conversions {
		if c.From == "" || c.To == "" {
			return fmt.Errorf("%s: conversions[%d]: from and to are required", path, i)
		}
		if c.Converter == "" {
			return fmt.Errorf("%s: conversions[%d] (%s -> %s): converter is required", path, i, c.From, c.To)
		}
		if _, ok := Converters[c.Converter]; !ok {
			return fmt.Errorf("%s: conversions[%d] (%s -> %s): unknown converter %q (available: %s)",
				path, i, c.From, c.To, c.Converter, strings.Join(catalogNames(Converters), ", "))
		}
	}

	seen := make(map[string]bool)
	for i, fn := range m.Functions {
		if fn.Name == "" {
			return fmt.Errorf("%s: functions[%d]: name is required", path, i)
		}
		if seen[fn.Name] {
			return fmt.Errorf("%s: functions[%d]: function %q is declared twice", path, i, fn.Name)
		}
		if len(fn.Signatures) == 0 && len(fn.Merge) == 0 {
			return fmt.Errorf("%s: functions[%d] (%s): signatures or merge is required", path, i, fn.Name)
		}
		for _, src := range fn.Merge {
			if !seen[src] {
				return fmt.Errorf("%s: functions[%d] (%s): merge source %q must be declared earlier",
					path, i, fn.Name, src)
			}
		}
		for j, sig := range fn.Signatures {
			if sig.Impl == "" && sig.Ref == "" {
				return fmt.Errorf("%s: functions[%d].signatures[%d] (%s): impl or ref is required",
					path, i, j, fn.Name)
			}
			if sig.Impl != "" && sig.Ref != "" {
				return fmt.Errorf("%s: functions[%d].signatures[%d] (%s): impl and ref are mutually exclusive",
					path, i, j, fn.Name)
			}
			if sig.Impl != "" && sig.Impl != SelfImpl {
				if _, ok := Implementations[sig.Impl]; !ok {
					return fmt.Errorf("%s: functions[%d].signatures[%d] (%s): unknown impl %q (available: %s, %s)",
						path, i, j, fn.Name, sig.Impl, strings.Join(catalogNames(Implementations), ", "), SelfImpl)
				}
			}
		}
		seen[fn.Name] = true
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (m *Manifest) setDefaults() {
	for i := range m.Types {
		if m.Types[i].Before == "" {
			m.Types[i].Before = config.ObjectTypeName
		}
	}
	if m.Tracing.Exporter == "" {
		m.Tracing.Exporter = tracing.DefaultConfig().Exporter
	}
	if m.Tracing.ServiceName == "" {
		m.Tracing.ServiceName = tracing.DefaultConfig().ServiceName
	}
}
