package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRuntime is the import path of the runtime package used by generated code.
const DefaultRuntime = "display-generator/display"

// LoadFile loads and parses a YAML display definition file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// ParseType parses a single YAML type definition.
func ParseType(data []byte) (*TypeDef, error) {
	var t TypeDef

	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse type YAML: %w", err)
	}

	applyTypeDefaults(&t, DefaultRuntime)

	return &t, nil
}

// MustParseType is like ParseType but panics on error. It is used by
// generated code that embeds type definitions.
func MustParseType(src string) *TypeDef {
	t, err := ParseType([]byte(src))
	if err != nil {
		panic(err)
	}

	return t
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Runtime == "" {
		f.Runtime = DefaultRuntime
	}

	for i := range f.Types {
		applyTypeDefaults(&f.Types[i], f.Runtime)
	}
}

func applyTypeDefaults(t *TypeDef, runtime string) {
	if t.Kind == "" {
		if len(t.Variants) > 0 {
			t.Kind = KindEnum
		} else {
			t.Kind = KindStruct
		}
	}

	if t.Runtime == "" {
		t.Runtime = runtime
	}

	if t.WidthMode == "" {
		t.WidthMode = WidthRunes
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// MarshalType serializes a single TypeDef to YAML.
func MarshalType(t *TypeDef) ([]byte, error) {
	return yaml.Marshal(t)
}

// Type returns the type with the given name.
func (f *File) Type(name string) (*TypeDef, bool) {
	for i := range f.Types {
		if f.Types[i].Name == name {
			return &f.Types[i], true
		}
	}

	return nil, false
}
