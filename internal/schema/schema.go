// Package schema loads the book metadata contract: which fields exist per
// section, their types, and the labels and hints used to build AI prompts.
//
// Two contract encodings are in circulation. The flat encoding maps each
// field name to a descriptor object; the JSON-Schema encoding nests fields
// under properties and derives optionality from per-section required lists.
// Both normalize to the same Field descriptor behind one Registry.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"
)

//go:embed contracts/book_metadata.v1.json
var contractV1 []byte

//go:embed contracts/book_metadata.v2.json
var contractV2 []byte

// Field describes one metadata field of the contract.
type Field struct {
	Name     string
	Type     string // string | integer | number | date | array[T]
	Optional bool
	Label    string
	Hint     string
	Range    []float64 // numeric range, when declared
}

// Registry is the loaded, immutable schema. Build one with Load, or use
// Default for the process-wide registry backed by the embedded contract.
type Registry struct {
	version    string
	edition    []Field
	original   []Field
	confidence Field
	rules      []string
}

// Version returns the contract version string.
func (r *Registry) Version() string { return r.version }

// EditionFields returns the edition section's fields in declaration order.
func (r *Registry) EditionFields() []Field { return r.edition }

// OriginalFields returns the original-work section's fields in declaration order.
func (r *Registry) OriginalFields() []Field { return r.original }

// Confidence returns the confidence field descriptor.
func (r *Registry) Confidence() Field { return r.confidence }

// Rules returns the extraction rules the contract declares for the AI.
func (r *Registry) Rules() []string { return r.rules }

// FieldNamed looks a section field up by name.
func (r *Registry) FieldNamed(section, name string) (Field, bool) {
	var fields []Field
	switch section {
	case "edition":
		fields = r.edition
	case "original":
		fields = r.original
	default:
		return Field{}, false
	}
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	reg, err := Load(contractV1)
	if err != nil {
		// The embedded contract is a startup precondition; a broken
		// build cannot limp along without it.
		panic(fmt.Sprintf("schema: embedded contract invalid: %v", err))
	}
	return reg
})

// Default returns the process-wide registry, loading the embedded contract
// on first use. Safe for concurrent callers; all observe the same registry.
func Default() *Registry {
	return defaultRegistry()
}

// ParseType splits a contract type string into its base type and, for
// arrays, the element type.
func ParseType(typ string) (base string, elem string, isArray bool) {
	if strings.HasPrefix(typ, "array[") && strings.HasSuffix(typ, "]") {
		return "array", typ[len("array[") : len(typ)-1], true
	}
	return typ, "", false
}

// Validate reports whether a decoded JSON value conforms to the field's
// type. Numbers accept both integral and floating-point representations;
// date fields must be ISO-8601 parseable strings; array fields type-check
// every element.
func Validate(value any, f Field) bool {
	base, elem, isArray := ParseType(f.Type)
	if isArray {
		items, ok := value.([]any)
		if !ok {
			return false
		}
		ef := Field{Type: elem}
		for _, item := range items {
			if !Validate(item, ef) {
				return false
			}
		}
		return true
	}

	switch base {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch n := value.(type) {
		case float64:
			return n == float64(int64(n))
		case int, int64:
			return true
		}
		return false
	case "number":
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "date":
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, err := ParseDate(s)
		return err == nil
	}
	return false
}

// ParseDate parses an ISO-8601 date or datetime string.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", s)
}
