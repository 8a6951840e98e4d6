package schema

import (
	"testing"
)

const flatContractDoc = `{
  "version": "1",
  "fields": {
    "edition": {
      "title": {"type": "string", "optional": false, "prompt_label": "Title"},
      "authors": {"type": "array[string]", "optional": false, "prompt_label": "Authors"},
      "year": {"type": "integer", "prompt_label": "Year"},
      "published": {"type": "date", "prompt_label": "Publication date"}
    },
    "original": {
      "title": {"type": "string", "prompt_label": "Original title"}
    },
    "confidence": {"type": "number", "prompt_label": "Confidence", "range": [0, 1]}
  },
  "rules": ["Prefer printed metadata over guesses."]
}`

const jsonSchemaContract = `{
  "version": "2",
  "properties": {
    "edition": {
      "type": "object",
      "required": ["title", "authors"],
      "properties": {
        "title": {"type": "string", "description": "Title. The edition title as printed."},
        "authors": {"type": "array", "items": {"type": "string"}, "description": "Authors"},
        "year": {"type": "integer", "description": "Year"},
        "published": {"type": "string", "format": "date", "description": "Publication date"}
      }
    },
    "original": {
      "type": "object",
      "properties": {
        "title": {"type": "string", "description": "Original title"}
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1, "description": "Confidence"}
  },
  "rules": ["Prefer printed metadata over guesses."]
}`

func TestLoadBothEncodings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"flat", flatContractDoc},
		{"json-schema", jsonSchemaContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Load([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			edition := reg.EditionFields()
			wantOrder := []string{"title", "authors", "year", "published"}
			if len(edition) != len(wantOrder) {
				t.Fatalf("edition fields = %d, want %d", len(edition), len(wantOrder))
			}
			for i, name := range wantOrder {
				if edition[i].Name != name {
					t.Errorf("edition[%d] = %q, want %q (declaration order lost)", i, edition[i].Name, name)
				}
			}

			byName := map[string]Field{}
			for _, f := range edition {
				byName[f.Name] = f
			}
			if byName["title"].Optional {
				t.Errorf("title should be required")
			}
			if byName["authors"].Optional {
				t.Errorf("authors should be required")
			}
			if !byName["year"].Optional {
				t.Errorf("year should be optional")
			}
			if byName["authors"].Type != "array[string]" {
				t.Errorf("authors type = %q", byName["authors"].Type)
			}
			if byName["published"].Type != "date" {
				t.Errorf("published type = %q", byName["published"].Type)
			}

			if got := reg.OriginalFields(); len(got) != 1 || got[0].Name != "title" {
				t.Errorf("original fields = %v", got)
			}

			c := reg.Confidence()
			if c.Type != "number" {
				t.Errorf("confidence type = %q", c.Type)
			}
			if len(c.Range) != 2 || c.Range[0] != 0 || c.Range[1] != 1 {
				t.Errorf("confidence range = %v", c.Range)
			}

			if rules := reg.Rules(); len(rules) != 1 {
				t.Errorf("rules = %v", rules)
			}
		})
	}
}

func TestLoadRejectsUnknownShape(t *testing.T) {
	if _, err := Load([]byte(`{"version": "1"}`)); err == nil {
		t.Fatalf("contract without fields or properties accepted")
	}
	if _, err := Load([]byte(`not json`)); err == nil {
		t.Fatalf("malformed document accepted")
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := Default()
	if reg != Default() {
		t.Errorf("Default should return the same registry")
	}
	if f, ok := reg.FieldNamed("edition", "title"); !ok || f.Optional {
		t.Errorf("embedded contract: title = %+v, ok = %v", f, ok)
	}
	if _, ok := reg.FieldNamed("edition", "no_such_field"); ok {
		t.Errorf("unknown field reported as present")
	}
}

func TestParseType(t *testing.T) {
	base, elem, isArray := ParseType("array[string]")
	if base != "array" || elem != "string" || !isArray {
		t.Errorf("ParseType(array[string]) = %q, %q, %v", base, elem, isArray)
	}
	base, _, isArray = ParseType("integer")
	if base != "integer" || isArray {
		t.Errorf("ParseType(integer) = %q, %v", base, isArray)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		field Field
		want  bool
	}{
		{"string ok", "x", Field{Type: "string"}, true},
		{"string wrong type", 3.0, Field{Type: "string"}, false},
		{"integer integral float", float64(1972), Field{Type: "integer"}, true},
		{"integer fractional float", 19.72, Field{Type: "integer"}, false},
		{"number float", 0.5, Field{Type: "number"}, true},
		{"number string", "0.5", Field{Type: "number"}, false},
		{"date iso", "1972-06-01", Field{Type: "date"}, true},
		{"date garbage", "June 1972", Field{Type: "date"}, false},
		{"array of strings", []any{"a", "b"}, Field{Type: "array[string]"}, true},
		{"array mixed", []any{"a", 1.0}, Field{Type: "array[string]"}, false},
		{"array not a list", "a", Field{Type: "array[string]"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.value, tt.field); got != tt.want {
				t.Errorf("Validate(%v, %s) = %v, want %v", tt.value, tt.field.Type, got, tt.want)
			}
		})
	}
}
