package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/internal/schema"
)

func TestParseValidResponse(t *testing.T) {
	raw := `{
		"edition": {
			"title": "Roadside Picnic",
			"authors": ["Arkady Strugatsky", "Boris Strugatsky"],
			"year": 1972,
			"published": "1972-06-01",
			"tags": ["science fiction"]
		},
		"original": {
			"title": "Пикник на обочине",
			"language": "ru"
		},
		"confidence": 0.9
	}`

	parsed, errs := Parse(schema.Default(), raw)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if parsed.Edition["title"] != "Roadside Picnic" {
		t.Errorf("title = %v", parsed.Edition["title"])
	}
	if authors, ok := parsed.Edition["authors"].([]string); !ok || len(authors) != 2 {
		t.Errorf("authors = %v", parsed.Edition["authors"])
	}
	if year, ok := parsed.Edition["year"].(int); !ok || year != 1972 {
		t.Errorf("year = %v", parsed.Edition["year"])
	}
	if published, ok := parsed.Edition["published"].(time.Time); !ok || published.Year() != 1972 {
		t.Errorf("published = %v", parsed.Edition["published"])
	}
	if parsed.Original["language"] != "ru" {
		t.Errorf("original.language = %v", parsed.Original["language"])
	}
	if parsed.Confidence == nil || *parsed.Confidence != 0.9 {
		t.Errorf("confidence = %v", parsed.Confidence)
	}
}

func TestParsePartialFailure(t *testing.T) {
	raw := `{"edition": {"title": "T", "authors": "not a list"}}`

	parsed, errs := Parse(schema.Default(), raw)

	if parsed.Edition["title"] != "T" {
		t.Errorf("valid title should survive a sibling failure, got %v", parsed.Edition["title"])
	}
	if _, present := parsed.Edition["authors"]; present {
		t.Errorf("invalid authors value should be dropped")
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "edition.authors") {
		t.Errorf("errs = %v", errs)
	}
}

func TestParseConfidenceOutOfRange(t *testing.T) {
	parsed, errs := Parse(schema.Default(), `{"edition": {"title": "T"}, "confidence": 1.5}`)

	if parsed.Confidence != nil {
		t.Errorf("out-of-range confidence should not be kept, got %v", *parsed.Confidence)
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e, "out of range") {
			found = true
		}
	}
	if !found {
		t.Errorf("errs = %v, want out-of-range diagnostic", errs)
	}
	if parsed.Edition["title"] != "T" {
		t.Errorf("edition fields should survive a confidence failure")
	}
}

func TestParseInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"not json", "{{{", "invalid json"},
		{"wrong type", 42, "neither json text nor an object"},
		{"json null", "null", "top-level json is not an object"},
		{"section not object", `{"edition": []}`, "edition must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(schema.Default(), tt.raw)
			if len(errs) == 0 || !strings.Contains(errs[0], tt.want) {
				t.Errorf("errs = %v, want %q", errs, tt.want)
			}
		})
	}
}

func TestParseBadDate(t *testing.T) {
	_, errs := Parse(schema.Default(), `{"edition": {"published": "June 1972"}}`)
	if len(errs) != 1 || !strings.Contains(errs[0], "edition.published") {
		t.Errorf("errs = %v", errs)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{}\n```", "{}"},
		{`{"a": 1}`, `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
