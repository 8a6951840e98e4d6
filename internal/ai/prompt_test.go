package ai

import (
	"strings"
	"testing"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/schema"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(schema.Default())

	for _, want := range []string{"title", "authors", "confidence", "Rules:", "JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildUserPrompt(t *testing.T) {
	rec := book.Record{
		OriginalFilename: "strugatsky_picnic.fb2",
		Directories:      []string{"sf", "strugatsky"},
		Title:            "Roadside Picnic",
		Authors:          []string{"Arkady Strugatsky", "Boris Strugatsky"},
	}

	prompt := BuildUserPrompt(schema.Default(), &rec)

	if !strings.Contains(prompt, "strugatsky_picnic.fb2") {
		t.Errorf("prompt missing filename:\n%s", prompt)
	}
	if !strings.Contains(prompt, "sf / strugatsky") {
		t.Errorf("prompt missing directory context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Roadside Picnic") {
		t.Errorf("prompt missing existing title:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Arkady Strugatsky, Boris Strugatsky") {
		t.Errorf("prompt missing joined authors:\n%s", prompt)
	}
}

func TestBuildUserPromptBareRecord(t *testing.T) {
	rec := book.Record{OriginalFilename: "unknown.epub"}
	prompt := BuildUserPrompt(schema.Default(), &rec)

	if strings.Contains(prompt, "Existing edition metadata") {
		t.Errorf("bare record should not advertise existing metadata:\n%s", prompt)
	}
}

func TestApplyParsed(t *testing.T) {
	seed := book.Record{OriginalFilename: "x.fb2", Extension: "fb2"}
	conf := 0.7
	parsed := Parsed{
		Edition:    map[string]any{"title": "T", "authors": []string{"A"}},
		Original:   map[string]any{"title": "OT"},
		Confidence: &conf,
	}

	out := ApplyParsed(schema.Default(), seed, parsed, []string{"warn"})

	if out.Title != "T" || len(out.Authors) != 1 {
		t.Errorf("edition not applied: %+v", out)
	}
	if out.Original == nil || out.Original.Title != "OT" {
		t.Errorf("original not applied: %+v", out.Original)
	}
	if out.Source != "ai" {
		t.Errorf("source = %q", out.Source)
	}
	if out.Confidence == nil || *out.Confidence != 0.7 {
		t.Errorf("confidence = %v", out.Confidence)
	}
	if len(out.Errors) != 1 || out.Errors[0] != "warn" {
		t.Errorf("errors = %v", out.Errors)
	}
	if seed.Title != "" {
		t.Errorf("input record mutated")
	}
}
