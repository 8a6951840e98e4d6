package naming

import (
	"strings"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/internal/book"
)

func TestRenderFullRecord(t *testing.T) {
	rec := book.Record{
		Title:       "Roadside Picnic",
		Authors:     []string{"Arkady Strugatsky", "Boris Strugatsky"},
		Series:      "Stalker",
		SeriesIndex: 1,
		Published:   time.Date(1972, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	r, err := NewRenderer("{Authors} - {Title} ({Published:yyyy})", MissingSkip)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	name, ok, err := r.Render(&rec)
	if err != nil || !ok {
		t.Fatalf("Render: %v, ok=%v", err, ok)
	}
	want := "Arkady Strugatsky, Boris Strugatsky - Roadside Picnic (1972)"
	if name != want {
		t.Errorf("name = %q, want %q", name, want)
	}
}

func TestRenderDateFormats(t *testing.T) {
	rec := book.Record{Published: time.Date(1972, time.June, 3, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		template string
		want     string
	}{
		{"{Published:yyyy}", "1972"},
		{"{Published:yyyy-MM}", "1972-06"},
		{"{Published:yyyy-MM-dd}", "1972-06-03"},
		{"{Published}", "1972-06-03"},
	}

	for _, tt := range tests {
		r, err := NewRenderer(tt.template, MissingError)
		if err != nil {
			t.Fatalf("NewRenderer(%q): %v", tt.template, err)
		}
		name, ok, err := r.Render(&rec)
		if err != nil || !ok {
			t.Fatalf("Render(%q): %v, ok=%v", tt.template, err, ok)
		}
		if name != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.template, name, tt.want)
		}
	}
}

func TestRenderMissingPolicies(t *testing.T) {
	rec := book.Record{Title: "T"} // no series

	t.Run("skip", func(t *testing.T) {
		r, _ := NewRenderer("{Title} - {SeriesName}", MissingSkip)
		_, ok, err := r.Render(&rec)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if ok {
			t.Errorf("skip policy should report not ok")
		}
	})

	t.Run("empty", func(t *testing.T) {
		r, _ := NewRenderer("{Title} - {SeriesName}", MissingEmpty)
		name, ok, err := r.Render(&rec)
		if err != nil || !ok {
			t.Fatalf("Render: %v, ok=%v", err, ok)
		}
		if name != "T" {
			t.Errorf("name = %q, want dangling separator trimmed", name)
		}
	})

	t.Run("error", func(t *testing.T) {
		r, _ := NewRenderer("{Title} - {SeriesName}", MissingError)
		_, _, err := r.Render(&rec)
		if err == nil || !strings.Contains(err.Error(), "SeriesName") {
			t.Errorf("err = %v, want missing-placeholder error", err)
		}
	})
}

func TestRenderUnknownPlaceholder(t *testing.T) {
	r, _ := NewRenderer("{Nope}", MissingSkip)
	_, _, err := r.Render(&book.Record{})
	if err == nil || !strings.Contains(err.Error(), "unknown placeholder") {
		t.Errorf("err = %v", err)
	}
}

func TestNewRendererValidation(t *testing.T) {
	if _, err := NewRenderer("{Title}", "explode"); err == nil {
		t.Errorf("unknown missing policy accepted")
	}
	if _, err := NewRenderer("", MissingSkip); err == nil {
		t.Errorf("empty template accepted")
	}
}

func TestBuildFilename(t *testing.T) {
	rec := book.Record{Title: "Solaris", Authors: []string{"Stanislaw Lem"}}
	name, ok, err := BuildFilename(&rec, "{Authors} - {Title}", MissingSkip)
	if err != nil || !ok || name != "Stanislaw Lem - Solaris" {
		t.Errorf("BuildFilename = %q, %v, %v", name, ok, err)
	}
}

func TestRenderYearFallsBackToPublished(t *testing.T) {
	rec := book.Record{Published: time.Date(1972, time.June, 1, 0, 0, 0, 0, time.UTC)}
	r, _ := NewRenderer("{Year}", MissingError)
	name, ok, err := r.Render(&rec)
	if err != nil || !ok || name != "1972" {
		t.Errorf("Render = %q, %v, %v", name, ok, err)
	}
}
