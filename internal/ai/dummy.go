package ai

import (
	"context"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Dummy is a deterministic offline provider for tests and dry runs.
type Dummy struct{}

// NewDummy returns the dummy provider.
func NewDummy() *Dummy {
	return &Dummy{}
}

func (d *Dummy) Name() string { return "dummy" }

// Enrich fills the record with fixed values, the way a fully confident
// model would.
func (d *Dummy) Enrich(_ context.Context, rec book.Record) book.Record {
	out := rec.Clone()

	out.Title = "Dummy Edition Title"
	out.Authors = []string{"Dummy Author"}
	out.Series = "Dummy Series"
	out.SeriesIndex = 1
	out.Language = "ru"
	out.Year = 2000

	out.Original = &book.OriginalWork{
		Title:    "Dummy Original Title",
		Authors:  []string{"Dummy Original Author"},
		Language: "en",
		Year:     1999,
	}

	out.Source = "ai"
	confidence := 1.0
	out.Confidence = &confidence
	return out
}
