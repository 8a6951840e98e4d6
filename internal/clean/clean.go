// Package clean scrubs null-equivalent placeholder values out of records.
// Language models and file metadata both like to spell absence as "N/A" or
// "unknown"; downstream code only understands empty.
package clean

import (
	"strings"

	"github.com/shelfmark/shelfmark/internal/book"
)

var nullEquivalents = map[string]bool{
	"":          true,
	"null":      true,
	"none":      true,
	"n/a":       true,
	"na":        true,
	"unknown":   true,
	"undefined": true,
	"-":         true,
	"nil":       true,
}

func isNullish(value string) bool {
	return nullEquivalents[strings.ToLower(strings.TrimSpace(value))]
}

// Scrub returns a copy of the record with placeholder values blanked out.
// List fields drop nullish elements; an original-work block that ends up
// with nothing in it is removed entirely.
func Scrub(rec book.Record) book.Record {
	out := rec.Clone()

	scrub(&out.Title)
	scrub(&out.Subtitle)
	out.Authors = scrubList(out.Authors)
	scrub(&out.Series)
	scrub(&out.Language)
	scrub(&out.Publisher)
	scrub(&out.ISBN10)
	scrub(&out.ISBN13)
	scrub(&out.ASIN)
	scrub(&out.Description)
	out.Tags = scrubList(out.Tags)

	if orig := out.Original; orig != nil {
		scrub(&orig.Title)
		orig.Authors = scrubList(orig.Authors)
		scrub(&orig.Language)
		if orig.Title == "" && len(orig.Authors) == 0 && orig.Language == "" && orig.Year == 0 {
			out.Original = nil
		}
	}

	return out
}

func scrub(value *string) {
	if isNullish(*value) {
		*value = ""
	}
}

func scrubList(values []string) []string {
	var out []string
	for _, v := range values {
		if !isNullish(v) {
			out = append(out, v)
		}
	}
	return out
}
