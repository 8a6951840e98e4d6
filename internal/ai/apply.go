package ai

import (
	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/schema"
)

// ApplyParsed copies a parsed AI response onto a copy of the record and
// stamps the provenance. Parse errors travel with the record's diagnostics
// so the merger preserves them in the final audit trail.
func ApplyParsed(reg *schema.Registry, rec book.Record, parsed Parsed, parseErrs []string) book.Record {
	out := rec.Clone()

	for _, f := range reg.EditionFields() {
		if value, ok := parsed.Edition[f.Name]; ok {
			book.SetEditionField(&out, f.Name, value)
		}
	}

	if len(parsed.Original) > 0 {
		original := &book.OriginalWork{}
		for _, f := range reg.OriginalFields() {
			if value, ok := parsed.Original[f.Name]; ok {
				book.SetOriginalField(original, f.Name, value)
			}
		}
		if !original.IsEmpty() {
			out.Original = original
		}
	}

	out.Source = "ai"
	out.Confidence = parsed.Confidence
	out.Errors = append(out.Errors, parseErrs...)
	return out
}
