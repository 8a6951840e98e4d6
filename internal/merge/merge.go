// Package merge reconciles candidate records from different sources into
// one. Higher-priority sources win; lower-priority candidates only fill
// gaps, never overwrite.
package merge

import (
	"errors"
	"sort"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/schema"
)

// ErrNoRecords is returned when Merge is given nothing to merge.
var ErrNoRecords = errors.New("no records to merge")

func priority(source string) int {
	switch source {
	case "ai":
		return 3
	case "file":
		return 2
	case "":
		return 1
	default:
		return 0
	}
}

// Merge folds candidate records into one, first-writer-wins by source
// priority (ai over file over unset). The base is a deep copy of the
// highest-priority candidate; diagnostics are concatenated from every
// candidate, confidence is the maximum declared, and the source collapses
// to "mixed" when the candidates disagree.
func Merge(records []book.Record) (book.Record, error) {
	if len(records) == 0 {
		return book.Record{}, ErrNoRecords
	}

	ordered := make([]book.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priority(ordered[i].Source) > priority(ordered[j].Source)
	})

	base := ordered[0].Clone()
	for i := 1; i < len(ordered); i++ {
		mergeInto(&base, &ordered[i])
	}

	sources := map[string]bool{}
	for _, r := range ordered {
		if r.Source != "" {
			sources[r.Source] = true
		}
	}
	if len(sources) > 1 {
		base.Source = "mixed"
	}

	for _, r := range ordered {
		if r.Confidence != nil && (base.Confidence == nil || *r.Confidence > *base.Confidence) {
			c := *r.Confidence
			base.Confidence = &c
		}
	}

	return base, nil
}

func mergeInto(target, incoming *book.Record) {
	for _, f := range schema.Default().EditionFields() {
		if _, set := book.EditionValue(target, f.Name); set {
			continue
		}
		if value, set := book.EditionValue(incoming, f.Name); set {
			book.SetEditionField(target, f.Name, value)
		}
	}

	if target.Original == nil && incoming.Original != nil {
		target.Original = incoming.Original.Clone()
	}

	target.Errors = append(target.Errors, incoming.Errors...)
	target.Notes = append(target.Notes, incoming.Notes...)
}
