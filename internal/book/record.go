package book

import "time"

// Record holds everything known about one ebook file: where it came from,
// its edition metadata, the original work when the edition is a translation,
// and every diagnostic collected along the way.
//
// Identity fields (Path, OriginalFilename, Extension, Directories) are set
// once by the scanner and never change. Stages that enrich a record operate
// on a Clone and return the new value; they never mutate their input.
type Record struct {
	// File identity
	Path             string
	OriginalFilename string
	Extension        string
	Directories      []string

	// Edition metadata
	Title       string
	Subtitle    string
	Authors     []string
	Series      string
	SeriesIndex int
	SeriesTotal int
	Language    string
	Publisher   string
	ISBN10      string
	ISBN13      string
	ASIN        string
	Published   time.Time
	Year        int
	Description string
	Tags        []string

	// Original work, when this edition is a translation
	Original *OriginalWork

	// Provenance
	Source     string // "file", "ai", "mixed" or empty when unset
	Confidence *float64

	// Diagnostics, append-only
	Errors []string
	Notes  []string
}

// OriginalWork describes the source work an edition was translated from.
type OriginalWork struct {
	Title    string
	Authors  []string
	Language string
	Year     int
}

// IsEmpty reports whether the original work carries no information at all.
// An all-empty OriginalWork must collapse to nil on the record.
func (o *OriginalWork) IsEmpty() bool {
	return o == nil || (o.Title == "" && len(o.Authors) == 0 && o.Language == "" && o.Year == 0)
}

// Clone returns an independent copy of the original work.
func (o *OriginalWork) Clone() *OriginalWork {
	if o == nil {
		return nil
	}
	out := *o
	out.Authors = append([]string(nil), o.Authors...)
	return &out
}

// Clone returns a deep copy of the record. Slices, the original work and the
// confidence value are all independent of the receiver.
func (r Record) Clone() Record {
	out := r
	out.Directories = append([]string(nil), r.Directories...)
	out.Authors = append([]string(nil), r.Authors...)
	out.Tags = append([]string(nil), r.Tags...)
	out.Errors = append([]string(nil), r.Errors...)
	out.Notes = append([]string(nil), r.Notes...)
	out.Original = r.Original.Clone()
	if r.Confidence != nil {
		c := *r.Confidence
		out.Confidence = &c
	}
	return out
}

// AddError appends a diagnostic error string.
func (r *Record) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddNote appends a diagnostic note string.
func (r *Record) AddNote(msg string) {
	r.Notes = append(r.Notes, msg)
}
