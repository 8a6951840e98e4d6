// Package metadata defines the container-format reader/writer contracts and
// the extension-dispatch registry that routes a record to the right one.
// The set of formats is closed: FB2 and EPUB, registered by the pipeline.
package metadata

import (
	"strings"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Reader extracts metadata from a container into a record. Readers are
// fill-only: a field already set on the input is never overwritten. A
// markup parse failure is appended to the record's diagnostics, not raised.
type Reader interface {
	Supports(rec *book.Record) bool
	Read(rec book.Record) book.Record
}

// Writer serializes a record back into its container, preserving all
// unrelated document structure.
type Writer interface {
	Extensions() []string
	Write(rec book.Record) WriteResult
}

// WriteResult is the tri-state outcome of a write: success, skipped because
// no writer handles the extension (not an error), or failed with errors.
type WriteResult struct {
	Success bool
	Skipped bool
	Errors  []string
}

// Registry dispatches records to format readers and writers by extension.
type Registry struct {
	readers []Reader
	writers map[string]Writer
}

// NewRegistry builds a registry over a fixed set of formats.
func NewRegistry(readers []Reader, writers []Writer) *Registry {
	reg := &Registry{
		readers: readers,
		writers: map[string]Writer{},
	}
	for _, w := range writers {
		for _, ext := range w.Extensions() {
			reg.writers[strings.ToLower(ext)] = w
		}
	}
	return reg
}

// Read runs the first reader that supports the record's format. Records in
// unsupported formats pass through unchanged.
func (r *Registry) Read(rec book.Record) book.Record {
	for _, reader := range r.readers {
		if reader.Supports(&rec) {
			return reader.Read(rec)
		}
	}
	return rec
}

// Write routes the record to the writer for its extension, or reports a
// skip when no writer is registered.
func (r *Registry) Write(rec book.Record) WriteResult {
	w, ok := r.writers[strings.ToLower(rec.Extension)]
	if !ok {
		return WriteResult{Skipped: true}
	}
	return w.Write(rec)
}
