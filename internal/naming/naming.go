// Package naming renders filename templates from record metadata.
// Templates use {Placeholder} or {Placeholder:format} syntax, e.g.
// "{Authors} - {Title} ({Published:yyyy})".
package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Missing policies control what happens when a placeholder resolves to an
// absent field.
const (
	MissingSkip  = "skip"  // leave the whole file name decision to the caller
	MissingEmpty = "empty" // substitute an empty string and tidy up
	MissingError = "error" // fail the rename
)

var placeholderRe = regexp.MustCompile(`\{([^}:]+)(?::([^}]+))?\}`)

// Renderer expands a filename template against records.
type Renderer struct {
	template string
	missing  string
}

// NewRenderer validates the missing policy and returns a renderer for the
// template.
func NewRenderer(template, missing string) (*Renderer, error) {
	switch missing {
	case MissingSkip, MissingEmpty, MissingError:
	default:
		return nil, fmt.Errorf("naming: unknown missing policy %q", missing)
	}
	if template == "" {
		return nil, fmt.Errorf("naming: empty template")
	}
	return &Renderer{template: template, missing: missing}, nil
}

// Render produces the file name (without extension) for the record.
// ok=false means the skip policy fired and the original name should be kept.
func (r *Renderer) Render(rec *book.Record) (name string, ok bool, err error) {
	skipped := false
	var renderErr error

	out := placeholderRe.ReplaceAllStringFunc(r.template, func(match string) string {
		groups := placeholderRe.FindStringSubmatch(match)
		value, present, known := placeholderValue(rec, groups[1], groups[2])
		if !known {
			if renderErr == nil {
				renderErr = fmt.Errorf("naming: unknown placeholder %q", groups[1])
			}
			return ""
		}
		if !present {
			switch r.missing {
			case MissingSkip:
				skipped = true
			case MissingError:
				if renderErr == nil {
					renderErr = fmt.Errorf("naming: no value for placeholder %q", groups[1])
				}
			}
			return ""
		}
		return value
	})

	if renderErr != nil {
		return "", false, renderErr
	}
	if skipped {
		return "", false, nil
	}
	return cleanup(out), true, nil
}

// BuildFilename is the one-shot form of Render for callers without a
// long-lived renderer.
func BuildFilename(rec *book.Record, template, missing string) (string, bool, error) {
	r, err := NewRenderer(template, missing)
	if err != nil {
		return "", false, err
	}
	return r.Render(rec)
}

// cleanup collapses runs of whitespace left behind by empty substitutions
// and strips separator punctuation dangling at either end.
func cleanup(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, " _.-")
	return name
}
