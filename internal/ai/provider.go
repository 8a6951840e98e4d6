// Package ai holds the AI enrichment layer: the provider abstraction, the
// schema-driven prompt builder, and the response parser that converts an
// untyped model reply into schema-conformant record fields.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Provider enriches a record with AI-extracted metadata. Implementations
// must return a new record and never mutate the input; network or parse
// failures are appended to the returned record's diagnostics rather than
// escaping the stage.
type Provider interface {
	Name() string
	Enrich(ctx context.Context, rec book.Record) book.Record
}

var (
	mu        sync.RWMutex
	providers = map[string]Provider{}
)

// Register makes a provider available under its name.
func Register(p Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[p.Name()] = p
}

// Get looks a registered provider up by name.
func Get(name string) (Provider, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %q (registered: %v)", name, names())
	}
	return p, nil
}

// Enrich runs the named provider against the record.
func Enrich(ctx context.Context, rec book.Record, name string) (book.Record, error) {
	p, err := Get(name)
	if err != nil {
		return rec, err
	}
	return p.Enrich(ctx, rec), nil
}

func names() []string {
	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
