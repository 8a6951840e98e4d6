// Package pipeline runs the end-to-end processing of one ebook file:
// scan, read embedded metadata, enrich, merge, clean, write back, rename
// and move into the library.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shelfmark/shelfmark/internal/ai"
	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/clean"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/merge"
	"github.com/shelfmark/shelfmark/internal/metadata"
	"github.com/shelfmark/shelfmark/internal/metadata/epub"
	"github.com/shelfmark/shelfmark/internal/metadata/fb2"
	"github.com/shelfmark/shelfmark/internal/mover"
	"github.com/shelfmark/shelfmark/internal/naming"
)

// Result reports what happened to one file.
type Result struct {
	Success   bool
	Record    book.Record
	FinalPath string
	Errors    []string
}

// Pipeline wires the processing steps together for a configured run.
type Pipeline struct {
	cfg      config.Config
	registry *metadata.Registry
	renderer *naming.Renderer
	provider ai.Provider
	tracer   *Tracer
}

// New assembles a pipeline from the configuration. The enrichment provider
// must already be registered under the configured name.
func New(cfg config.Config) (*Pipeline, error) {
	provider, err := ai.Get(cfg.AI.Provider)
	if err != nil {
		return nil, err
	}
	renderer, err := naming.NewRenderer(cfg.Naming.Template, cfg.Naming.Missing)
	if err != nil {
		return nil, err
	}
	tracer, err := NewTracer(cfg.Debug.Dir)
	if err != nil {
		return nil, err
	}

	registry := metadata.NewRegistry(
		[]metadata.Reader{fb2.NewReader(), epub.NewReader()},
		[]metadata.Writer{fb2.NewWriter(), epub.NewWriter()},
	)

	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		renderer: renderer,
		provider: provider,
		tracer:   tracer,
	}, nil
}

// ProcessFile runs one seed record through every step. Failures in a step
// accumulate on the record; the file only moves when metadata was written
// successfully.
func (p *Pipeline) ProcessFile(ctx context.Context, seed book.Record) Result {
	log := slog.With("file", seed.OriginalFilename)
	p.tracer.Trace("scan", &seed)

	fromFile := p.registry.Read(seed)
	p.tracer.Trace("read", &fromFile)

	fromAI := p.provider.Enrich(ctx, seed)
	p.tracer.Trace("enrich", &fromAI)

	merged, err := merge.Merge([]book.Record{fromFile, fromAI})
	if err != nil {
		log.Error("merge failed", "error", err)
		return Result{Record: seed, Errors: []string{err.Error()}}
	}
	p.tracer.Trace("merge", &merged)

	final := clean.Scrub(merged)
	p.tracer.Trace("clean", &final)

	result := p.registry.Write(final)
	p.tracer.Trace("write", &final)
	if !result.Success && !result.Skipped {
		final.Errors = append(final.Errors, result.Errors...)
		log.Error("metadata write failed", "errors", result.Errors)
		return Result{Record: final, Errors: final.Errors}
	}
	if result.Skipped {
		log.Warn("no metadata writer for extension", "extension", final.Extension)
	}

	filename := final.OriginalFilename
	if name, ok, err := p.renderer.Render(&final); err != nil {
		final.AddError(err.Error())
		log.Warn("rename failed, keeping original name", "error", err)
	} else if ok {
		filename = name + "." + final.Extension
	}

	dst, err := mover.MoveFile(final.Path, p.cfg.Paths.ReadyBooksDir, filename)
	if err != nil {
		final.AddError(err.Error())
		log.Error("move failed", "error", err)
		return Result{Record: final, Errors: final.Errors}
	}
	final.Path = dst
	p.tracer.Trace("move", &final)

	log.Info("processed",
		"title", final.Title,
		"authors", final.Authors,
		"destination", filepath.Base(dst))
	return Result{Success: true, Record: final, FinalPath: dst, Errors: final.Errors}
}

// ProcessAll runs every record in order, honoring context cancellation
// between files.
func (p *Pipeline) ProcessAll(ctx context.Context, records []book.Record) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{
				Record: rec,
				Errors: []string{fmt.Sprintf("canceled: %v", err)},
			})
			continue
		}
		results = append(results, p.ProcessFile(ctx, rec))
	}
	return results
}
