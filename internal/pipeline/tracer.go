package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Tracer dumps the record after each pipeline step into a per-session
// debug directory as YAML, one file per step. A nil Tracer is a no-op.
type Tracer struct {
	dir  string
	step int
}

// NewTracer creates a session directory under dir and returns a tracer
// writing into it. Returns nil (trace disabled) when dir is empty.
func NewTracer(dir string) (*Tracer, error) {
	if dir == "" {
		return nil, nil
	}
	session := filepath.Join(dir, uuid.NewString())
	if err := os.MkdirAll(session, 0o755); err != nil {
		return nil, fmt.Errorf("tracer: %w", err)
	}
	return &Tracer{dir: session}, nil
}

// Trace records the state of the record after the named step. Trace
// failures are logged, never propagated: debugging must not fail the run.
func (t *Tracer) Trace(step string, rec *book.Record) {
	if t == nil {
		return
	}
	t.step++
	name := filepath.Join(t.dir, fmt.Sprintf("%02d_%s.yaml", t.step, step))

	data, err := yaml.Marshal(rec)
	if err != nil {
		slog.Warn("trace marshal failed", "step", step, "error", err)
		return
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		slog.Warn("trace write failed", "step", step, "error", err)
	}
}
