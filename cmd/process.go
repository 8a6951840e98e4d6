package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/export"
	"github.com/shelfmark/shelfmark/internal/pipeline"
	"github.com/shelfmark/shelfmark/internal/scanner"
)

func newProcessCmd(configPath *string) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "process [path]",
		Short: "Process a single file or every book in the inbox",
		Long: `Process runs the full pipeline on the given file or directory. With no
argument it processes the configured inbox directory.

Examples:
  shelfmark process
  shelfmark process ./new_books/novel.fb2
  shelfmark process ./new_books --export run.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			target := cfg.Paths.NewBooksDir
			if len(args) == 1 {
				target = args[0]
			}

			records, err := collect(target, cfg.Paths.NewBooksDir)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				slog.Info("nothing to process", "path", target)
				return nil
			}

			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			results := p.ProcessAll(cmd.Context(), records)

			succeeded := 0
			rows := make([]export.Row, 0, len(results))
			for _, res := range results {
				if res.Success {
					succeeded++
				}
				rows = append(rows, export.RowFor(&res.Record, res.FinalPath, res.Success))
			}
			slog.Info("run finished", "processed", len(results), "succeeded", succeeded)

			if exportPath != "" {
				if err := export.Write(exportPath, rows); err != nil {
					return err
				}
				slog.Info("run report written", "path", exportPath)
			}

			if succeeded < len(results) {
				return fmt.Errorf("%d of %d files failed", len(results)-succeeded, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Write a run report to this .parquet or .jsonl file")
	return cmd
}

// collect resolves the target into seed records: one for a file, a full
// scan for a directory.
func collect(target, root string) ([]book.Record, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scanner.ScanDirectory(target)
	}
	rec, err := scanner.ScanFile(target, root)
	if err != nil {
		// A one-off file outside the inbox is still fair game; it just
		// carries no directory context.
		rec, err = scanner.ScanFile(target, filepath.Dir(target))
		if err != nil {
			return nil, err
		}
	}
	return []book.Record{rec}, nil
}
