package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/pipeline"
	"github.com/shelfmark/shelfmark/internal/scanner"
)

func newWatchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox and process books as they arrive",
		Long: `Watch keeps running, processing new files dropped into the inbox.
Filesystem events trigger a scan; a periodic rescan catches anything the
events missed. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			if err := watcher.Add(cfg.Paths.NewBooksDir); err != nil {
				return err
			}

			interval := time.Duration(cfg.Watch.SleepSeconds) * time.Second
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			slog.Info("watching", "dir", cfg.Paths.NewBooksDir, "rescan", interval)

			ctx := cmd.Context()
			// Settle delay so half-copied files are not picked up mid-write.
			settle := time.NewTimer(0)
			if !settle.Stop() {
				<-settle.C
			}

			for {
				select {
				case <-ctx.Done():
					slog.Info("watch stopped")
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
						settle.Reset(2 * time.Second)
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("watch error", "error", err)
				case <-settle.C:
					processInbox(ctx, p, cfg.Paths.NewBooksDir)
				case <-ticker.C:
					processInbox(ctx, p, cfg.Paths.NewBooksDir)
				}
			}
		},
	}
}

func processInbox(ctx context.Context, p *pipeline.Pipeline, dir string) {
	records, err := scanner.ScanDirectory(dir)
	if err != nil {
		slog.Warn("inbox scan failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}
	results := p.ProcessAll(ctx, records)
	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}
	slog.Info("inbox processed", "files", len(results), "succeeded", succeeded)
}
