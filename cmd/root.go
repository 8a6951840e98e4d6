package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/ai"
	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/gemini"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "shelfmark",
		Short: "Ebook metadata reconciliation tool with LLM-powered enrichment",
		Long: `Shelfmark reads metadata embedded in FB2 and EPUB files, enriches it
through an AI provider, merges the sources, writes the result back into the
file and renames it into your library.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "shelfmark.toml", "Path to TOML config file")

	cmd.AddCommand(newProcessCmd(&configPath))
	cmd.AddCommand(newWatchCmd(&configPath))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// loadConfig resolves the configuration and registers the providers it
// names, so subcommands share one setup path.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	ai.Register(ai.NewDummy())
	ai.Register(gemini.New(cfg.AI.GeminiModel, cfg.AI.Temperature))
	return cfg, nil
}
