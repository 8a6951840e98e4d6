// Package config loads runtime configuration: defaults, then an optional
// TOML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the resolved runtime configuration.
type Config struct {
	Paths  Paths  `toml:"paths"`
	AI     AI     `toml:"ai"`
	Naming Naming `toml:"naming"`
	Watch  Watch  `toml:"watch"`
	Debug  Debug  `toml:"debug"`
}

// Paths locates the inbox and the destination library.
type Paths struct {
	NewBooksDir   string `toml:"new_books_dir"`
	ReadyBooksDir string `toml:"ready_books_dir"`
}

// AI selects and tunes the enrichment provider.
type AI struct {
	Provider    string  `toml:"provider"`
	GeminiModel string  `toml:"gemini_model"`
	Temperature float64 `toml:"temperature"`
}

// Naming controls the output filename template.
type Naming struct {
	Template string `toml:"template"`
	Missing  string `toml:"missing"`
}

// Watch tunes the directory watcher.
type Watch struct {
	SleepSeconds int `toml:"sleep_seconds"`
}

// Debug enables per-run pipeline traces.
type Debug struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			NewBooksDir:   "./new_books",
			ReadyBooksDir: "./books_ready",
		},
		AI: AI{
			Provider:    "dummy",
			GeminiModel: "gemini-2.0-flash",
			Temperature: 0.1,
		},
		Naming: Naming{
			Template: "{Authors} - {Title}",
			Missing:  "skip",
		},
		Watch: Watch{
			SleepSeconds: 10,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path if it
// exists, and finally environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Paths.NewBooksDir, "NEW_BOOKS_DIR")
	setString(&cfg.Paths.ReadyBooksDir, "BOOKS_READY_DIR")
	setString(&cfg.AI.Provider, "AI_PROVIDER")
	setString(&cfg.AI.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.Naming.Template, "FILENAME_TEMPLATE")
	setString(&cfg.Naming.Missing, "FILENAME_MISSING")
	setString(&cfg.Debug.Dir, "SHELFMARK_DEBUG_DIR")

	if v := os.Getenv("WATCH_SLEEP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Watch.SleepSeconds = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations that cannot drive a run.
func (c Config) Validate() error {
	if c.Paths.NewBooksDir == "" {
		return fmt.Errorf("config: new_books_dir is required")
	}
	if c.Paths.ReadyBooksDir == "" {
		return fmt.Errorf("config: ready_books_dir is required")
	}
	if c.Naming.Template == "" {
		return fmt.Errorf("config: naming template is required")
	}
	switch c.Naming.Missing {
	case "skip", "empty", "error":
	default:
		return fmt.Errorf("config: unknown naming missing policy %q", c.Naming.Missing)
	}
	if c.Watch.SleepSeconds <= 0 {
		return fmt.Errorf("config: watch sleep_seconds must be positive")
	}
	return nil
}
