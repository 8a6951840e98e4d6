package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "dummy" {
		t.Errorf("provider = %q", cfg.AI.Provider)
	}
	if cfg.Naming.Template != "{Authors} - {Title}" {
		t.Errorf("template = %q", cfg.Naming.Template)
	}
	if cfg.Watch.SleepSeconds != 10 {
		t.Errorf("sleep = %d", cfg.Watch.SleepSeconds)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelfmark.toml")
	doc := `
[paths]
new_books_dir = "/in"
ready_books_dir = "/out"

[ai]
provider = "gemini"
gemini_model = "gemini-2.5-pro"

[naming]
template = "{Title}"
missing = "error"

[watch]
sleep_seconds = 30
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.NewBooksDir != "/in" || cfg.Paths.ReadyBooksDir != "/out" {
		t.Errorf("paths = %+v", cfg.Paths)
	}
	if cfg.AI.Provider != "gemini" || cfg.AI.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.Naming.Missing != "error" {
		t.Errorf("missing = %q", cfg.Naming.Missing)
	}
	if cfg.Watch.SleepSeconds != 30 {
		t.Errorf("sleep = %d", cfg.Watch.SleepSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelfmark.toml")
	if err := os.WriteFile(path, []byte("[ai]\nprovider = \"gemini\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("AI_PROVIDER", "dummy")
	t.Setenv("WATCH_SLEEP_SECONDS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "dummy" {
		t.Errorf("env override lost, provider = %q", cfg.AI.Provider)
	}
	if cfg.Watch.SleepSeconds != 5 {
		t.Errorf("sleep = %d", cfg.Watch.SleepSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no inbox", func(c *Config) { c.Paths.NewBooksDir = "" }},
		{"no library", func(c *Config) { c.Paths.ReadyBooksDir = "" }},
		{"no template", func(c *Config) { c.Naming.Template = "" }},
		{"bad missing policy", func(c *Config) { c.Naming.Missing = "explode" }},
		{"zero sleep", func(c *Config) { c.Watch.SleepSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("invalid config accepted")
			}
		})
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelfmark.toml")
	if err := os.WriteFile(path, []byte("[paths\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("malformed TOML accepted")
	}
}
