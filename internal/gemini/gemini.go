// Package gemini provides the Google Gemini AI provider.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/shelfmark/shelfmark/internal/ai"
	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/schema"
)

// Provider extracts book metadata with Gemini. Failures never escape
// Enrich; they are appended to the returned record's diagnostics.
type Provider struct {
	model       string
	temperature float32
}

// New returns a Gemini provider using the given model. Keep the
// temperature low for consistent, factual output.
func New(model string, temperature float64) *Provider {
	return &Provider{
		model:       model,
		temperature: float32(temperature),
	}
}

func (g *Provider) Name() string { return "gemini" }

// Enrich asks Gemini for complete bibliographic metadata, parses the JSON
// reply against the contract and applies the valid fields to a copy of the
// record.
func (g *Provider) Enrich(ctx context.Context, rec book.Record) book.Record {
	reg := schema.Default()

	text, err := g.generate(ctx, reg, &rec)
	if err != nil {
		out := rec.Clone()
		out.AddError(fmt.Sprintf("gemini: %v", err))
		return out
	}

	parsed, parseErrs := ai.Parse(reg, ai.StripCodeFence(text))
	slog.Debug("Gemini response parsed",
		"model", g.model,
		"edition_fields", len(parsed.Edition),
		"original_fields", len(parsed.Original),
		"errors", len(parseErrs))

	return ai.ApplyParsed(reg, rec, parsed, prefix(parseErrs))
}

func (g *Provider) generate(ctx context.Context, reg *schema.Registry, rec *book.Record) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ai.BuildSystemPrompt(reg))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(ai.BuildUserPrompt(reg, rec)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from Gemini")
}

func prefix(errs []string) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, "gemini: "+e)
	}
	return out
}
