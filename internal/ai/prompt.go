package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/internal/book"
	"github.com/shelfmark/shelfmark/internal/schema"
)

// BuildSystemPrompt assembles the extraction instructions from the loaded
// contract: the role, the per-field vocabulary with hints, the contract
// rules, and the required response shape.
func BuildSystemPrompt(reg *schema.Registry) string {
	var b strings.Builder

	b.WriteString("You are a bibliographic metadata extractor. Given a book file path and partial metadata, ")
	b.WriteString("identify the complete bibliographic information for this edition and, when the edition is a ")
	b.WriteString("translation, for the original work.\n")

	b.WriteString("\nEdition fields:\n")
	writeFieldList(&b, reg.EditionFields())
	b.WriteString("\nOriginal work fields:\n")
	writeFieldList(&b, reg.OriginalFields())
	if cf := reg.Confidence(); cf.Hint != "" {
		fmt.Fprintf(&b, "\n- confidence (%s): %s\n", cf.Type, cf.Hint)
	}

	if rules := reg.Rules(); len(rules) > 0 {
		b.WriteString("\nRules:\n")
		for _, rule := range rules {
			b.WriteString("- " + rule + "\n")
		}
	}

	b.WriteString("\nRespond with ONLY a JSON object with optional \"edition\" and \"original\" objects ")
	b.WriteString("holding the fields above, and an optional numeric \"confidence\". ")
	b.WriteString("Omit fields you cannot determine; never invent values.")
	return b.String()
}

func writeFieldList(b *strings.Builder, fields []schema.Field) {
	for _, f := range fields {
		required := ""
		if !f.Optional {
			required = ", required"
		}
		fmt.Fprintf(b, "- %s (%s%s): %s\n", f.Name, f.Type, required, f.Hint)
	}
}

// BuildUserPrompt lists the known file context and every already-known
// field value by its prompt label, so the model refines rather than
// rediscovers.
func BuildUserPrompt(reg *schema.Registry, rec *book.Record) string {
	var lines []string

	lines = append(lines, "Known file context:")
	lines = append(lines, "- Filename: "+rec.OriginalFilename)
	if len(rec.Directories) > 0 {
		lines = append(lines, "- Directory context: "+strings.Join(rec.Directories, " / "))
	}

	var edition []string
	for _, f := range reg.EditionFields() {
		if value, ok := book.EditionValue(rec, f.Name); ok {
			edition = append(edition, "- "+f.Label+": "+formatValue(value))
		}
	}
	if len(edition) > 0 {
		lines = append(lines, "", "Existing edition metadata:")
		lines = append(lines, edition...)
	}

	var original []string
	for _, f := range reg.OriginalFields() {
		if value, ok := book.OriginalValue(rec.Original, f.Name); ok {
			original = append(original, "- "+f.Label+": "+formatValue(value))
		}
	}
	if len(original) > 0 {
		lines = append(lines, "", "Existing original work metadata:")
		lines = append(lines, original...)
	}

	return strings.Join(lines, "\n")
}

func formatValue(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}
