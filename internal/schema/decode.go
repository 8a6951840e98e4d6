package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Load parses a contract document, detecting the encoding by shape: a
// top-level "fields" key selects the flat descriptor-map encoding, a
// top-level "properties" key selects the JSON-Schema encoding.
func Load(data []byte) (*Registry, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("schema: invalid contract document: %w", err)
	}
	switch {
	case probe["fields"] != nil:
		return loadFlat(data)
	case probe["properties"] != nil:
		return loadJSONSchema(data)
	}
	return nil, errors.New("schema: contract has neither a fields map nor json-schema properties")
}

// orderedKeys returns the member names of a JSON object in declaration
// order, which map decoding would lose.
func orderedKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not a json object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("malformed json object")
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// ---- flat encoding ----

type flatField struct {
	Type        string    `json:"type"`
	Optional    *bool     `json:"optional"`
	PromptLabel string    `json:"prompt_label"`
	AIHint      string    `json:"ai_hint"`
	Range       []float64 `json:"range"`
}

type flatContract struct {
	Version string `json:"version"`
	Fields  struct {
		Edition    map[string]flatField `json:"edition"`
		Original   map[string]flatField `json:"original"`
		Confidence *flatField           `json:"confidence"`
	} `json:"fields"`
	Rules []string `json:"rules"`
}

func loadFlat(data []byte) (*Registry, error) {
	var c flatContract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("schema: flat contract: %w", err)
	}
	if len(c.Fields.Edition) == 0 {
		return nil, errors.New("schema: flat contract has no edition fields")
	}
	if c.Fields.Confidence == nil {
		return nil, errors.New("schema: flat contract has no confidence field")
	}

	var sections struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("schema: flat contract: %w", err)
	}

	reg := &Registry{
		version: c.Version,
		rules:   c.Rules,
		confidence: Field{
			Name:     "confidence",
			Type:     c.Fields.Confidence.Type,
			Optional: true,
			Label:    c.Fields.Confidence.PromptLabel,
			Hint:     c.Fields.Confidence.AIHint,
			Range:    c.Fields.Confidence.Range,
		},
	}

	var err error
	if reg.edition, err = flatSection(sections.Fields["edition"], c.Fields.Edition); err != nil {
		return nil, fmt.Errorf("schema: edition section: %w", err)
	}
	if reg.original, err = flatSection(sections.Fields["original"], c.Fields.Original); err != nil {
		return nil, fmt.Errorf("schema: original section: %w", err)
	}
	return reg, nil
}

func flatSection(raw json.RawMessage, fields map[string]flatField) ([]Field, error) {
	if raw == nil {
		return nil, nil
	}
	names, err := orderedKeys(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Field, 0, len(names))
	for _, name := range names {
		fd := fields[name]
		if fd.Type == "" {
			return nil, fmt.Errorf("field %q has no type", name)
		}
		optional := true
		if fd.Optional != nil {
			optional = *fd.Optional
		}
		out = append(out, Field{
			Name:     name,
			Type:     fd.Type,
			Optional: optional,
			Label:    fd.PromptLabel,
			Hint:     fd.AIHint,
			Range:    fd.Range,
		})
	}
	return out, nil
}

// ---- JSON-Schema encoding ----

type jsProperty struct {
	Type        string                `json:"type"`
	Format      string                `json:"format"`
	Description string                `json:"description"`
	Items       *jsProperty           `json:"items"`
	Minimum     *float64              `json:"minimum"`
	Maximum     *float64              `json:"maximum"`
	Properties  map[string]jsProperty `json:"properties"`
	Required    []string              `json:"required"`
}

type jsContract struct {
	Version    string                `json:"version"`
	Properties map[string]jsProperty `json:"properties"`
	Rules      []string              `json:"rules"`
}

func loadJSONSchema(data []byte) (*Registry, error) {
	var c jsContract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("schema: json-schema contract: %w", err)
	}
	edition, ok := c.Properties["edition"]
	if !ok || len(edition.Properties) == 0 {
		return nil, errors.New("schema: json-schema contract has no edition properties")
	}
	confidence, ok := c.Properties["confidence"]
	if !ok {
		return nil, errors.New("schema: json-schema contract has no confidence property")
	}

	var sections struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("schema: json-schema contract: %w", err)
	}

	label, hint := splitDescription(confidence.Description)
	reg := &Registry{
		version: c.Version,
		rules:   c.Rules,
		confidence: Field{
			Name:     "confidence",
			Type:     normalizeType(confidence),
			Optional: true,
			Label:    label,
			Hint:     hint,
			Range:    numericRange(confidence),
		},
	}

	var err error
	if reg.edition, err = jsSection(sections.Properties["edition"], edition); err != nil {
		return nil, fmt.Errorf("schema: edition section: %w", err)
	}
	if original, ok := c.Properties["original"]; ok {
		if reg.original, err = jsSection(sections.Properties["original"], original); err != nil {
			return nil, fmt.Errorf("schema: original section: %w", err)
		}
	}
	return reg, nil
}

func jsSection(raw json.RawMessage, section jsProperty) ([]Field, error) {
	var props struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, err
	}
	names, err := orderedKeys(props.Properties)
	if err != nil {
		return nil, err
	}
	out := make([]Field, 0, len(names))
	for _, name := range names {
		p := section.Properties[name]
		label, hint := splitDescription(p.Description)
		out = append(out, Field{
			Name:     name,
			Type:     normalizeType(p),
			Optional: !slices.Contains(section.Required, name),
			Label:    label,
			Hint:     hint,
			Range:    numericRange(p),
		})
	}
	return out, nil
}

func normalizeType(p jsProperty) string {
	switch p.Type {
	case "string":
		if p.Format == "date" || p.Format == "date-time" {
			return "date"
		}
		return "string"
	case "array":
		elem := "string"
		if p.Items != nil {
			elem = normalizeType(*p.Items)
		}
		return "array[" + elem + "]"
	default:
		return p.Type
	}
}

func numericRange(p jsProperty) []float64 {
	if p.Minimum == nil || p.Maximum == nil {
		return nil
	}
	return []float64{*p.Minimum, *p.Maximum}
}

// splitDescription derives the prompt label from the first sentence of a
// JSON-Schema description; the remainder becomes the hint.
func splitDescription(desc string) (label, hint string) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", ""
	}
	if i := strings.Index(desc, ". "); i >= 0 {
		return desc[:i], strings.TrimSpace(desc[i+1:])
	}
	return strings.TrimSuffix(desc, "."), ""
}
