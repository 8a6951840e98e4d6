package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shelfmark/shelfmark/internal/schema"
)

// Parsed is the schema-conformant subset of an AI response. A section with
// no valid fields is absent (nil map).
type Parsed struct {
	Edition    map[string]any
	Original   map[string]any
	Confidence *float64
}

// Parse validates an AI response against the contract and converts it into
// typed fields. raw may be a JSON string, raw bytes, or an already-decoded
// object. Field-level failures are collected as errors while the remaining
// fields are still processed; only unparseable input fails the whole parse.
func Parse(reg *schema.Registry, raw any) (Parsed, []string) {
	var errs []string

	var data map[string]any
	switch v := raw.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &data); err != nil {
			return Parsed{}, []string{fmt.Sprintf("invalid json: %v", err)}
		}
	case []byte:
		if err := json.Unmarshal(v, &data); err != nil {
			return Parsed{}, []string{fmt.Sprintf("invalid json: %v", err)}
		}
	case map[string]any:
		data = v
	default:
		return Parsed{}, []string{"response is neither json text nor an object"}
	}
	if data == nil {
		return Parsed{}, []string{"top-level json is not an object"}
	}

	var out Parsed
	out.Edition = parseSection(data["edition"], reg.EditionFields(), "edition", &errs)
	out.Original = parseSection(data["original"], reg.OriginalFields(), "original", &errs)

	if confidence, present := data["confidence"]; present && confidence != nil {
		cf := reg.Confidence()
		if !schema.Validate(confidence, cf) {
			errs = append(errs, "confidence must be a number")
		} else {
			value := toFloat(confidence)
			if r := cf.Range; len(r) == 2 && (value < r[0] || value > r[1]) {
				errs = append(errs, fmt.Sprintf("confidence out of range [%v, %v]", r[0], r[1]))
			} else {
				out.Confidence = &value
			}
		}
	}

	return out, errs
}

func parseSection(raw any, fields []schema.Field, section string, errs *[]string) map[string]any {
	if raw == nil {
		return nil
	}
	data, ok := raw.(map[string]any)
	if !ok {
		*errs = append(*errs, section+" must be an object")
		return nil
	}

	parsed := map[string]any{}
	for _, f := range fields {
		value, present := data[f.Name]
		if !present || value == nil {
			continue
		}
		if !schema.Validate(value, f) {
			*errs = append(*errs, fmt.Sprintf("%s.%s has invalid type", section, f.Name))
			continue
		}
		converted, err := convert(value, f)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("%s.%s %v", section, f.Name, err))
			continue
		}
		parsed[f.Name] = converted
	}
	if len(parsed) == 0 {
		return nil
	}
	return parsed
}

// convert normalizes a validated JSON value to its Go representation:
// integer fields to int, number to float64, date to time.Time, string
// arrays to []string. Unknown field names never reach here.
func convert(value any, f schema.Field) (any, error) {
	base, elem, isArray := schema.ParseType(f.Type)
	if isArray {
		items := value.([]any)
		if elem == "string" {
			out := make([]string, 0, len(items))
			for _, item := range items {
				out = append(out, item.(string))
			}
			return out, nil
		}
		return items, nil
	}
	switch base {
	case "integer":
		return int(toFloat(value)), nil
	case "number":
		return toFloat(value), nil
	case "date":
		s := value.(string)
		t, err := schema.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ISO date: %s", s)
		}
		return t, nil
	default:
		return value, nil
	}
}

func toFloat(value any) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// StripCodeFence removes a surrounding markdown code block, which models
// add around JSON output no matter how the prompt pleads.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
