// Package parsing turns raw model output into a typed career report.
package parsing

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ritikiit/careergps1/internal/types"
)

const fence = "```"

// StripCodeFences removes a surrounding markdown code fence, with or without a
// language tag, from model output.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return strings.TrimSpace(strings.TrimSuffix(text, fence))
	}

	text = strings.TrimPrefix(text, fence)
	// Drop the language tag line, e.g. ```json
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if !strings.ContainsAny(tag, "{[ ") {
			text = text[idx+1:]
		}
	} else {
		text = strings.TrimPrefix(text, "json")
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// ParseReport strips fences from raw, decodes it and normalizes it into a Report.
// Only the top-level shape is checked; nested fields are tolerated as they come.
func ParseReport(raw string) (*types.Report, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, &ParseError{Message: "response is empty"}
	}

	if !gjson.Valid(cleaned) {
		var probe any
		return nil, &ParseError{
			Message: "response is not valid JSON",
			Cause:   json.Unmarshal([]byte(cleaned), &probe),
		}
	}

	doc := gjson.Parse(cleaned)
	if !doc.IsObject() {
		return nil, &ParseError{Message: "response is not a JSON object"}
	}

	return NormalizeReport(doc), nil
}
