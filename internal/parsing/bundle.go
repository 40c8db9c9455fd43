package parsing

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ritikiit/careergps1/internal/types"
)

// ParseBundle decodes a saved bundle. The report goes through the same lenient
// normalization as a fresh model response.
func ParseBundle(data []byte) (*types.Bundle, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Message: "bundle is not valid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ParseError{Message: "bundle is not a JSON object"}
	}

	report := doc.Get("report")
	if !report.IsObject() {
		return nil, &ParseError{Message: "bundle has no report"}
	}

	bundle := &types.Bundle{
		Report: NormalizeReport(report),
		Model:  doc.Get("model").String(),
	}
	if req := doc.Get("request"); req.IsObject() {
		if err := json.Unmarshal([]byte(req.Raw), &bundle.Request); err != nil {
			return nil, &ParseError{Message: "bundle request is malformed", Cause: err}
		}
	}
	if at := doc.Get("generated_at"); at.Type == gjson.String {
		ts, err := time.Parse(time.RFC3339Nano, at.String())
		if err != nil {
			return nil, &ParseError{Message: "bundle timestamp is malformed", Cause: err}
		}
		bundle.GeneratedAt = ts
	}
	return bundle, nil
}
