package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject pulls a single JSON object out of free-form model
// output, tolerating leading prose, trailing commentary, and markdown
// code fences the model emits despite instructions not to.
//
// The span between the first "{" and the last "}" is the candidate
// document; if no such pair exists, the whole response is parsed
// verbatim. This is a best-effort heuristic, not a guarantee: a model
// emitting braces in prose before the JSON can defeat it.
func ExtractObject(content string) (map[string]any, error) {
	candidate := content
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		candidate = content[start : end+1]
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, fmt.Errorf("parse model JSON: %w", err)
	}
	return doc, nil
}
