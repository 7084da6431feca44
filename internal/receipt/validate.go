package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue describes a single validation problem at a specific location in
// the candidate document. Path uses JSON-pointer style segments, e.g.
// "/items/2/description".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// rootNumericFields and itemNumericFields are the fields subject to
// string-to-number coercion before schema validation.
var (
	rootNumericFields = []string{"subtotal", "tax", "tip", "total"}
	itemNumericFields = []string{"quantity", "unitPrice", "total"}
)

// CoerceNumber converts a raw JSON value into a number. Strings are
// stripped of every character that is not a digit, sign, or decimal
// point before parsing. A string that yields no finite number reports
// ok=false: absence, never zero.
func CoerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= '0' && r <= '9':
				return r
			case r == '+' || r == '-' || r == '.':
				return r
			default:
				return -1
			}
		}, n)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Validate checks a generic parsed JSON document against the canonical
// receipt schema, coercing numeric-looking strings to numbers first.
// On success it returns the decoded Record with defaults and category
// enrichment applied. On failure it returns the field-level issue list;
// the Record is nil whenever issues are present.
func Validate(doc any) (*Record, []Issue) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, []Issue{{Path: "", Message: "expected a JSON object"}}
	}

	coerceDocument(root)

	if err := recordSchema().Validate(root); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, collectIssues(ve)
		}
		return nil, []Issue{{Path: "", Message: err.Error()}}
	}

	rec, err := decodeRecord(root)
	if err != nil {
		return nil, []Issue{{Path: "", Message: err.Error()}}
	}
	return rec, nil
}

// coerceDocument rewrites the parsed document in place: numeric fields
// become numbers or disappear, nulls are treated as absent, and item
// descriptions are trimmed so whitespace-only descriptions fail the
// minLength check.
func coerceDocument(root map[string]any) {
	for k, v := range root {
		if v == nil {
			delete(root, k)
		}
	}
	coerceNumericFields(root, rootNumericFields)

	items, ok := root["items"].([]any)
	if !ok {
		return
	}
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range item {
			if v == nil {
				delete(item, k)
			}
		}
		if desc, ok := item["description"].(string); ok {
			item["description"] = strings.TrimSpace(desc)
		}
		coerceNumericFields(item, itemNumericFields)
	}
}

func coerceNumericFields(obj map[string]any, fields []string) {
	for _, field := range fields {
		v, present := obj[field]
		if !present {
			continue
		}
		if n, ok := CoerceNumber(v); ok {
			obj[field] = n
		} else {
			delete(obj, field)
		}
	}
}

// decodeRecord marshals the validated document into a Record and applies
// defaults: non-nil Items and the fixed currency code.
func decodeRecord(root map[string]any) (*Record, error) {
	b, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("re-encode validated document: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode validated document: %w", err)
	}

	if rec.Items == nil {
		rec.Items = []LineItem{}
	}
	if rec.Currency == "" {
		rec.Currency = DefaultCurrency
	}
	for i := range rec.Items {
		if rec.Items[i].Category != "" {
			continue
		}
		if cat, ok := InferCategory(rec.Items[i].Description); ok {
			rec.Items[i].Category = cat
		}
	}
	return &rec, nil
}

// collectIssues flattens a jsonschema validation error tree into leaf
// issues so a caller sees every offending field, not one aggregate
// message.
func collectIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			issues = append(issues, Issue{
				Path:    e.InstanceLocation,
				Message: e.Message,
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return issues
}
