package receipt

import (
	"encoding/json"
	"testing"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"plain float", 42.5, 42.5, true},
		{"currency string", "$1,234.56", 1234.56, true},
		{"negative string", "-3.20", -3.2, true},
		{"unit suffix", "12.5 lbs", 12.5, true},
		{"not a number", "N/A", 0, false},
		{"empty string", "", 0, false},
		{"symbols only", "$,", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CoerceNumber(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CoerceNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func parseDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return doc
}

func TestValidate(t *testing.T) {
	t.Run("complete receipt", func(t *testing.T) {
		doc := parseDoc(t, `{
			"vendorName": "Acme Supply",
			"date": "2025-03-14",
			"subtotal": "18.50",
			"tax": "$1.50",
			"total": 20.00,
			"items": [
				{"description": "Hardwood Mulch", "quantity": "2", "unitPrice": "9.25", "total": "18.50"}
			]
		}`)

		rec, issues := Validate(doc)
		if len(issues) != 0 {
			t.Fatalf("Validate() issues = %v, want none", issues)
		}
		if rec.VendorName != "Acme Supply" {
			t.Errorf("VendorName = %q", rec.VendorName)
		}
		if rec.Subtotal == nil || *rec.Subtotal != 18.50 {
			t.Errorf("Subtotal = %v, want 18.50", rec.Subtotal)
		}
		if rec.Tax == nil || *rec.Tax != 1.50 {
			t.Errorf("Tax = %v, want 1.50", rec.Tax)
		}
		if rec.Currency != "USD" {
			t.Errorf("Currency = %q, want USD", rec.Currency)
		}
		if len(rec.Items) != 1 {
			t.Fatalf("len(Items) = %d, want 1", len(rec.Items))
		}
		if rec.Items[0].Category != CategoryMulchAggregates {
			t.Errorf("Category = %q, want %q", rec.Items[0].Category, CategoryMulchAggregates)
		}
	})

	t.Run("missing items defaults to empty", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{"vendorName": "Gas Stop", "total": "45.00"}`))
		if len(issues) != 0 {
			t.Fatalf("Validate() issues = %v, want none", issues)
		}
		if rec.Items == nil {
			t.Fatal("Items is nil, want empty slice")
		}
		if len(rec.Items) != 0 {
			t.Errorf("len(Items) = %d, want 0", len(rec.Items))
		}
	})

	t.Run("uncoercible number becomes absent", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{"total": "N/A", "items": []}`))
		if len(issues) != 0 {
			t.Fatalf("Validate() issues = %v, want none", issues)
		}
		if rec.Total != nil {
			t.Errorf("Total = %v, want absent", *rec.Total)
		}
	})

	t.Run("null fields are absent", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{"vendorName": null, "total": null, "items": [{"description": "Gravel", "quantity": null}]}`))
		if len(issues) != 0 {
			t.Fatalf("Validate() issues = %v, want none", issues)
		}
		if rec.VendorName != "" {
			t.Errorf("VendorName = %q, want empty", rec.VendorName)
		}
		if rec.Items[0].Quantity != nil {
			t.Errorf("Quantity = %v, want absent", *rec.Items[0].Quantity)
		}
	})

	t.Run("blank description is an issue with path", func(t *testing.T) {
		_, issues := Validate(parseDoc(t, `{"items": [{"description": "Sod"}, {"description": "   "}]}`))
		if len(issues) == 0 {
			t.Fatal("Validate() returned no issues for blank description")
		}
		found := false
		for _, issue := range issues {
			if issue.Path == "/items/1/description" {
				found = true
			}
		}
		if !found {
			t.Errorf("no issue at /items/1/description, got %v", issues)
		}
	})

	t.Run("item missing description is an issue", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{"items": [{"total": "5.00"}]}`))
		if rec != nil {
			t.Error("record returned alongside issues")
		}
		if len(issues) == 0 {
			t.Fatal("Validate() returned no issues for missing description")
		}
	})

	t.Run("non-object document", func(t *testing.T) {
		rec, issues := Validate([]any{"not", "an", "object"})
		if rec != nil {
			t.Error("record returned for non-object")
		}
		if len(issues) != 1 {
			t.Fatalf("len(issues) = %d, want 1", len(issues))
		}
	})

	t.Run("explicit category is preserved", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{"items": [{"description": "Mulch delivery", "category": "labor"}]}`))
		if len(issues) != 0 {
			t.Fatalf("Validate() issues = %v, want none", issues)
		}
		if rec.Items[0].Category != CategoryLabor {
			t.Errorf("Category = %q, want %q", rec.Items[0].Category, CategoryLabor)
		}
	})

	t.Run("valid output revalidates cleanly", func(t *testing.T) {
		rec, issues := Validate(parseDoc(t, `{
			"vendorName": "Rock Yard",
			"total": "88.00",
			"items": [{"description": "River rock", "total": "88.00"}]
		}`))
		if len(issues) != 0 {
			t.Fatalf("first Validate() issues = %v", issues)
		}

		b, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal record: %v", err)
		}
		rec2, issues := Validate(parseDoc(t, string(b)))
		if len(issues) != 0 {
			t.Fatalf("second Validate() issues = %v", issues)
		}
		if rec2.Total == nil || *rec2.Total != 88.00 {
			t.Errorf("Total = %v after round trip, want 88.00", rec2.Total)
		}
	})
}
