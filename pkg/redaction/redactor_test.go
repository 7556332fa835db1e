package redaction

import (
	"strings"
	"testing"
)

func TestRedactorMasksIdentifiers(t *testing.T) {
	r, err := NewRedactor(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create redactor: %v", err)
	}

	text := "Patient SSN 123-45-6789, reach me at john@example.com or (555) 123-4567."
	masked := r.Redact(text)

	if strings.Contains(masked, "123-45-6789") {
		t.Fatal("expected SSN masked")
	}
	if strings.Contains(masked, "john@example.com") {
		t.Fatal("expected email masked")
	}
	if !strings.Contains(masked, "Patient SSN") {
		t.Fatalf("expected surrounding text preserved, got %q", masked)
	}
}

func TestScanReportsFindings(t *testing.T) {
	r, err := NewRedactor(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create redactor: %v", err)
	}

	findings := r.Scan("DOB 01/02/1990 and phone 555-123-4567")
	if len(findings) != 2 {
		t.Fatalf("expected two findings, got %d", len(findings))
	}
	types := map[string]bool{}
	for _, f := range findings {
		types[f.Type] = true
	}
	if !types["dob"] || !types["phone"] {
		t.Fatalf("unexpected finding types %v", types)
	}
}

func TestRedactMapWalksNestedValues(t *testing.T) {
	r, err := NewRedactor(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create redactor: %v", err)
	}

	payload := map[string]interface{}{
		"note":   "SSN 123-45-6789",
		"nested": map[string]interface{}{"contact": "john@example.com"},
		"count":  3,
	}
	out := r.RedactMap(payload)

	if strings.Contains(out["note"].(string), "123-45-6789") {
		t.Fatal("expected top-level string masked")
	}
	nested := out["nested"].(map[string]interface{})
	if strings.Contains(nested["contact"].(string), "example.com") {
		t.Fatal("expected nested string masked")
	}
	if out["count"] != 3 {
		t.Fatal("expected non-string values untouched")
	}
	if strings.Contains(payload["note"].(string), "***") {
		t.Fatal("original payload must not be mutated")
	}
}

func TestNilRedactorIsPassthrough(t *testing.T) {
	var r *Redactor
	if got := r.Redact("SSN 123-45-6789"); got != "SSN 123-45-6789" {
		t.Fatalf("nil redactor must pass text through, got %q", got)
	}
}
