package nlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/models"
)

func TestBigramSimilarity(t *testing.T) {
	if got := bigramSimilarity("diabetes", "diabetes"); got != 1 {
		t.Fatalf("identical strings should score 1, got %f", got)
	}
	if got := bigramSimilarity("diabetes", "xyzzy"); got != 0 {
		t.Fatalf("disjoint strings should score 0, got %f", got)
	}
	close := bigramSimilarity("diabetes", "diabetes mellitus")
	far := bigramSimilarity("diabetes", "hypertension")
	if close <= far {
		t.Fatalf("expected closer match to score higher: %f vs %f", close, far)
	}
}

func TestUMLSBackendMisconfiguredWithoutPath(t *testing.T) {
	b := NewUMLSCodingBackend("", 0.6)

	_, err := b.Code(context.Background(), models.ClinicalEntities{})
	if !errs.IsMisconfig(err) {
		t.Fatalf("expected misconfiguration error, got %v", err)
	}
}

func TestUMLSBackendCodesFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concepts.json")
	content := `[{"name": "type 2 diabetes mellitus", "code": "E11", "system": "ICD10"},
		{"name": "essential hypertension", "code": "I10", "system": "ICD10"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write concepts file: %v", err)
	}

	b := NewUMLSCodingBackend(path, 0.3)
	entities, err := b.Code(context.Background(), models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "type 2 diabetes"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entities.Diagnoses[0].Code != "E11" {
		t.Fatalf("expected fuzzy match to E11, got %q", entities.Diagnoses[0].Code)
	}
}

func TestUMLSBackendCodesFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concepts.jsonl")
	content := `{"name": "fever", "code": "R50.9", "system": "ICD10"}
{"name": "cough", "code": "R05", "system": "ICD10"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write concepts file: %v", err)
	}

	b := NewUMLSCodingBackend(path, 0.5)
	entities, err := b.Code(context.Background(), models.ClinicalEntities{
		Symptoms: []models.ClinicalEntity{{Label: "SYMPTOM", Text: "fever"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entities.Symptoms[0].Code != "R50.9" {
		t.Fatalf("expected R50.9, got %q", entities.Symptoms[0].Code)
	}
}

func TestUMLSBackendRespectsThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concepts.json")
	content := `[{"name": "completely unrelated concept", "code": "X99", "system": "ICD10"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write concepts file: %v", err)
	}

	b := NewUMLSCodingBackend(path, 0.9)
	entities, err := b.Code(context.Background(), models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "diabetes"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entities.Diagnoses[0].Code != "" {
		t.Fatalf("expected no code below similarity threshold, got %q", entities.Diagnoses[0].Code)
	}
}

func TestUMLSBackendNeverOverwritesCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concepts.json")
	content := `[{"name": "diabetes", "code": "E11", "system": "ICD10"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write concepts file: %v", err)
	}

	b := NewUMLSCodingBackend(path, 0.3)
	entities, err := b.Code(context.Background(), models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "diabetes", Code: "KEEP"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entities.Diagnoses[0].Code != "KEEP" {
		t.Fatalf("existing code must be preserved, got %q", entities.Diagnoses[0].Code)
	}
}
