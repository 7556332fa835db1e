package cds

import (
	"testing"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

func countBySeverity(suggestions []models.DecisionSupportSuggestion, severity models.SuggestionSeverity) int {
	n := 0
	for _, s := range suggestions {
		if s.Severity == severity {
			n++
		}
	}
	return n
}

func TestSuggestDiagnosisWithoutMedication(t *testing.T) {
	engine := NewEngine()
	entities := models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "hypertension"}},
	}

	suggestions := engine.Suggest(entities, &models.SOAPNote{}, nil)
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Type != models.SuggestionMedAdjustment || suggestions[0].Severity != models.SeverityInfo {
		t.Fatalf("unexpected suggestion %s/%s", suggestions[0].Type, suggestions[0].Severity)
	}
}

func TestSuggestMedicationWithoutDiagnosis(t *testing.T) {
	engine := NewEngine()
	entities := models.ClinicalEntities{
		Medications: []models.ClinicalEntity{{Label: "MEDICATION", Text: "metformin"}},
	}

	suggestions := engine.Suggest(entities, &models.SOAPNote{}, nil)
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Type != models.SuggestionContraindication || suggestions[0].Severity != models.SeverityWarning {
		t.Fatalf("unexpected suggestion %s/%s", suggestions[0].Type, suggestions[0].Severity)
	}
}

func TestSuggestSuicidalityIsCritical(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "Patient reports suicidal thoughts."}

	suggestions := engine.Suggest(models.ClinicalEntities{}, soap, nil)
	if countBySeverity(suggestions, models.SeverityCritical) != 1 {
		t.Fatalf("expected exactly one CRITICAL suggestion, got %d", countBySeverity(suggestions, models.SeverityCritical))
	}
	found := false
	for _, s := range suggestions {
		if s.Type == models.SuggestionRedFlag && s.Severity == models.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a CRITICAL RED_FLAG suggestion")
	}
}

func TestSuggestAllAdvisory(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "Pregnancy with heart failure and suicidal ideation."}
	entities := models.ClinicalEntities{
		Diagnoses:   []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "heart failure"}},
		Medications: []models.ClinicalEntity{{Label: "MEDICATION", Text: "lisinopril"}},
	}

	suggestions := engine.Suggest(entities, soap, nil)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, s := range suggestions {
		if s.Regulated {
			t.Fatalf("suggestion %s must be advisory, not regulated", s.Summary)
		}
		if s.Source != "rule_engine" {
			t.Fatalf("unexpected source %q", s.Source)
		}
		if len(s.EvidenceRefs) == 0 {
			t.Fatalf("suggestion %s missing evidence refs", s.Summary)
		}
	}
}

func TestCulturalOverlayRequiresMetadata(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "Feeling dizzy and exhausted from the heat."}

	// Identical clinical text, no metadata: overlay stays silent.
	without := engine.Suggest(models.ClinicalEntities{}, soap, nil)
	for _, s := range without {
		if s.EvidenceRefs[0] == "cultural-heat-1" {
			t.Fatal("overlay must not fire without environment metadata")
		}
	}

	with := engine.Suggest(models.ClinicalEntities{}, soap, map[string]interface{}{
		"environment": "pastoralist grazing lands",
	})
	found := false
	for _, s := range with {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "cultural-heat-1" {
			found = true
			if s.Severity != models.SeverityInfo {
				t.Fatalf("overlay suggestions must be INFO, got %s", s.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected heat-exposure suggestion with matching metadata")
	}
}

func TestMalariaOverlay(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "Three days of fever."}

	suggestions := engine.Suggest(models.ClinicalEntities{}, soap, map[string]interface{}{
		"region": "malaria_endemic west",
	})
	found := false
	for _, s := range suggestions {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "cultural-malaria-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected malaria differential suggestion")
	}
}

func TestIndigenousOverlayRequiresBothFields(t *testing.T) {
	engine := NewEngine()

	partial := engine.Suggest(models.ClinicalEntities{}, &models.SOAPNote{}, map[string]interface{}{
		"indigenous_affiliation": "first nations",
	})
	for _, s := range partial {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "indigenous-trauma-1" {
			t.Fatal("overlay must not fire without the documented-trauma flag")
		}
	}

	full := engine.Suggest(models.ClinicalEntities{}, &models.SOAPNote{}, map[string]interface{}{
		"indigenous_affiliation":           "first nations",
		"has_historical_trauma_documented": true,
	})
	found := false
	for _, s := range full {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "indigenous-trauma-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected trauma-informed care suggestion")
	}
}

func TestSafetyGuardAppendsContext(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "My ancestors are calling me and I feel suicidal."}

	suggestions := engine.Suggest(models.ClinicalEntities{}, soap, nil)

	critical := countBySeverity(suggestions, models.SeverityCritical)
	if critical != 1 {
		t.Fatalf("guard must never remove CRITICAL suggestions, got %d", critical)
	}

	guardCount := 0
	for _, s := range suggestions {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "cultural-safety-1" {
			guardCount++
			if s.Severity != models.SeverityInfo {
				t.Fatalf("guard suggestion must be INFO, got %s", s.Severity)
			}
		}
	}
	if guardCount != 1 {
		t.Fatalf("expected exactly one guard suggestion, got %d", guardCount)
	}
}

func TestSafetyGuardSilentWithoutCritical(t *testing.T) {
	engine := NewEngine()
	soap := &models.SOAPNote{Subjective: "My ancestors are calling me."}
	entities := models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "fatigue"}},
	}

	suggestions := engine.Suggest(entities, soap, nil)
	for _, s := range suggestions {
		if len(s.EvidenceRefs) > 0 && s.EvidenceRefs[0] == "cultural-safety-1" {
			t.Fatal("guard must stay silent without a CRITICAL suggestion")
		}
	}
}
