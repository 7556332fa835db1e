package coding

import (
	"testing"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

func TestAssignEmptyIsHighRisk(t *testing.T) {
	o := NewOrchestrator()

	assignments, risk := o.Assign(models.ClinicalEntities{}, nil)
	if len(assignments) != 0 {
		t.Fatalf("expected no assignments, got %d", len(assignments))
	}
	if risk.Level != models.RiskHigh {
		t.Fatalf("expected HIGH risk for empty input, got %s", risk.Level)
	}
	if len(risk.Reasons) == 0 || len(risk.SuggestedActions) == 0 {
		t.Fatal("expected reasons and suggested actions to be populated")
	}
}

func TestAssignKeepsUncodedEntities(t *testing.T) {
	o := NewOrchestrator()

	assignments, _ := o.Assign(models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "rare condition"}},
	}, nil)

	if len(assignments) != 1 {
		t.Fatalf("expected one assignment, got %d", len(assignments))
	}
	if assignments[0].Code != "UNCODED" {
		t.Fatalf("expected UNCODED placeholder, got %s", assignments[0].Code)
	}
	if assignments[0].CodeSystem != models.SystemOther {
		t.Fatalf("expected OTHER system for uncoded entity, got %s", assignments[0].CodeSystem)
	}
}

func TestAssignInfersICD10System(t *testing.T) {
	o := NewOrchestrator()

	assignments, _ := o.Assign(models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "type 2 diabetes", Code: "E11"}},
	}, nil)

	if assignments[0].CodeSystem != models.SystemICD10 {
		t.Fatalf("expected ICD10 for code E11, got %s", assignments[0].CodeSystem)
	}
}

func TestAssignDiagnosisOnlyIsMediumRisk(t *testing.T) {
	o := NewOrchestrator()

	_, risk := o.Assign(models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "hypertension", Code: "I10"}},
	}, nil)

	if risk.Level != models.RiskMedium {
		t.Fatalf("expected MEDIUM risk with diagnosis only, got %s", risk.Level)
	}
}

func TestAssignSymptomOnlyIsHighRisk(t *testing.T) {
	o := NewOrchestrator()

	_, risk := o.Assign(models.ClinicalEntities{
		Symptoms: []models.ClinicalEntity{{Label: "SYMPTOM", Text: "fever", Code: "R50.9"}},
	}, nil)

	if risk.Level != models.RiskHigh {
		t.Fatalf("expected HIGH risk with symptoms only, got %s", risk.Level)
	}
}

func TestAssignFollowUpSynthesizesProcedure(t *testing.T) {
	o := NewOrchestrator()
	soap := &models.SOAPNote{Plan: "Schedule follow-up in two weeks."}

	assignments, risk := o.Assign(models.ClinicalEntities{
		Diagnoses: []models.ClinicalEntity{{Label: "DIAGNOSIS", Text: "diabetes", Code: "E11"}},
	}, soap)

	var procedure *models.CodeAssignment
	for i := range assignments {
		if assignments[i].Category == "procedure" {
			procedure = &assignments[i]
		}
	}
	if procedure == nil {
		t.Fatal("expected a synthesized procedure code from follow-up text")
	}
	if procedure.Code != "99213" || procedure.CodeSystem != models.SystemCPT {
		t.Fatalf("expected CPT 99213, got %s %s", procedure.CodeSystem, procedure.Code)
	}
	if risk.Level != models.RiskLow {
		t.Fatalf("expected LOW risk with diagnosis and procedure, got %s", risk.Level)
	}
}

func TestAssignFollowUpWithoutHyphen(t *testing.T) {
	o := NewOrchestrator()
	soap := &models.SOAPNote{Plan: "Patient to follow up next month."}

	assignments, _ := o.Assign(models.ClinicalEntities{}, soap)
	if len(assignments) != 1 || assignments[0].Category != "procedure" {
		t.Fatalf("expected a single procedure assignment, got %+v", assignments)
	}
}

func TestAssignSkipsEmptyEntityText(t *testing.T) {
	o := NewOrchestrator()

	assignments, _ := o.Assign(models.ClinicalEntities{
		Medications: []models.ClinicalEntity{{Label: "MEDICATION", Text: ""}},
	}, nil)
	if len(assignments) != 0 {
		t.Fatalf("expected empty-text entities to be skipped, got %d", len(assignments))
	}
}
