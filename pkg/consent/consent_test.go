package consent

import (
	"context"
	"testing"
)

func TestEvaluateDefaults(t *testing.T) {
	decision := Evaluate(context.Background(), "clinic-a", nil)

	if !decision.CulturalAIAllowed {
		t.Fatal("expected cultural AI analysis to be allowed by default")
	}
	if decision.TrainingAllowed {
		t.Fatal("expected training reuse to be denied by default")
	}
	if decision.TenantID != "clinic-a" {
		t.Fatalf("expected tenant clinic-a, got %s", decision.TenantID)
	}
	if decision.Reason != "" {
		t.Fatalf("expected no reason without metadata, got %q", decision.Reason)
	}
}

func TestEvaluatePatientOptOut(t *testing.T) {
	decision := Evaluate(context.Background(), "clinic-a", map[string]interface{}{
		KeyCulturalAI: false,
	})

	if decision.CulturalAIAllowed {
		t.Fatal("expected patient opt-out to disable cultural AI analysis")
	}
	if decision.Reason != "patient_level_consent" {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestEvaluateTrainingOptIn(t *testing.T) {
	decision := Evaluate(context.Background(), "clinic-a", map[string]interface{}{
		KeyDataTraining: true,
	})

	if !decision.TrainingAllowed {
		t.Fatal("expected explicit opt-in to enable training reuse")
	}
	if decision.Reason != "patient_level_training_consent" {
		t.Fatalf("unexpected reason %q", decision.Reason)
	}
}

func TestEvaluateIgnoresNonBooleanFlags(t *testing.T) {
	decision := Evaluate(context.Background(), "clinic-a", map[string]interface{}{
		KeyCulturalAI: "no",
	})

	if !decision.CulturalAIAllowed {
		t.Fatal("non-boolean flag should keep the permissive default")
	}
}
