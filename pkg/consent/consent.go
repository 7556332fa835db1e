package consent

import (
	"context"

	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Context is the per-request cultural-AI consent decision. It is derived
// fresh for every request and never cached or persisted.
type Context struct {
	TenantID          string `json:"tenant_id"`
	CulturalAIAllowed bool   `json:"cultural_ai_allowed"`
	TrainingAllowed   bool   `json:"training_allowed"`
	Reason            string `json:"reason,omitempty"`
}

// Metadata keys recognized in patient metadata. Kept generic so upstream
// systems can supply them without adopting a full patient domain model.
const (
	KeyCulturalAI   = "consent_cultural_ai"
	KeyDataTraining = "consent_data_training"
)

// Evaluate computes the consent posture for the current request. Default:
// cultural-AI analysis allowed, training-data reuse not allowed. Explicit
// boolean flags in patient metadata override the defaults; absent metadata
// keeps the permissive analysis default.
func Evaluate(ctx context.Context, tenantID string, patientMetadata map[string]interface{}) Context {
	if tenantID == "" {
		tenantID = tenancy.FromContext(ctx)
	}

	out := Context{
		TenantID:          tenantID,
		CulturalAIAllowed: true,
		TrainingAllowed:   false,
	}

	if patientMetadata == nil {
		return out
	}

	if raw, ok := patientMetadata[KeyCulturalAI]; ok {
		if allowed, ok := raw.(bool); ok {
			out.CulturalAIAllowed = allowed
		}
		out.Reason = "patient_level_consent"
	}
	if raw, ok := patientMetadata[KeyDataTraining]; ok {
		if allowed, ok := raw.(bool); ok {
			out.TrainingAllowed = allowed
		}
		if out.Reason == "" {
			out.Reason = "patient_level_training_consent"
		}
	}

	return out
}
