package cds

import (
	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// Engine composes the rule engine, the metadata-gated risk overlays, and the
// safety guard. Each layer is strictly additive: no layer removes or mutates
// a prior layer's suggestions. Everything produced here is advisory only.
type Engine struct {
	rules      RuleEngine
	cultural   CulturalRiskOverlay
	indigenous IndigenousRiskOverlay
	guard      SafetyGuard
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Suggest(entities models.ClinicalEntities, soap *models.SOAPNote, patientMetadata map[string]interface{}) []models.DecisionSupportSuggestion {
	suggestions := e.rules.Suggest(entities, soap)
	suggestions = append(suggestions, e.cultural.Assess(entities, soap, patientMetadata)...)
	suggestions = append(suggestions, e.indigenous.Assess(entities, soap, patientMetadata)...)
	return e.guard.Review(suggestions, soap)
}
