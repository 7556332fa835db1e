package cds

import (
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// RuleEngine produces advisory suggestions from fixed keyword and
// entity-presence rules. It never mutates its inputs.
type RuleEngine struct{}

func (RuleEngine) Suggest(entities models.ClinicalEntities, soap *models.SOAPNote) []models.DecisionSupportSuggestion {
	var suggestions []models.DecisionSupportSuggestion

	hasDiagnosis := len(entities.Diagnoses) > 0
	hasMedication := len(entities.Medications) > 0

	if hasDiagnosis && !hasMedication {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionMedAdjustment,
			models.SeverityInfo,
			"Diagnosis documented without an associated medication.",
			"Consider whether first-line therapy is indicated based on guidelines and patient context.",
			"guideline-pharmacotherapy-1",
		))
	}

	if hasMedication && !hasDiagnosis {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionContraindication,
			models.SeverityWarning,
			"Medication mentioned without an obvious supporting diagnosis.",
			"Verify indication and ensure documentation of the underlying condition.",
			"guideline-pharmacotherapy-2",
		))
	}

	if hasDiagnosis && hasMedication {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionDifferential,
			models.SeverityInfo,
			"Active diagnosis on treatment - consider labs and monitoring.",
			"Ensure recent labs, relevant organ function, and a follow-up plan are documented.",
			"guideline-monitoring-1",
		))
	}

	if soap != nil {
		noteText := strings.ToLower(soap.CombinedText())

		if strings.Contains(noteText, "heart failure") || strings.Contains(noteText, "hfref") {
			suggestions = append(suggestions, models.NewSuggestion(
				models.SuggestionRedFlag,
				models.SeverityInfo,
				"Heart failure mentioned - ensure guideline-directed therapy.",
				"Consider ACEi/ARB/ARNI, beta-blocker, MRA, and SGLT2i as appropriate.",
				"guideline-hf-1",
			))
		}

		if strings.Contains(noteText, "pregnancy") || strings.Contains(noteText, "prenatal") {
			suggestions = append(suggestions, models.NewSuggestion(
				models.SuggestionRedFlag,
				models.SeverityInfo,
				"Prenatal visit - check key maternal/fetal parameters.",
				"Confirm blood pressure, fetal movement, warning signs, and follow-up interval are documented.",
				"guideline-ob-1",
			))
		}

		// Suicidality always raises CRITICAL regardless of other matches.
		if strings.Contains(noteText, "suicidal") || strings.Contains(noteText, "self-harm") {
			suggestions = append(suggestions, models.NewSuggestion(
				models.SuggestionRedFlag,
				models.SeverityCritical,
				"Possible suicidality mentioned - follow safety protocol.",
				"Ensure immediate risk assessment, safety planning, and escalation per clinic policy.",
				"guideline-psych-1",
			))
		}
	}

	return suggestions
}
