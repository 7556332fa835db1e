package cds

import (
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// CulturalRiskOverlay surfaces region- and environment-aware risk reminders.
// It activates only when explicit structured metadata fields are present;
// nothing is ever inferred from free text alone.
type CulturalRiskOverlay struct{}

func (CulturalRiskOverlay) Assess(_ models.ClinicalEntities, soap *models.SOAPNote, patientMetadata map[string]interface{}) []models.DecisionSupportSuggestion {
	if len(patientMetadata) == 0 {
		return nil
	}

	var suggestions []models.DecisionSupportSuggestion

	region := strings.ToLower(metadataString(patientMetadata, "region"))
	environment := strings.ToLower(metadataString(patientMetadata, "environment"))

	noteText := ""
	if soap != nil {
		noteText = strings.ToLower(soap.CombinedText())
	}

	if (strings.Contains(environment, "outdoor") || strings.Contains(environment, "pastoralist")) &&
		(strings.Contains(noteText, "heat") || strings.Contains(noteText, "dizzy") || strings.Contains(noteText, "exhausted")) {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionRedFlag,
			models.SeverityInfo,
			"Possible heat-related illness in high-exposure environment.",
			"Patient works or lives in an outdoor/pastoralist environment with symptoms that may suggest heat stress. Consider assessing for dehydration and heat-related illness in context of local climate and resources.",
			"cultural-heat-1",
		))
	}

	if strings.Contains(region, "malaria_endemic") && strings.Contains(noteText, "fever") {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionDifferential,
			models.SeverityInfo,
			"Fever in malaria-endemic region - consider infectious causes.",
			"Region is marked as malaria-endemic in metadata. Ensure local guidelines for fever workup are followed; malaria is only one of several possible causes.",
			"cultural-malaria-1",
		))
	}

	return suggestions
}

// IndigenousRiskOverlay raises trauma-informed care reminders. It acts only
// on explicit metadata (affiliation plus a documented-trauma flag), never on
// transcript content.
type IndigenousRiskOverlay struct{}

func (IndigenousRiskOverlay) Assess(_ models.ClinicalEntities, _ *models.SOAPNote, patientMetadata map[string]interface{}) []models.DecisionSupportSuggestion {
	if len(patientMetadata) == 0 {
		return nil
	}

	affiliation := strings.TrimSpace(metadataString(patientMetadata, "indigenous_affiliation"))
	traumaFlag, _ := patientMetadata["has_historical_trauma_documented"].(bool)

	if affiliation == "" || !traumaFlag {
		return nil
	}

	return []models.DecisionSupportSuggestion{models.NewSuggestion(
		models.SuggestionDifferential,
		models.SeverityInfo,
		"Trauma-informed, culturally safe care is recommended.",
		"Patient is documented as having an Indigenous affiliation and a history of trauma. Ensure assessment and care planning follow trauma-informed and culturally safe practices, in partnership with local community guidance where available.",
		"indigenous-trauma-1",
	)}
}

func metadataString(metadata map[string]interface{}, key string) string {
	if value, ok := metadata[key].(string); ok {
		return value
	}
	return ""
}
