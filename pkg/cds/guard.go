package cds

import (
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

var spiritualPhrases = []string{
	"my ancestors are calling",
	"spirits",
	"spiritual",
}

// SafetyGuard is a non-destructive post-filter: when spiritual/ancestral
// language co-occurs with a CRITICAL suggestion, it appends one advisory
// reminder to interpret alerts in cultural context. It never suppresses or
// downgrades existing suggestions.
type SafetyGuard struct{}

func (SafetyGuard) Review(suggestions []models.DecisionSupportSuggestion, soap *models.SOAPNote) []models.DecisionSupportSuggestion {
	if len(suggestions) == 0 || soap == nil {
		return suggestions
	}

	text := strings.ToLower(soap.CombinedText())

	hasSpiritualLanguage := false
	for _, phrase := range spiritualPhrases {
		if strings.Contains(text, phrase) {
			hasSpiritualLanguage = true
			break
		}
	}

	hasCritical := false
	for _, s := range suggestions {
		if s.Severity == models.SeverityCritical {
			hasCritical = true
			break
		}
	}

	if hasSpiritualLanguage && hasCritical {
		suggestions = append(suggestions, models.NewSuggestion(
			models.SuggestionDifferential,
			models.SeverityInfo,
			"Spiritual language present - interpret high-severity alerts in cultural context.",
			"Transcript includes spiritual or ancestral language. Ensure high-severity alerts are interpreted within the patient's cultural and spiritual context and, where appropriate, in consultation with culturally knowledgeable clinicians or community representatives.",
			"cultural-safety-1",
		))
	}

	return suggestions
}
