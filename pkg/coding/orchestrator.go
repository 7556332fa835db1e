package coding

import (
	"strings"
	"unicode"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// Orchestrator turns tagged entities and SOAP text into code assignments and
// a billing-risk verdict. It sits on top of the coding backend, which may
// already have populated entity codes.
type Orchestrator struct{}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Assign derives one CodeAssignment per diagnosis/medication/symptom entity.
// Entities without a code are kept as UNCODED rather than dropped. SOAP
// plan/assessment text mentioning a follow-up synthesizes one
// procedure-category code; this is the only path that manufactures a code not
// derived from an extracted entity.
func (o *Orchestrator) Assign(entities models.ClinicalEntities, soap *models.SOAPNote) ([]models.CodeAssignment, models.BillingRiskSummary) {
	var assignments []models.CodeAssignment

	addBucket := func(bucket []models.ClinicalEntity, category string) {
		for _, ent := range bucket {
			if ent.Text == "" {
				continue
			}
			assignments = append(assignments, models.CodeAssignment{
				CodeSystem:  inferSystem(ent.Code),
				Code:        codeOrUncoded(ent.Code),
				SourceLabel: ent.Label,
				SourceText:  ent.Text,
				Category:    category,
			})
		}
	}

	addBucket(entities.Diagnoses, "diagnosis")
	addBucket(entities.Medications, "medication")
	addBucket(entities.Symptoms, "symptom")

	if soap != nil {
		text := strings.ToLower(soap.CombinedText())
		if strings.Contains(text, "follow-up") || strings.Contains(text, "follow up") {
			assignments = append(assignments, models.CodeAssignment{
				CodeSystem:  models.SystemCPT,
				Code:        "99213",
				Display:     "Established patient office visit",
				SourceLabel: "PROCEDURE",
				SourceText:  "follow-up visit",
				Category:    "procedure",
			})
		}
	}

	return assignments, computeBillingRisk(assignments)
}

// inferSystem guesses the coding system from the code shape: a code starting
// with a letter and containing at least one digit is ICD-10-like.
func inferSystem(code string) models.CodeSystem {
	if code == "" {
		return models.SystemOther
	}
	runes := []rune(code)
	if !unicode.IsLetter(runes[0]) {
		return models.SystemOther
	}
	for _, r := range runes {
		if unicode.IsDigit(r) {
			return models.SystemICD10
		}
	}
	return models.SystemOther
}

func codeOrUncoded(code string) string {
	if code == "" {
		return "UNCODED"
	}
	return code
}

// computeBillingRisk applies the billing-risk contract in fixed priority
// order: no assignments is HIGH; diagnosis+procedure is LOW; exactly one of
// the two is MEDIUM; only symptom/other categories is HIGH.
func computeBillingRisk(assignments []models.CodeAssignment) models.BillingRiskSummary {
	if len(assignments) == 0 {
		return models.BillingRiskSummary{
			Level:            models.RiskHigh,
			Reasons:          []string{"No codes assigned; potential under-coding or missing documentation."},
			SuggestedActions: []string{"Review encounter for billable diagnoses and procedures."},
		}
	}

	hasDiagnosis := false
	hasProcedure := false
	for _, a := range assignments {
		switch a.Category {
		case "diagnosis":
			hasDiagnosis = true
		case "procedure":
			hasProcedure = true
		}
	}

	if hasDiagnosis && hasProcedure {
		return models.BillingRiskSummary{
			Level:            models.RiskLow,
			Reasons:          []string{"Both diagnoses and procedures are present."},
			SuggestedActions: []string{"Consider reviewing E/M level for optimization where allowed."},
		}
	}

	if hasDiagnosis || hasProcedure {
		return models.BillingRiskSummary{
			Level:            models.RiskMedium,
			Reasons:          []string{"Only diagnoses or only procedures present."},
			SuggestedActions: []string{"Check whether additional supporting codes are appropriate."},
		}
	}

	return models.BillingRiskSummary{
		Level:            models.RiskHigh,
		Reasons:          []string{"Only symptom/other codes present."},
		SuggestedActions: []string{"Ensure definitive diagnoses and procedures are captured when clinically appropriate."},
	}
}
