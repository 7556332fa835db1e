package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/terminology"
)

// NERBackend extracts structured clinical entities from free text.
type NERBackend interface {
	Extract(ctx context.Context, text string) (models.ClinicalEntities, error)
}

// CodingBackend populates entity code fields where unset. Implementations
// must never overwrite a code that is already assigned.
type CodingBackend interface {
	Code(ctx context.Context, entities models.ClinicalEntities) (models.ClinicalEntities, error)
}

// SOAPBackend generates a structured SOAP note from text and entities.
type SOAPBackend interface {
	Generate(ctx context.Context, text string, entities models.ClinicalEntities) (models.SOAPNote, error)
}

// DemoNERBackend is a deterministic, dependency-free keyword extractor so the
// pipeline is always runnable offline.
type DemoNERBackend struct{}

var demoKeywords = []struct {
	keyword string
	label   string
	bucket  string
}{
	{"diabetes", "DIAGNOSIS", "diagnosis"},
	{"hypertension", "DIAGNOSIS", "diagnosis"},
	{"metformin", "MEDICATION", "medication"},
	{"lisinopril", "MEDICATION", "medication"},
	{"fever", "SYMPTOM", "symptom"},
	{"dizziness", "SYMPTOM", "symptom"},
}

func (DemoNERBackend) Extract(_ context.Context, text string) (models.ClinicalEntities, error) {
	entities := models.ClinicalEntities{}
	lower := strings.ToLower(text)

	for _, kw := range demoKeywords {
		if !strings.Contains(lower, kw.keyword) {
			continue
		}
		entity := models.ClinicalEntity{Label: kw.label, Text: kw.keyword}
		switch kw.bucket {
		case "diagnosis":
			entities.Diagnoses = append(entities.Diagnoses, entity)
		case "medication":
			entities.Medications = append(entities.Medications, entity)
		case "symptom":
			entities.Symptoms = append(entities.Symptoms, entity)
		}
	}

	return entities, nil
}

// DemoCodingBackend assigns codes from the terminology catalog. Existing
// codes are left untouched.
type DemoCodingBackend struct {
	catalog terminology.Catalog
}

func NewDemoCodingBackend(catalog terminology.Catalog) *DemoCodingBackend {
	return &DemoCodingBackend{catalog: catalog}
}

func (b *DemoCodingBackend) Code(_ context.Context, entities models.ClinicalEntities) (models.ClinicalEntities, error) {
	code := func(bucket []models.ClinicalEntity) {
		for i := range bucket {
			if bucket[i].Code != "" || bucket[i].Text == "" {
				continue
			}
			if concept, ok := b.catalog.Lookup(bucket[i].Text); ok && concept.ICD10 != "" {
				bucket[i].Code = concept.ICD10
			}
		}
	}
	code(entities.Diagnoses)
	code(entities.Symptoms)
	code(entities.Medications)
	return entities, nil
}

// DemoSOAPBackend echoes the transcript into the subjective section so higher
// layers have stable output without any external model.
type DemoSOAPBackend struct{}

func (DemoSOAPBackend) Generate(_ context.Context, text string, _ models.ClinicalEntities) (models.SOAPNote, error) {
	return models.SOAPNote{
		Subjective: fmt.Sprintf("Subjective summary: %s", text),
		Objective:  "Objective: pending clinician documentation",
		Assessment: "Assessment: pending clinician documentation",
		Plan:       "Plan: pending clinician documentation",
	}, nil
}
