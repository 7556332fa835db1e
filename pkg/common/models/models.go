package models

import (
	"time"

	"github.com/google/uuid"
)

// Transcription jobs

type TranscriptJobStatus string

const (
	JobPending    TranscriptJobStatus = "PENDING"
	JobProcessing TranscriptJobStatus = "PROCESSING"
	JobCompleted  TranscriptJobStatus = "COMPLETED"
	JobFailed     TranscriptJobStatus = "FAILED"
)

type TranscriptJob struct {
	ID             uuid.UUID           `json:"id"`
	TenantID       string              `json:"tenant_id"`
	CreatedAt      time.Time           `json:"created_at"`
	Status         TranscriptJobStatus `json:"status"`
	AudioRef       string              `json:"audio_ref"`
	LanguageCode   string              `json:"language_code,omitempty"`
	TargetLanguage string              `json:"target_language,omitempty"`
	ResultText     string              `json:"result_text,omitempty"`
	TranslatedText string              `json:"translated_text,omitempty"`
	ErrorMessage   string              `json:"error_message,omitempty"`
}

// Encounters and notes

type EncounterStatus string

const (
	EncounterCreated        EncounterStatus = "CREATED"
	EncounterInProgress     EncounterStatus = "IN_PROGRESS"
	EncounterReadyForReview EncounterStatus = "READY_FOR_REVIEW"
	EncounterFinalized      EncounterStatus = "FINALIZED"
)

// ClinicalEncounter groups one or more transcription jobs for a single
// visit/interaction between a patient and a clinician.
type ClinicalEncounter struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            string          `json:"tenant_id"`
	CreatedAt           time.Time       `json:"created_at"`
	ClinicianID         string          `json:"clinician_id,omitempty"`
	PatientID           string          `json:"patient_id,omitempty"`
	Title               string          `json:"title,omitempty"`
	Status              EncounterStatus `json:"status"`
	TranscriptionJobIDs []uuid.UUID     `json:"transcription_job_ids"`
	AssignedReviewerID  string          `json:"assigned_reviewer_id,omitempty"`
}

// ClinicalNote is the single SOAP-style note attached to an encounter. Its
// tenant must always match the owning encounter's tenant, and once finalized
// its sections are frozen.
type ClinicalNote struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      string     `json:"tenant_id"`
	EncounterID   uuid.UUID  `json:"encounter_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     string     `json:"created_by,omitempty"`
	LastEditedBy  string     `json:"last_edited_by,omitempty"`
	IsFinalized   bool       `json:"is_finalized"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`
	Subjective    string     `json:"subjective"`
	Objective     string     `json:"objective"`
	Assessment    string     `json:"assessment"`
	Plan          string     `json:"plan"`
}

// Conversation sessions

type ConversationSession struct {
	ID                  uuid.UUID   `json:"id"`
	TenantID            string      `json:"tenant_id"`
	CreatedAt           time.Time   `json:"created_at"`
	Title               string      `json:"title,omitempty"`
	TranscriptionJobIDs []uuid.UUID `json:"transcription_job_ids"`
}

// NLP types

type ClinicalEntity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Code  string `json:"code,omitempty"`
}

type ClinicalEntities struct {
	Diagnoses   []ClinicalEntity `json:"diagnoses"`
	Medications []ClinicalEntity `json:"medications"`
	Symptoms    []ClinicalEntity `json:"symptoms"`
	Vitals      []ClinicalEntity `json:"vitals"`
}

type SOAPNote struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// CombinedText joins all four sections for keyword scans.
func (n SOAPNote) CombinedText() string {
	return n.Subjective + " " + n.Objective + " " + n.Assessment + " " + n.Plan
}

// Coding / billing risk

type CodeSystem string

const (
	SystemICD10  CodeSystem = "ICD10"
	SystemCPT    CodeSystem = "CPT"
	SystemSNOMED CodeSystem = "SNOMED"
	SystemOther  CodeSystem = "OTHER"
)

type CodeAssignment struct {
	CodeSystem  CodeSystem `json:"code_system"`
	Code        string     `json:"code"`
	Display     string     `json:"display,omitempty"`
	SourceLabel string     `json:"source_entity_label,omitempty"`
	SourceText  string     `json:"source_text"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Category    string     `json:"category,omitempty"`
}

type BillingRiskLevel string

const (
	RiskLow    BillingRiskLevel = "LOW"
	RiskMedium BillingRiskLevel = "MEDIUM"
	RiskHigh   BillingRiskLevel = "HIGH"
)

type BillingRiskSummary struct {
	Level            BillingRiskLevel `json:"level"`
	Reasons          []string         `json:"reasons"`
	SuggestedActions []string         `json:"suggested_actions"`
}

// Decision support

type SuggestionType string

const (
	SuggestionDifferential     SuggestionType = "DIFFERENTIAL"
	SuggestionRedFlag          SuggestionType = "RED_FLAG"
	SuggestionMedAdjustment    SuggestionType = "MED_ADJUSTMENT"
	SuggestionContraindication SuggestionType = "CONTRAINDICATION"
)

type SuggestionSeverity string

const (
	SeverityInfo     SuggestionSeverity = "INFO"
	SeverityWarning  SuggestionSeverity = "WARNING"
	SeverityCritical SuggestionSeverity = "CRITICAL"
)

// DecisionSupportSuggestion is always advisory. Source identifies provenance
// (rule engine vs. future model-backed generators).
type DecisionSupportSuggestion struct {
	ID           uuid.UUID          `json:"id"`
	Type         SuggestionType     `json:"type"`
	Severity     SuggestionSeverity `json:"severity"`
	Summary      string             `json:"summary"`
	Details      string             `json:"details,omitempty"`
	EvidenceRefs []string           `json:"evidence_refs"`
	Source       string             `json:"source"`
	Regulated    bool               `json:"regulated"`
}

func NewSuggestion(t SuggestionType, severity SuggestionSeverity, summary, details string, evidenceRefs ...string) DecisionSupportSuggestion {
	if evidenceRefs == nil {
		evidenceRefs = []string{}
	}
	return DecisionSupportSuggestion{
		ID:           uuid.New(),
		Type:         t,
		Severity:     severity,
		Summary:      summary,
		Details:      details,
		EvidenceRefs: evidenceRefs,
		Source:       "rule_engine",
		Regulated:    false,
	}
}

// Transcript segments

type RelevanceLabel string

const (
	RelevanceClinicalCore    RelevanceLabel = "CLINICAL_CORE"
	RelevanceClinicalContext RelevanceLabel = "CLINICAL_CONTEXT"
	RelevanceBackground      RelevanceLabel = "BACKGROUND"
	RelevanceSmallTalk       RelevanceLabel = "SMALL_TALK"
	RelevanceOther           RelevanceLabel = "OTHER"
)

type SpeakerRole string

const (
	SpeakerClinician SpeakerRole = "CLINICIAN"
	SpeakerPatient   SpeakerRole = "PATIENT"
	SpeakerOther     SpeakerRole = "OTHER"
)

type EmotionLabel string

const (
	EmotionNeutral    EmotionLabel = "NEUTRAL"
	EmotionPositive   EmotionLabel = "POSITIVE"
	EmotionNegative   EmotionLabel = "NEGATIVE"
	EmotionDistressed EmotionLabel = "DISTRESSED"
)

type TranscriptSegment struct {
	Text       string         `json:"text"`
	StartMs    *int           `json:"start_ms,omitempty"`
	EndMs      *int           `json:"end_ms,omitempty"`
	Relevance  RelevanceLabel `json:"relevance"`
	Speaker    SpeakerRole    `json:"speaker,omitempty"`
	Emotion    EmotionLabel   `json:"emotion,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
}

// Audit events

type AuditEvent struct {
	ID           string                 `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	TenantID     string                 `json:"tenant_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}
