package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// Every store implementation filters by the tenant carried in the context
// before returning or mutating data. Missing records and out-of-tenant
// records are indistinguishable to callers: both are errs.ErrNotFound.

type EncounterFilters struct {
	ClinicianID string
	PatientID   string
	Status      models.EncounterStatus
}

type JobStore interface {
	Save(ctx context.Context, job models.TranscriptJob) error
	Get(ctx context.Context, id uuid.UUID) (models.TranscriptJob, error)
}

type EncounterStore interface {
	Save(ctx context.Context, encounter models.ClinicalEncounter) error
	Get(ctx context.Context, id uuid.UUID) (models.ClinicalEncounter, error)
	List(ctx context.Context, filters EncounterFilters) ([]models.ClinicalEncounter, error)
}

type NoteStore interface {
	Save(ctx context.Context, note models.ClinicalNote) error
	Get(ctx context.Context, id uuid.UUID) (models.ClinicalNote, error)
	GetByEncounter(ctx context.Context, encounterID uuid.UUID) (models.ClinicalNote, error)
}

type SessionStore interface {
	Save(ctx context.Context, session models.ConversationSession) error
	Get(ctx context.Context, id uuid.UUID) (models.ConversationSession, error)
}

// Stores bundles the per-entity stores a deployment wires together.
type Stores struct {
	Jobs       JobStore
	Encounters EncounterStore
	Notes      NoteStore
	Sessions   SessionStore
}
