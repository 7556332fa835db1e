package encounters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Service manages encounters and their single clinical note. Encounter status
// moves CREATED -> IN_PROGRESS -> READY_FOR_REVIEW -> FINALIZED; only
// finalization is unconditional, every other transition is one-way and
// triggered by the operations below.
type Service struct {
	encounters store.EncounterStore
	notes      store.NoteStore
	recorder   *audit.Recorder

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(encounters store.EncounterStore, notes store.NoteStore, recorder *audit.Recorder) *Service {
	return &Service{
		encounters: encounters,
		notes:      notes,
		recorder:   recorder,
		locks:      make(map[uuid.UUID]*sync.Mutex),
	}
}

type CreateEncounterInput struct {
	ClinicianID string
	PatientID   string
	Title       string
}

func (s *Service) Create(ctx context.Context, input CreateEncounterInput) (models.ClinicalEncounter, error) {
	encounter := models.ClinicalEncounter{
		ID:                  uuid.New(),
		TenantID:            tenancy.FromContext(ctx),
		CreatedAt:           time.Now().UTC(),
		ClinicianID:         input.ClinicianID,
		PatientID:           input.PatientID,
		Title:               input.Title,
		Status:              models.EncounterCreated,
		TranscriptionJobIDs: []uuid.UUID{},
	}
	if err := s.encounters.Save(ctx, encounter); err != nil {
		return models.ClinicalEncounter{}, err
	}
	s.recorder.LogEvent(ctx, "encounter.created", "encounter", encounter.ID.String(), nil)
	return encounter, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.ClinicalEncounter, error) {
	return s.encounters.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters store.EncounterFilters) ([]models.ClinicalEncounter, error) {
	return s.encounters.List(ctx, filters)
}

// AttachJob links a transcription job to an encounter. Attaching the same job
// twice is a no-op. The first attachment moves a CREATED encounter to
// IN_PROGRESS.
func (s *Service) AttachJob(ctx context.Context, encounterID, jobID uuid.UUID) (models.ClinicalEncounter, error) {
	lock := s.lockFor(encounterID)
	lock.Lock()
	defer lock.Unlock()

	encounter, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return models.ClinicalEncounter{}, err
	}

	for _, existing := range encounter.TranscriptionJobIDs {
		if existing == jobID {
			return encounter, nil
		}
	}

	encounter.TranscriptionJobIDs = append(encounter.TranscriptionJobIDs, jobID)
	if encounter.Status == models.EncounterCreated {
		encounter.Status = models.EncounterInProgress
	}
	if err := s.encounters.Save(ctx, encounter); err != nil {
		return models.ClinicalEncounter{}, err
	}
	s.recorder.LogEvent(ctx, "encounter.job_attached", "encounter", encounter.ID.String(), map[string]interface{}{
		"job_id": jobID.String(),
	})
	return encounter, nil
}

// FindForJob returns the encounter a job is attached to, if any.
func (s *Service) FindForJob(ctx context.Context, jobID uuid.UUID) (models.ClinicalEncounter, error) {
	all, err := s.encounters.List(ctx, store.EncounterFilters{})
	if err != nil {
		return models.ClinicalEncounter{}, err
	}
	for _, encounter := range all {
		for _, id := range encounter.TranscriptionJobIDs {
			if id == jobID {
				return encounter, nil
			}
		}
	}
	return models.ClinicalEncounter{}, errs.ErrNotFound
}

type UpsertNoteInput struct {
	SOAP     models.SOAPNote
	EditorID string
	Finalize bool
}

// UpsertNote creates or updates the encounter's note from SOAP sections.
// Merges are last-writer-wins per non-empty section. A finalized note is
// frozen: further edits are rejected with ErrConflict. A non-finalizing save
// promotes the encounter to READY_FOR_REVIEW; Finalize: true moves it to
// FINALIZED regardless of its current status.
func (s *Service) UpsertNote(ctx context.Context, encounterID uuid.UUID, input UpsertNoteInput) (models.ClinicalNote, error) {
	lock := s.lockFor(encounterID)
	lock.Lock()
	defer lock.Unlock()

	encounter, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return models.ClinicalNote{}, err
	}

	now := time.Now().UTC()
	note, err := s.notes.GetByEncounter(ctx, encounterID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		note = models.ClinicalNote{
			ID:          uuid.New(),
			TenantID:    encounter.TenantID,
			EncounterID: encounterID,
			CreatedAt:   now,
			CreatedBy:   input.EditorID,
		}
	case err != nil:
		return models.ClinicalNote{}, err
	default:
		if note.IsFinalized {
			return models.ClinicalNote{}, errs.ErrConflict
		}
	}

	if input.SOAP.Subjective != "" {
		note.Subjective = input.SOAP.Subjective
	}
	if input.SOAP.Objective != "" {
		note.Objective = input.SOAP.Objective
	}
	if input.SOAP.Assessment != "" {
		note.Assessment = input.SOAP.Assessment
	}
	if input.SOAP.Plan != "" {
		note.Plan = input.SOAP.Plan
	}
	note.LastEditedBy = input.EditorID
	note.UpdatedAt = now
	if input.Finalize {
		note.IsFinalized = true
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return models.ClinicalNote{}, err
	}

	switch {
	case input.Finalize:
		encounter.Status = models.EncounterFinalized
	case encounter.Status == models.EncounterCreated || encounter.Status == models.EncounterInProgress:
		encounter.Status = models.EncounterReadyForReview
	}
	if err := s.encounters.Save(ctx, encounter); err != nil {
		return models.ClinicalNote{}, err
	}

	s.recorder.LogEvent(ctx, "encounter.note_saved", "clinical_note", note.ID.String(), map[string]interface{}{
		"encounter_id": encounterID.String(),
		"finalized":    note.IsFinalized,
	})
	return note, nil
}

// FinalizeNote performs an explicit review sign-off. It requires an existing
// note and stamps the reviewer onto it.
func (s *Service) FinalizeNote(ctx context.Context, encounterID uuid.UUID, reviewerID, comment string) (models.ClinicalNote, error) {
	lock := s.lockFor(encounterID)
	lock.Lock()
	defer lock.Unlock()

	encounter, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return models.ClinicalNote{}, err
	}

	note, err := s.notes.GetByEncounter(ctx, encounterID)
	if errors.Is(err, errs.ErrNotFound) {
		return models.ClinicalNote{}, errs.ErrConflict
	}
	if err != nil {
		return models.ClinicalNote{}, err
	}

	now := time.Now().UTC()
	note.IsFinalized = true
	note.ReviewedBy = reviewerID
	note.ReviewedAt = &now
	note.ReviewComment = comment
	note.UpdatedAt = now
	if err := s.notes.Save(ctx, note); err != nil {
		return models.ClinicalNote{}, err
	}

	encounter.Status = models.EncounterFinalized
	if err := s.encounters.Save(ctx, encounter); err != nil {
		return models.ClinicalNote{}, err
	}

	s.recorder.LogEvent(ctx, "encounter.note_finalized", "clinical_note", note.ID.String(), map[string]interface{}{
		"encounter_id": encounterID.String(),
		"reviewer_id":  reviewerID,
	})
	return note, nil
}

func (s *Service) GetNote(ctx context.Context, encounterID uuid.UUID) (models.ClinicalNote, error) {
	return s.notes.GetByEncounter(ctx, encounterID)
}

// ReviewQueue lists encounters awaiting scribe review.
func (s *Service) ReviewQueue(ctx context.Context) ([]models.ClinicalEncounter, error) {
	return s.encounters.List(ctx, store.EncounterFilters{Status: models.EncounterReadyForReview})
}

// ClaimReview assigns a reviewer to an encounter. An encounter already
// claimed by someone else cannot be re-claimed.
func (s *Service) ClaimReview(ctx context.Context, encounterID uuid.UUID, reviewerID string) (models.ClinicalEncounter, error) {
	lock := s.lockFor(encounterID)
	lock.Lock()
	defer lock.Unlock()

	encounter, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return models.ClinicalEncounter{}, err
	}
	if encounter.AssignedReviewerID != "" && encounter.AssignedReviewerID != reviewerID {
		return models.ClinicalEncounter{}, errs.ErrConflict
	}

	encounter.AssignedReviewerID = reviewerID
	if err := s.encounters.Save(ctx, encounter); err != nil {
		return models.ClinicalEncounter{}, err
	}
	s.recorder.LogEvent(ctx, "encounter.review_claimed", "encounter", encounter.ID.String(), map[string]interface{}{
		"reviewer_id": reviewerID,
	})
	return encounter, nil
}

func (s *Service) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
