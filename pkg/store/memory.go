package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// In-memory stores back tests and single-node deployments. All access goes
// through a mutex so concurrent writers to the same key serialize instead of
// interleaving.

type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]models.TranscriptJob
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[uuid.UUID]models.TranscriptJob)}
}

func (s *MemoryJobStore) Save(_ context.Context, job models.TranscriptJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryJobStore) Get(ctx context.Context, id uuid.UUID) (models.TranscriptJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok || job.TenantID != tenancy.FromContext(ctx) {
		return models.TranscriptJob{}, errs.ErrNotFound
	}
	return job, nil
}

type MemoryEncounterStore struct {
	mu         sync.RWMutex
	encounters map[uuid.UUID]models.ClinicalEncounter
}

func NewMemoryEncounterStore() *MemoryEncounterStore {
	return &MemoryEncounterStore{encounters: make(map[uuid.UUID]models.ClinicalEncounter)}
}

func (s *MemoryEncounterStore) Save(_ context.Context, encounter models.ClinicalEncounter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encounters[encounter.ID] = encounter
	return nil
}

func (s *MemoryEncounterStore) Get(ctx context.Context, id uuid.UUID) (models.ClinicalEncounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	encounter, ok := s.encounters[id]
	if !ok || encounter.TenantID != tenancy.FromContext(ctx) {
		return models.ClinicalEncounter{}, errs.ErrNotFound
	}
	return encounter, nil
}

func (s *MemoryEncounterStore) List(ctx context.Context, filters EncounterFilters) ([]models.ClinicalEncounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant := tenancy.FromContext(ctx)

	var out []models.ClinicalEncounter
	for _, encounter := range s.encounters {
		if encounter.TenantID != tenant {
			continue
		}
		if filters.ClinicianID != "" && encounter.ClinicianID != filters.ClinicianID {
			continue
		}
		if filters.PatientID != "" && encounter.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && encounter.Status != filters.Status {
			continue
		}
		out = append(out, encounter)
	}
	return out, nil
}

type MemoryNoteStore struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]models.ClinicalNote
}

func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{notes: make(map[uuid.UUID]models.ClinicalNote)}
}

func (s *MemoryNoteStore) Save(_ context.Context, note models.ClinicalNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = note
	return nil
}

func (s *MemoryNoteStore) Get(ctx context.Context, id uuid.UUID) (models.ClinicalNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	if !ok || note.TenantID != tenancy.FromContext(ctx) {
		return models.ClinicalNote{}, errs.ErrNotFound
	}
	return note, nil
}

func (s *MemoryNoteStore) GetByEncounter(ctx context.Context, encounterID uuid.UUID) (models.ClinicalNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant := tenancy.FromContext(ctx)
	for _, note := range s.notes {
		if note.TenantID == tenant && note.EncounterID == encounterID {
			return note, nil
		}
	}
	return models.ClinicalNote{}, errs.ErrNotFound
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.ConversationSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]models.ConversationSession)}
}

func (s *MemorySessionStore) Save(_ context.Context, session models.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (models.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok || session.TenantID != tenancy.FromContext(ctx) {
		return models.ConversationSession{}, errs.ErrNotFound
	}
	return session, nil
}

// NewMemoryStores wires the full in-memory store bundle.
func NewMemoryStores() Stores {
	return Stores{
		Jobs:       NewMemoryJobStore(),
		Encounters: NewMemoryEncounterStore(),
		Notes:      NewMemoryNoteStore(),
		Sessions:   NewMemorySessionStore(),
	}
}
