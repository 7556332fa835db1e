package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Postgres-backed stores. Every query carries a tenant_id predicate taken
// from the request context, so a record owned by another tenant surfaces as
// errs.ErrNotFound rather than leaking across boundaries.

type TranscriptJobModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       string    `gorm:"index"`
	CreatedAt      time.Time
	Status         string
	AudioRef       string
	LanguageCode   string
	TargetLanguage string
	ResultText     string
	TranslatedText string
	ErrorMessage   string
}

func (TranscriptJobModel) TableName() string {
	return "transcript_jobs"
}

type EncounterModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID           string    `gorm:"index"`
	CreatedAt          time.Time
	ClinicianID        string `gorm:"index"`
	PatientID          string `gorm:"index"`
	Title              string
	Status             string         `gorm:"index"`
	JobIDs             datatypes.JSON `gorm:"type:jsonb"`
	AssignedReviewerID string
}

func (EncounterModel) TableName() string {
	return "clinical_encounters"
}

type ClinicalNoteModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID      string    `gorm:"index"`
	EncounterID   uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
	LastEditedBy  string
	IsFinalized   bool
	ReviewedBy    string
	ReviewedAt    *time.Time
	ReviewComment string
	Subjective    string
	Objective     string
	Assessment    string
	Plan          string
}

func (ClinicalNoteModel) TableName() string {
	return "clinical_notes"
}

type SessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"index"`
	CreatedAt time.Time
	Title     string
	JobIDs    datatypes.JSON `gorm:"type:jsonb"`
}

func (SessionModel) TableName() string {
	return "conversation_sessions"
}

type PostgresJobStore struct {
	db *gorm.DB
}

type PostgresEncounterStore struct {
	db *gorm.DB
}

type PostgresNoteStore struct {
	db *gorm.DB
}

type PostgresSessionStore struct {
	db *gorm.DB
}

// NewPostgresStores migrates the schema and returns the store bundle.
func NewPostgresStores(db *gorm.DB) (Stores, error) {
	if err := db.AutoMigrate(&TranscriptJobModel{}, &EncounterModel{}, &ClinicalNoteModel{}, &SessionModel{}); err != nil {
		return Stores{}, err
	}
	return Stores{
		Jobs:       &PostgresJobStore{db: db},
		Encounters: &PostgresEncounterStore{db: db},
		Notes:      &PostgresNoteStore{db: db},
		Sessions:   &PostgresSessionStore{db: db},
	}, nil
}

func (s *PostgresJobStore) Save(ctx context.Context, job models.TranscriptJob) error {
	record := TranscriptJobModel{
		ID:             job.ID,
		TenantID:       job.TenantID,
		CreatedAt:      job.CreatedAt,
		Status:         string(job.Status),
		AudioRef:       job.AudioRef,
		LanguageCode:   job.LanguageCode,
		TargetLanguage: job.TargetLanguage,
		ResultText:     job.ResultText,
		TranslatedText: job.TranslatedText,
		ErrorMessage:   job.ErrorMessage,
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *PostgresJobStore) Get(ctx context.Context, id uuid.UUID) (models.TranscriptJob, error) {
	var record TranscriptJobModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenancy.FromContext(ctx)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TranscriptJob{}, errs.ErrNotFound
	}
	if err != nil {
		return models.TranscriptJob{}, err
	}
	return models.TranscriptJob{
		ID:             record.ID,
		TenantID:       record.TenantID,
		CreatedAt:      record.CreatedAt,
		Status:         models.TranscriptJobStatus(record.Status),
		AudioRef:       record.AudioRef,
		LanguageCode:   record.LanguageCode,
		TargetLanguage: record.TargetLanguage,
		ResultText:     record.ResultText,
		TranslatedText: record.TranslatedText,
		ErrorMessage:   record.ErrorMessage,
	}, nil
}

func (s *PostgresEncounterStore) Save(ctx context.Context, encounter models.ClinicalEncounter) error {
	jobIDs, err := json.Marshal(encounter.TranscriptionJobIDs)
	if err != nil {
		return err
	}
	record := EncounterModel{
		ID:                 encounter.ID,
		TenantID:           encounter.TenantID,
		CreatedAt:          encounter.CreatedAt,
		ClinicianID:        encounter.ClinicianID,
		PatientID:          encounter.PatientID,
		Title:              encounter.Title,
		Status:             string(encounter.Status),
		JobIDs:             datatypes.JSON(jobIDs),
		AssignedReviewerID: encounter.AssignedReviewerID,
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *PostgresEncounterStore) Get(ctx context.Context, id uuid.UUID) (models.ClinicalEncounter, error) {
	var record EncounterModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenancy.FromContext(ctx)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ClinicalEncounter{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ClinicalEncounter{}, err
	}
	return mapEncounterModel(record)
}

func (s *PostgresEncounterStore) List(ctx context.Context, filters EncounterFilters) ([]models.ClinicalEncounter, error) {
	query := s.db.WithContext(ctx).Where("tenant_id = ?", tenancy.FromContext(ctx))
	if filters.ClinicianID != "" {
		query = query.Where("clinician_id = ?", filters.ClinicianID)
	}
	if filters.PatientID != "" {
		query = query.Where("patient_id = ?", filters.PatientID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}

	var records []EncounterModel
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]models.ClinicalEncounter, 0, len(records))
	for _, record := range records {
		encounter, err := mapEncounterModel(record)
		if err != nil {
			return nil, err
		}
		out = append(out, encounter)
	}
	return out, nil
}

func mapEncounterModel(record EncounterModel) (models.ClinicalEncounter, error) {
	var jobIDs []uuid.UUID
	if len(record.JobIDs) > 0 {
		if err := json.Unmarshal(record.JobIDs, &jobIDs); err != nil {
			return models.ClinicalEncounter{}, err
		}
	}
	return models.ClinicalEncounter{
		ID:                  record.ID,
		TenantID:            record.TenantID,
		CreatedAt:           record.CreatedAt,
		ClinicianID:         record.ClinicianID,
		PatientID:           record.PatientID,
		Title:               record.Title,
		Status:              models.EncounterStatus(record.Status),
		TranscriptionJobIDs: jobIDs,
		AssignedReviewerID:  record.AssignedReviewerID,
	}, nil
}

func (s *PostgresNoteStore) Save(ctx context.Context, note models.ClinicalNote) error {
	record := ClinicalNoteModel{
		ID:            note.ID,
		TenantID:      note.TenantID,
		EncounterID:   note.EncounterID,
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
		CreatedBy:     note.CreatedBy,
		LastEditedBy:  note.LastEditedBy,
		IsFinalized:   note.IsFinalized,
		ReviewedBy:    note.ReviewedBy,
		ReviewedAt:    note.ReviewedAt,
		ReviewComment: note.ReviewComment,
		Subjective:    note.Subjective,
		Objective:     note.Objective,
		Assessment:    note.Assessment,
		Plan:          note.Plan,
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *PostgresNoteStore) Get(ctx context.Context, id uuid.UUID) (models.ClinicalNote, error) {
	var record ClinicalNoteModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenancy.FromContext(ctx)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ClinicalNote{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ClinicalNote{}, err
	}
	return mapNoteModel(record), nil
}

func (s *PostgresNoteStore) GetByEncounter(ctx context.Context, encounterID uuid.UUID) (models.ClinicalNote, error) {
	var record ClinicalNoteModel
	err := s.db.WithContext(ctx).
		Where("encounter_id = ? AND tenant_id = ?", encounterID, tenancy.FromContext(ctx)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ClinicalNote{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ClinicalNote{}, err
	}
	return mapNoteModel(record), nil
}

func mapNoteModel(record ClinicalNoteModel) models.ClinicalNote {
	return models.ClinicalNote{
		ID:            record.ID,
		TenantID:      record.TenantID,
		EncounterID:   record.EncounterID,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		CreatedBy:     record.CreatedBy,
		LastEditedBy:  record.LastEditedBy,
		IsFinalized:   record.IsFinalized,
		ReviewedBy:    record.ReviewedBy,
		ReviewedAt:    record.ReviewedAt,
		ReviewComment: record.ReviewComment,
		Subjective:    record.Subjective,
		Objective:     record.Objective,
		Assessment:    record.Assessment,
		Plan:          record.Plan,
	}
}

func (s *PostgresSessionStore) Save(ctx context.Context, session models.ConversationSession) error {
	jobIDs, err := json.Marshal(session.TranscriptionJobIDs)
	if err != nil {
		return err
	}
	record := SessionModel{
		ID:        session.ID,
		TenantID:  session.TenantID,
		CreatedAt: session.CreatedAt,
		Title:     session.Title,
		JobIDs:    datatypes.JSON(jobIDs),
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *PostgresSessionStore) Get(ctx context.Context, id uuid.UUID) (models.ConversationSession, error) {
	var record SessionModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenancy.FromContext(ctx)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ConversationSession{}, errs.ErrNotFound
	}
	if err != nil {
		return models.ConversationSession{}, err
	}

	var jobIDs []uuid.UUID
	if len(record.JobIDs) > 0 {
		if err := json.Unmarshal(record.JobIDs, &jobIDs); err != nil {
			return models.ConversationSession{}, err
		}
	}
	return models.ConversationSession{
		ID:                  record.ID,
		TenantID:            record.TenantID,
		CreatedAt:           record.CreatedAt,
		Title:               record.Title,
		TranscriptionJobIDs: jobIDs,
	}, nil
}
