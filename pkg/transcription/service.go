package transcription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Service owns the transcription job lifecycle:
// PENDING -> PROCESSING -> COMPLETED | FAILED. A job that reaches a terminal
// state keeps it; failures record the backend error on the job itself.
type Service struct {
	jobs        store.JobStore
	asr         ASRBackend
	translation TranslationBackend
	recorder    *audit.Recorder
	callTimeout time.Duration

	mu       sync.Mutex
	jobLocks map[uuid.UUID]*sync.Mutex
}

func NewService(jobs store.JobStore, asr ASRBackend, translation TranslationBackend, recorder *audit.Recorder, callTimeout time.Duration) *Service {
	return &Service{
		jobs:        jobs,
		asr:         asr,
		translation: translation,
		recorder:    recorder,
		callTimeout: callTimeout,
		jobLocks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

type CreateJobInput struct {
	AudioRef       string
	LanguageCode   string
	TargetLanguage string
}

// Enqueue registers a new PENDING job without running it.
func (s *Service) Enqueue(ctx context.Context, input CreateJobInput) (models.TranscriptJob, error) {
	job := models.TranscriptJob{
		ID:             uuid.New(),
		TenantID:       tenancy.FromContext(ctx),
		CreatedAt:      time.Now().UTC(),
		Status:         models.JobPending,
		AudioRef:       input.AudioRef,
		LanguageCode:   input.LanguageCode,
		TargetLanguage: input.TargetLanguage,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return models.TranscriptJob{}, err
	}
	s.recorder.LogEvent(ctx, "transcription.job.created", "transcript_job", job.ID.String(), nil)
	return job, nil
}

// Create enqueues a job and runs it to completion before returning.
func (s *Service) Create(ctx context.Context, input CreateJobInput) (models.TranscriptJob, error) {
	job, err := s.Enqueue(ctx, input)
	if err != nil {
		return models.TranscriptJob{}, err
	}
	if err := s.Run(ctx, job.ID); err != nil {
		// The failure is recorded on the job; return the job in its
		// terminal state alongside the error.
		failed, getErr := s.jobs.Get(ctx, job.ID)
		if getErr != nil {
			return models.TranscriptJob{}, err
		}
		return failed, err
	}
	return s.jobs.Get(ctx, job.ID)
}

// CreateAsync enqueues a job and processes it in the background. Callers poll
// Get for the terminal state.
func (s *Service) CreateAsync(ctx context.Context, input CreateJobInput) (models.TranscriptJob, error) {
	job, err := s.Enqueue(ctx, input)
	if err != nil {
		return models.TranscriptJob{}, err
	}

	bgCtx := tenancy.WithTenant(context.Background(), tenancy.FromContext(ctx))
	go func() {
		if err := s.Run(bgCtx, job.ID); err != nil {
			logger.Log.WithError(err).WithField("job_id", job.ID).Warn("background transcription failed")
		}
	}()

	return job, nil
}

// Run drives one job through the processing pipeline. Concurrent runs of the
// same job serialize on a per-job lock.
func (s *Service) Run(ctx context.Context, jobID uuid.UUID) error {
	lock := s.lockFor(jobID)
	lock.Lock()
	defer lock.Unlock()

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != models.JobPending {
		return fmt.Errorf("job %s is %s, expected %s", jobID, job.Status, models.JobPending)
	}

	job.Status = models.JobProcessing
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	text, err := s.transcribe(ctx, job)
	if err != nil {
		return s.fail(ctx, job, fmt.Errorf("transcription: %w", err))
	}
	job.ResultText = text

	if job.TargetLanguage != "" {
		translated, err := s.translate(ctx, job)
		if err != nil {
			return s.fail(ctx, job, fmt.Errorf("translation: %w", err))
		}
		job.TranslatedText = translated
	}

	job.Status = models.JobCompleted
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}
	s.recorder.LogEvent(ctx, "transcription.job.completed", "transcript_job", job.ID.String(), nil)
	return nil
}

func (s *Service) Get(ctx context.Context, jobID uuid.UUID) (models.TranscriptJob, error) {
	return s.jobs.Get(ctx, jobID)
}

// TranscribeRef runs the ASR backend directly against stored audio without a
// job, used for interim transcripts during chunked capture.
func (s *Service) TranscribeRef(ctx context.Context, audioRef, languageCode string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.asr.Transcribe(callCtx, audioRef, languageCode)
}

func (s *Service) transcribe(ctx context.Context, job models.TranscriptJob) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.asr.Transcribe(callCtx, job.AudioRef, job.LanguageCode)
}

func (s *Service) translate(ctx context.Context, job models.TranscriptJob) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.translation.Translate(callCtx, job.ResultText, job.LanguageCode, job.TargetLanguage)
}

func (s *Service) fail(ctx context.Context, job models.TranscriptJob, cause error) error {
	job.Status = models.JobFailed
	job.ErrorMessage = cause.Error()
	if err := s.jobs.Save(ctx, job); err != nil {
		logger.Log.WithError(err).WithField("job_id", job.ID).Error("failed to persist job failure")
	}
	s.recorder.LogEvent(ctx, "transcription.job.failed", "transcript_job", job.ID.String(), map[string]interface{}{
		"error": cause.Error(),
	})
	return cause
}

func (s *Service) lockFor(jobID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.jobLocks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		s.jobLocks[jobID] = lock
	}
	return lock
}
