package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Service manages conversation sessions: lightweight groupings of
// transcription jobs outside the encounter workflow. Reads go through Redis
// when a client is configured; the backing store stays authoritative.
type Service struct {
	sessions store.SessionStore
	cache    *redis.Client
	ttl      time.Duration
	recorder *audit.Recorder
}

func NewService(sessions store.SessionStore, cache *redis.Client, ttl time.Duration, recorder *audit.Recorder) *Service {
	return &Service{sessions: sessions, cache: cache, ttl: ttl, recorder: recorder}
}

func (s *Service) Create(ctx context.Context, title string) (models.ConversationSession, error) {
	session := models.ConversationSession{
		ID:                  uuid.New(),
		TenantID:            tenancy.FromContext(ctx),
		CreatedAt:           time.Now().UTC(),
		Title:               title,
		TranscriptionJobIDs: []uuid.UUID{},
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return models.ConversationSession{}, err
	}
	s.cacheSet(ctx, session)
	s.recorder.LogEvent(ctx, "session.created", "conversation_session", session.ID.String(), nil)
	return session, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.ConversationSession, error) {
	if cached, ok := s.cacheGet(ctx, id); ok {
		return cached, nil
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return models.ConversationSession{}, err
	}
	s.cacheSet(ctx, session)
	return session, nil
}

// AttachJob records a transcription job against the session. Duplicate
// attachments are no-ops.
func (s *Service) AttachJob(ctx context.Context, sessionID, jobID uuid.UUID) (models.ConversationSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.ConversationSession{}, err
	}

	for _, existing := range session.TranscriptionJobIDs {
		if existing == jobID {
			return session, nil
		}
	}

	session.TranscriptionJobIDs = append(session.TranscriptionJobIDs, jobID)
	if err := s.sessions.Save(ctx, session); err != nil {
		return models.ConversationSession{}, err
	}
	s.cacheSet(ctx, session)
	return session, nil
}

func (s *Service) cacheKey(ctx context.Context, id uuid.UUID) string {
	return "session:" + tenancy.FromContext(ctx) + ":" + id.String()
}

func (s *Service) cacheGet(ctx context.Context, id uuid.UUID) (models.ConversationSession, bool) {
	if s.cache == nil {
		return models.ConversationSession{}, false
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(ctx, id)).Result()
	if err != nil {
		return models.ConversationSession{}, false
	}
	var session models.ConversationSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return models.ConversationSession{}, false
	}
	return session, true
}

func (s *Service) cacheSet(ctx context.Context, session models.ConversationSession) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(ctx, session.ID), raw, s.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("session_id", session.ID).Warn("session cache write failed")
	}
}
