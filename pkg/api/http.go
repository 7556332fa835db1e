package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinscribe-ai/platform/pkg/audiostore"
	"github.com/clinscribe-ai/platform/pkg/cds"
	"github.com/clinscribe-ai/platform/pkg/coding"
	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/encounters"
	"github.com/clinscribe-ai/platform/pkg/nlp"
	"github.com/clinscribe-ai/platform/pkg/redaction"
	"github.com/clinscribe-ai/platform/pkg/segments"
	"github.com/clinscribe-ai/platform/pkg/session"
	"github.com/clinscribe-ai/platform/pkg/transcription"
)

type Handler struct {
	transcription *transcription.Service
	encounters    *encounters.Service
	sessions      *session.Service
	pipeline      *nlp.Pipeline
	coder         *coding.Orchestrator
	decisions     *cds.Engine
	classifier    *segments.Classifier
	audio         *audiostore.LocalStore
	redactor      *redaction.Redactor
}

func NewHandler(
	transcriptionSvc *transcription.Service,
	encounterSvc *encounters.Service,
	sessionSvc *session.Service,
	pipeline *nlp.Pipeline,
	coder *coding.Orchestrator,
	decisions *cds.Engine,
	classifier *segments.Classifier,
	audio *audiostore.LocalStore,
	redactor *redaction.Redactor,
) *Handler {
	return &Handler{
		transcription: transcriptionSvc,
		encounters:    encounterSvc,
		sessions:      sessionSvc,
		pipeline:      pipeline,
		coder:         coder,
		decisions:     decisions,
		classifier:    classifier,
		audio:         audio,
		redactor:      redactor,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/audio", h.handleUploadAudio).Methods(http.MethodPost)
	r.HandleFunc("/audio/{ref}/chunks", h.handleAppendAudioChunk).Methods(http.MethodPost)

	r.HandleFunc("/transcriptions", h.handleCreateTranscription).Methods(http.MethodPost)
	r.HandleFunc("/transcriptions/{id}", h.handleGetTranscription).Methods(http.MethodGet)

	r.HandleFunc("/encounters", h.handleCreateEncounter).Methods(http.MethodPost)
	r.HandleFunc("/encounters", h.handleListEncounters).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}", h.handleGetEncounter).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}/jobs", h.handleAttachJob).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/note", h.handleUpsertNote).Methods(http.MethodPut)
	r.HandleFunc("/encounters/{id}/note", h.handleGetNote).Methods(http.MethodGet)
	r.HandleFunc("/encounters/{id}/note/finalize", h.handleFinalizeNote).Methods(http.MethodPost)
	r.HandleFunc("/encounters/{id}/claim", h.handleClaimReview).Methods(http.MethodPost)
	r.HandleFunc("/scribe/queue", h.handleReviewQueue).Methods(http.MethodGet)

	r.HandleFunc("/sessions", h.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", h.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/jobs", h.handleAttachSessionJob).Methods(http.MethodPost)

	r.HandleFunc("/nlp/analyze", h.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/nlp/codes", h.handleAssignCodes).Methods(http.MethodPost)
	r.HandleFunc("/nlp/suggestions", h.handleSuggest).Methods(http.MethodPost)
	r.HandleFunc("/nlp/segments", h.handleClassifySegments).Methods(http.MethodPost)
	r.HandleFunc("/nlp/redact", h.handleRedact).Methods(http.MethodPost)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps domain errors onto HTTP statuses without leaking
// whether an out-of-tenant record exists.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, errs.ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	case errs.IsMisconfig(err):
		logger.Log.WithError(err).Error(action)
		http.Error(w, "backend misconfigured", http.StatusServiceUnavailable)
	default:
		logger.Log.WithError(err).Error(action)
		http.Error(w, action, http.StatusInternalServerError)
	}
}
