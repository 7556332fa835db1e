package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/transcription"
)

type uploadAudioRequest struct {
	AudioBase64 string `json:"audio_base64"`
	Suffix      string `json:"suffix"`
}

func (h *Handler) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	var req uploadAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.AudioBase64 == "" {
		http.Error(w, "audio_base64 is required", http.StatusBadRequest)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		http.Error(w, "audio_base64 is not valid base64", http.StatusBadRequest)
		return
	}

	ref, err := h.audio.Save(data, req.Suffix)
	if err != nil {
		writeServiceError(w, err, "failed to store audio")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"audio_ref": ref})
}

// handleAppendAudioChunk extends a previously uploaded blob with a raw chunk
// body, supporting chunked capture from the client. Each chunk gets a
// best-effort interim transcription; a transient ASR failure yields a visible
// placeholder instead of failing the upload.
func (h *Handler) handleAppendAudioChunk(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		http.Error(w, "chunk body is required", http.StatusBadRequest)
		return
	}
	if err := h.audio.Append(ref, data); err != nil {
		writeServiceError(w, err, "failed to append audio chunk")
		return
	}

	partial, err := h.transcription.TranscribeRef(r.Context(), ref, r.URL.Query().Get("language"))
	if err != nil {
		logger.Log.WithError(err).WithField("ref", ref).Warn("interim transcription failed")
		partial = "[transcription unavailable]"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"audio_ref":          ref,
		"partial_transcript": partial,
	})
}

type createTranscriptionRequest struct {
	AudioRef       string `json:"audio_ref"`
	LanguageCode   string `json:"language_code"`
	TargetLanguage string `json:"target_language"`
	Async          bool   `json:"async"`
	EncounterID    string `json:"encounter_id"`
	SessionID      string `json:"session_id"`
}

func (h *Handler) handleCreateTranscription(w http.ResponseWriter, r *http.Request) {
	var req createTranscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.AudioRef == "" {
		http.Error(w, "audio_ref is required", http.StatusBadRequest)
		return
	}

	input := transcription.CreateJobInput{
		AudioRef:       req.AudioRef,
		LanguageCode:   req.LanguageCode,
		TargetLanguage: req.TargetLanguage,
	}

	if req.Async {
		created, err := h.transcription.CreateAsync(r.Context(), input)
		if err != nil {
			writeServiceError(w, err, "failed to enqueue transcription")
			return
		}
		if err := h.attachCreated(r, req, created.ID); err != nil {
			writeServiceError(w, err, "failed to attach transcription")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]interface{}{"job": created})
		return
	}

	created, err := h.transcription.Create(r.Context(), input)
	if err != nil && created.ID == uuid.Nil {
		writeServiceError(w, err, "failed to run transcription")
		return
	}
	if attachErr := h.attachCreated(r, req, created.ID); attachErr != nil {
		writeServiceError(w, attachErr, "failed to attach transcription")
		return
	}
	// A failed job is still returned so the caller sees the terminal state
	// and its error message.
	status := http.StatusCreated
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]interface{}{"job": created})
}

func (h *Handler) attachCreated(r *http.Request, req createTranscriptionRequest, jobID uuid.UUID) error {
	if req.EncounterID != "" {
		encounterID, err := uuid.Parse(req.EncounterID)
		if err != nil {
			return errors.New("invalid encounter_id")
		}
		if _, err := h.encounters.AttachJob(r.Context(), encounterID, jobID); err != nil {
			return err
		}
	}
	if req.SessionID != "" {
		sessionID, err := uuid.Parse(req.SessionID)
		if err != nil {
			return errors.New("invalid session_id")
		}
		if _, err := h.sessions.AttachJob(r.Context(), sessionID, jobID); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) handleGetTranscription(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	job, err := h.transcription.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get transcription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}
