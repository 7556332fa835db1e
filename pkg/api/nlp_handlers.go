package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

type analyzeRequest struct {
	Transcript      string                 `json:"transcript"`
	PatientMetadata map[string]interface{} `json:"patient_metadata"`
}

// handleAnalyze runs the whole documentation pipeline on one transcript:
// consent gating, normalization, NER, coding, SOAP, billing risk, decision
// support, and segment classification.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		http.Error(w, "transcript is required", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Process(r.Context(), req.Transcript, tenancy.FromContext(r.Context()), req.PatientMetadata)
	if err != nil {
		writeServiceError(w, err, "failed to analyze transcript")
		return
	}

	codes, risk := h.coder.Assign(result.Entities, &result.SOAP)
	suggestions := h.decisions.Suggest(result.Entities, &result.SOAP, req.PatientMetadata)
	transcriptSegments := h.classifier.Classify(result.NormalizedText)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"original_text":   result.OriginalText,
		"normalized_text": result.NormalizedText,
		"entities":        result.Entities,
		"soap_note":       result.SOAP,
		"consent":         result.Consent,
		"codes":           codes,
		"billing_risk":    risk,
		"suggestions":     suggestions,
		"segments":        transcriptSegments,
	})
}

type assignCodesRequest struct {
	Entities models.ClinicalEntities `json:"entities"`
	SOAPNote *models.SOAPNote        `json:"soap_note"`
}

func (h *Handler) handleAssignCodes(w http.ResponseWriter, r *http.Request) {
	var req assignCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	codes, risk := h.coder.Assign(req.Entities, req.SOAPNote)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"codes":        codes,
		"billing_risk": risk,
	})
}

type suggestRequest struct {
	Entities        models.ClinicalEntities `json:"entities"`
	SOAPNote        *models.SOAPNote        `json:"soap_note"`
	PatientMetadata map[string]interface{}  `json:"patient_metadata"`
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	suggestions := h.decisions.Suggest(req.Entities, req.SOAPNote, req.PatientMetadata)
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

type classifySegmentsRequest struct {
	Transcript string `json:"transcript"`
}

func (h *Handler) handleClassifySegments(w http.ResponseWriter, r *http.Request) {
	var req classifySegmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		http.Error(w, "transcript is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"segments": h.classifier.Classify(req.Transcript),
	})
}

type redactRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"redacted_text": h.redactor.Redact(req.Text),
		"findings":      h.redactor.Scan(req.Text),
	})
}

type createSessionRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	created, err := h.sessions.Create(r.Context(), req.Title)
	if err != nil {
		writeServiceError(w, err, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": created})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	found, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": found})
}

func (h *Handler) handleAttachSessionJob(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	var req attachJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		http.Error(w, "invalid job_id", http.StatusBadRequest)
		return
	}
	updated, err := h.sessions.AttachJob(r.Context(), sessionID, jobID)
	if err != nil {
		writeServiceError(w, err, "failed to attach job to session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": updated})
}
