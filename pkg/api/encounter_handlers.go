package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/encounters"
	"github.com/clinscribe-ai/platform/pkg/store"
)

type createEncounterRequest struct {
	ClinicianID string `json:"clinician_id"`
	PatientID   string `json:"patient_id"`
	Title       string `json:"title"`
}

func (h *Handler) handleCreateEncounter(w http.ResponseWriter, r *http.Request) {
	var req createEncounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	encounter, err := h.encounters.Create(r.Context(), encounters.CreateEncounterInput{
		ClinicianID: req.ClinicianID,
		PatientID:   req.PatientID,
		Title:       req.Title,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create encounter")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"encounter": encounter})
}

func (h *Handler) handleListEncounters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := store.EncounterFilters{
		ClinicianID: query.Get("clinician_id"),
		PatientID:   query.Get("patient_id"),
		Status:      models.EncounterStatus(query.Get("status")),
	}
	items, err := h.encounters.List(r.Context(), filters)
	if err != nil {
		writeServiceError(w, err, "failed to list encounters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) handleGetEncounter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	encounter, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to get encounter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": encounter})
}

type attachJobRequest struct {
	JobID string `json:"job_id"`
}

func (h *Handler) handleAttachJob(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
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
	encounter, err := h.encounters.AttachJob(r.Context(), encounterID, jobID)
	if err != nil {
		writeServiceError(w, err, "failed to attach job")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": encounter})
}

type upsertNoteRequest struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
	EditorID   string `json:"editor_id"`
	Finalize   bool   `json:"finalize"`
}

func (h *Handler) handleUpsertNote(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var req upsertNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	note, err := h.encounters.UpsertNote(r.Context(), encounterID, encounters.UpsertNoteInput{
		SOAP: models.SOAPNote{
			Subjective: req.Subjective,
			Objective:  req.Objective,
			Assessment: req.Assessment,
			Plan:       req.Plan,
		},
		EditorID: req.EditorID,
		Finalize: req.Finalize,
	})
	if err != nil {
		writeServiceError(w, err, "failed to save note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *Handler) handleGetNote(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	note, err := h.encounters.GetNote(r.Context(), encounterID)
	if err != nil {
		writeServiceError(w, err, "failed to get note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

type finalizeNoteRequest struct {
	ReviewerID string `json:"reviewer_id"`
	Comment    string `json:"comment"`
}

func (h *Handler) handleFinalizeNote(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var req finalizeNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ReviewerID == "" {
		http.Error(w, "reviewer_id is required", http.StatusBadRequest)
		return
	}
	note, err := h.encounters.FinalizeNote(r.Context(), encounterID, req.ReviewerID, req.Comment)
	if err != nil {
		writeServiceError(w, err, "failed to finalize note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *Handler) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	items, err := h.encounters.ReviewQueue(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list review queue")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type claimReviewRequest struct {
	ReviewerID string `json:"reviewer_id"`
}

func (h *Handler) handleClaimReview(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid encounter id", http.StatusBadRequest)
		return
	}
	var req claimReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ReviewerID == "" {
		http.Error(w, "reviewer_id is required", http.StatusBadRequest)
		return
	}
	encounter, err := h.encounters.ClaimReview(r.Context(), encounterID, req.ReviewerID)
	if err != nil {
		writeServiceError(w, err, "failed to claim review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"encounter": encounter})
}
