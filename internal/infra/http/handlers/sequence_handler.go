package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type SequenceHandler struct {
	SequenceRepo entity.SequenceRepositoryInterface
	EnrollUC     *usecase.EnrollLeadsUseCase
}

func NewSequenceHandler(repo entity.SequenceRepositoryInterface, enrollUC *usecase.EnrollLeadsUseCase) *SequenceHandler {
	return &SequenceHandler{
		SequenceRepo: repo,
		EnrollUC:     enrollUC,
	}
}

type CreateSequenceRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Sector      string                   `json:"sector"`
	Steps       []entity.Step            `json:"steps,omitempty"`
	Settings    *entity.SequenceSettings `json:"settings,omitempty"`
}

// HandleList — GET /sequences (lista com contadores por status)
func (h *SequenceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sequences, err := h.SequenceRepo.ListWithStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if sequences == nil {
		sequences = []*entity.SequenceWithStats{}
	}
	writeJSON(w, http.StatusOK, sequences)
}

// HandleCreate — POST /sequences (steps/settings omitidos ganham defaults)
func (h *SequenceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: "JSON inválido: " + err.Error()})
		return
	}

	seq, err := entity.NewSequence(req.Name, req.Description, req.Sector, req.Steps, req.Settings)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	if err := h.SequenceRepo.Create(r.Context(), seq); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, seq)
}

// HandleEnroll — PUT /sequences, body {sequence_id, lead_ids}
func (h *SequenceHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	var input usecase.EnrollLeadsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: "JSON inválido: " + err.Error()})
		return
	}

	output, err := h.EnrollUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
