package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type EnrollmentHandler struct {
	EnrollmentRepo entity.EnrollmentRepositoryInterface
	AdvanceUC      *usecase.AdvanceStepUseCase
}

func NewEnrollmentHandler(repo entity.EnrollmentRepositoryInterface, advanceUC *usecase.AdvanceStepUseCase) *EnrollmentHandler {
	return &EnrollmentHandler{EnrollmentRepo: repo, AdvanceUC: advanceUC}
}

// HandleGetByLead — GET /enrollments/{leadId} (matrículas ativas do lead)
func (h *EnrollmentHandler) HandleGetByLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	enrollments, err := h.EnrollmentRepo.FindActiveByLead(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if enrollments == nil {
		enrollments = []*entity.Enrollment{}
	}

	writeJSON(w, http.StatusOK, enrollments)
}

// HandlePause — POST /enrollments/{enrollmentId}/pause
func (h *EnrollmentHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "enrollmentId")

	if err := h.AdvanceUC.Pause(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleResume — POST /enrollments/{enrollmentId}/resume
func (h *EnrollmentHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "enrollmentId")

	if err := h.AdvanceUC.Resume(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
