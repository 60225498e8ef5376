package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

// WebhookHandler recebe eventos do provedor de email (reply/bounce) e
// aplica as stop conditions da sequência.
type WebhookHandler struct {
	AdvanceUC *usecase.AdvanceStepUseCase
}

func NewWebhookHandler(advanceUC *usecase.AdvanceStepUseCase) *WebhookHandler {
	return &WebhookHandler{AdvanceUC: advanceUC}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event usecase.EmailEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad JSON", 400)
		return
	}

	// Eventos que não interessam (open, click, etc.) recebem 200 direto
	if event.Type != usecase.EmailEventReplied && event.Type != usecase.EmailEventBounced {
		w.WriteHeader(200)
		return
	}

	if event.LeadID == "" {
		http.Error(w, "lead_id is required", 400)
		return
	}

	if err := h.AdvanceUC.HandleEmailEvent(r.Context(), event); err != nil {
		log.Printf("❌ [WEBHOOK] Evento %s não processado: %v", event.Type, err)
		w.WriteHeader(500)
		return
	}

	w.WriteHeader(200)
}
