package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError mapeia a taxonomia de erros do usecase para status HTTP.
// TechnicalError sai genérico para o caller; o detalhe fica no log.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeSequenceMissing, usecase.CodeLeadMissing:
			status = http.StatusNotFound
		case usecase.CodeTerminalState:
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{Success: false, Error: de.Message})
		return
	}

	log.Printf("❌ [API] Erro interno: %v", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Success: false, Error: "internal error"})
}
