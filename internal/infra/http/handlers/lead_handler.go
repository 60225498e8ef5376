package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type LeadHandler struct {
	leadRepo    entity.LeadRepositoryInterface
	contactRepo entity.ContactRepositoryInterface
	enrichUC    *usecase.EnrichLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	leadRepo entity.LeadRepositoryInterface,
	contactRepo entity.ContactRepositoryInterface,
	enrichUC *usecase.EnrichLeadUseCase,
) *LeadHandler {
	return &LeadHandler{
		leadRepo:    leadRepo,
		contactRepo: contactRepo,
		enrichUC:    enrichUC,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min por IP
	}
}

type CaptureContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

type CaptureLeadRequest struct {
	ID        string                 `json:"id,omitempty"`
	Company   string                 `json:"company"`
	Sector    string                 `json:"sector,omitempty"`
	City      string                 `json:"city,omitempty"`
	State     string                 `json:"state,omitempty"`
	Country   string                 `json:"country,omitempty"`
	Revenue   string                 `json:"revenue,omitempty"`
	Employees int                    `json:"employees,omitempty"`
	Contact   *CaptureContactRequest `json:"contact,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// CaptureLead — POST /leads (upsert; contato vira o primário do lead)
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if req.Company == "" {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Company is required",
		})
		return
	}

	lead := &entity.Lead{
		ID:        req.ID,
		Company:   req.Company,
		Sector:    req.Sector,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		Revenue:   req.Revenue,
		Employees: req.Employees,
		Stage:     entity.StageNew,
	}
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}

	if err := h.leadRepo.Upsert(ctx, lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	if req.Contact != nil && req.Contact.Email != "" {
		contact, err := entity.NewContact(lead.ID, req.Contact.Name, req.Contact.Email)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{Success: false, Message: err.Error()})
			return
		}
		contact.Title = req.Contact.Title
		contact.LinkedInURL = req.Contact.LinkedInURL

		if err := h.contactRepo.UpsertPrimary(ctx, contact); err != nil {
			writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
				Success: false,
				Message: "Failed to save contact",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  lead.ID,
	})
}

// Enrich — POST /leads/{leadId}/enrich (cache-aware, TTL de 24h)
func (h *LeadHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	output, err := h.enrichUC.Execute(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
