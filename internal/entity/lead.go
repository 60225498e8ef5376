package entity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// Pipeline stages
const (
	StageNew       = "new"
	StageContacted = "contacted"
	StageReplied   = "replied"
	StageQualified = "qualified"
	StageWon       = "won"
	StageLost      = "lost"
)

// EnrichmentEntry guarda um artefato de pesquisa por chave, com timestamp
// para controle de TTL no use case (não espalhado pelos call sites).
type EnrichmentEntry struct {
	Payload     json.RawMessage `json:"payload"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type Lead struct {
	ID         string                     `json:"id"`
	Company    string                     `json:"company"`
	Sector     string                     `json:"sector,omitempty"`
	City       string                     `json:"city,omitempty"`
	State      string                     `json:"state,omitempty"`
	Country    string                     `json:"country,omitempty"`
	Revenue    string                     `json:"revenue,omitempty"`
	Employees  int                        `json:"employees,omitempty"`
	Stage      string                     `json:"stage"`
	Enrichment map[string]EnrichmentEntry `json:"enrichment,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

func NewLead(company, sector string) *Lead {
	return &Lead{
		ID:        uuid.New().String(),
		Company:   company,
		Sector:    sector,
		Stage:     StageNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// FreshEnrichment retorna o artefato cacheado se ainda estiver dentro do TTL.
func (l *Lead) FreshEnrichment(key string, ttl time.Duration, now time.Time) (EnrichmentEntry, bool) {
	entry, ok := l.Enrichment[key]
	if !ok {
		return EnrichmentEntry{}, false
	}
	if now.Sub(entry.GeneratedAt) > ttl {
		return EnrichmentEntry{}, false
	}
	return entry, true
}

// LeadWithContact junta o lead com seu contato primário (ou nil, se o lead
// não tiver nenhum contato marcado como primário).
type LeadWithContact struct {
	Lead    *Lead
	Primary *Contact
}

// Enrollable diz se o lead pode entrar numa sequência de outreach.
func (lc *LeadWithContact) Enrollable() bool {
	return lc.Primary != nil
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)

	// FindByIDsWithPrimaryContact ignora silenciosamente IDs inexistentes.
	FindByIDsWithPrimaryContact(ctx context.Context, ids []string) ([]*LeadWithContact, error)
	UpdateStage(ctx context.Context, ids []string, stage string) error
	SaveEnrichment(ctx context.Context, leadID, key string, entry EnrichmentEntry) error
}
