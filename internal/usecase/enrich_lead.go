package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

const (
	EnrichmentKeyCompanyResearch = "company_research"
	enrichmentTTL                = 24 * time.Hour
)

type EnrichLeadOutput struct {
	LeadID      string          `json:"lead_id"`
	Key         string          `json:"key"`
	Payload     json.RawMessage `json:"payload"`
	GeneratedAt time.Time       `json:"generated_at"`
	Cached      bool            `json:"cached"`
}

// EnrichLeadUseCase busca pesquisa de empresa na API de enriquecimento,
// com cache tipado por chave no próprio lead (TTL de 24h). A checagem de
// validade mora aqui, num lugar só.
type EnrichLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Provider EnrichmentProvider
	TTL      time.Duration
	Now      func() time.Time
}

func NewEnrichLeadUseCase(leadRepo entity.LeadRepositoryInterface, provider EnrichmentProvider) *EnrichLeadUseCase {
	return &EnrichLeadUseCase{
		LeadRepo: leadRepo,
		Provider: provider,
		TTL:      enrichmentTTL,
		Now:      time.Now,
	}
}

func (uc *EnrichLeadUseCase) Execute(ctx context.Context, leadID string) (*EnrichLeadOutput, error) {
	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadMissing, Message: "lead não encontrado: " + leadID}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	now := uc.Now()
	if entry, ok := lead.FreshEnrichment(EnrichmentKeyCompanyResearch, uc.TTL, now); ok {
		return &EnrichLeadOutput{
			LeadID:      lead.ID,
			Key:         EnrichmentKeyCompanyResearch,
			Payload:     entry.Payload,
			GeneratedAt: entry.GeneratedAt,
			Cached:      true,
		}, nil
	}

	payload, err := uc.Provider.Research(ctx, lead.Company, lead.Sector)
	if err != nil {
		return nil, &TechnicalError{Code: "ENRICHMENT_ERROR", Message: "provider falhou: " + err.Error()}
	}

	entry := entity.EnrichmentEntry{Payload: payload, GeneratedAt: now}
	if err := uc.LeadRepo.SaveEnrichment(ctx, lead.ID, EnrichmentKeyCompanyResearch, entry); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	return &EnrichLeadOutput{
		LeadID:      lead.ID,
		Key:         EnrichmentKeyCompanyResearch,
		Payload:     payload,
		GeneratedAt: now,
		Cached:      false,
	}, nil
}
