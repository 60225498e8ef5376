package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

func newEnrichUC(leadRepo *MockLeadRepository, provider *MockEnrichmentProvider) *EnrichLeadUseCase {
	uc := NewEnrichLeadUseCase(leadRepo, provider)
	uc.Now = func() time.Time { return friday }
	return uc
}

func TestEnrichLead_CacheHitSkipsProvider(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	provider := new(MockEnrichmentProvider)
	uc := newEnrichUC(leadRepo, provider)

	lead := &entity.Lead{
		ID:      "l1",
		Company: "Acme",
		Enrichment: map[string]entity.EnrichmentEntry{
			EnrichmentKeyCompanyResearch: {
				Payload:     json.RawMessage(`{"summary":"cached"}`),
				GeneratedAt: friday.Add(-1 * time.Hour),
			},
		},
	}
	leadRepo.On("FindByID", mock.Anything, "l1").Return(lead, nil)

	output, err := uc.Execute(context.Background(), "l1")

	assert.NoError(t, err)
	assert.True(t, output.Cached)
	assert.JSONEq(t, `{"summary":"cached"}`, string(output.Payload))
	provider.AssertNotCalled(t, "Research", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichLead_StaleCacheGoesToProvider(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	provider := new(MockEnrichmentProvider)
	uc := newEnrichUC(leadRepo, provider)

	lead := &entity.Lead{
		ID:      "l1",
		Company: "Acme",
		Sector:  "saas",
		Enrichment: map[string]entity.EnrichmentEntry{
			EnrichmentKeyCompanyResearch: {
				Payload:     json.RawMessage(`{"summary":"old"}`),
				GeneratedAt: friday.Add(-48 * time.Hour),
			},
		},
	}
	leadRepo.On("FindByID", mock.Anything, "l1").Return(lead, nil)
	provider.On("Research", mock.Anything, "Acme", "saas").
		Return(json.RawMessage(`{"summary":"fresh"}`), nil)
	leadRepo.On("SaveEnrichment", mock.Anything, "l1", EnrichmentKeyCompanyResearch, mock.Anything).Return(nil)

	output, err := uc.Execute(context.Background(), "l1")

	assert.NoError(t, err)
	assert.False(t, output.Cached)
	assert.JSONEq(t, `{"summary":"fresh"}`, string(output.Payload))
	leadRepo.AssertExpectations(t)
}

func TestEnrichLead_UnknownLead(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	provider := new(MockEnrichmentProvider)
	uc := newEnrichUC(leadRepo, provider)

	leadRepo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrLeadNotFound)

	_, err := uc.Execute(context.Background(), "ghost")

	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeLeadMissing, de.Code)
}
