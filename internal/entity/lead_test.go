package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFreshEnrichment(t *testing.T) {
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	lead := &Lead{
		ID: "l1",
		Enrichment: map[string]EnrichmentEntry{
			"company_research": {
				Payload:     json.RawMessage(`{"summary":"ok"}`),
				GeneratedAt: now.Add(-2 * time.Hour),
			},
			"why_this_lead": {
				Payload:     json.RawMessage(`{"reason":"fit"}`),
				GeneratedAt: now.Add(-48 * time.Hour),
			},
		},
	}

	fresh, ok := lead.FreshEnrichment("company_research", 24*time.Hour, now)
	assert.True(t, ok)
	assert.JSONEq(t, `{"summary":"ok"}`, string(fresh.Payload))

	// Expirado pelo TTL
	_, ok = lead.FreshEnrichment("why_this_lead", 24*time.Hour, now)
	assert.False(t, ok)

	// Chave ausente
	_, ok = lead.FreshEnrichment("ghost", 24*time.Hour, now)
	assert.False(t, ok)
}

func TestEnrollable(t *testing.T) {
	with := &LeadWithContact{Lead: &Lead{ID: "l1"}, Primary: &Contact{ID: "c1"}}
	without := &LeadWithContact{Lead: &Lead{ID: "l2"}}

	assert.True(t, with.Enrollable())
	assert.False(t, without.Enrollable())
}
