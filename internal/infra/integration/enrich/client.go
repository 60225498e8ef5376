package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// Client é a API hospedada de pesquisa de empresa (company research). O
// core só enxerga o payload opaco; o cache com TTL fica no use case.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Research(ctx context.Context, company, sector string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("enrichment não configurado")
	}

	body, err := json.Marshal(researchRequest{Company: company, Sector: sector})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/research", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		middleware.RecordIntegrationError("enrich")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		middleware.RecordIntegrationError("enrich")
		return nil, fmt.Errorf("enrichment API respondeu %d: %s", resp.StatusCode, string(raw))
	}

	var out researchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("resposta inválida da enrichment API: %w", err)
	}
	if out.Error != "" {
		middleware.RecordIntegrationError("enrich")
		return nil, fmt.Errorf("enrichment API recusou: %s", out.Error)
	}

	return out.Result, nil
}
