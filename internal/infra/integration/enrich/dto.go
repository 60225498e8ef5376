package enrich

import "encoding/json"

type researchRequest struct {
	Company string `json:"company"`
	Sector  string `json:"sector,omitempty"`
}

type researchResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}
