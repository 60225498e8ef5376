package linkedin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// Client fala com a API de automação de LinkedIn (conexões e mensagens via
// conta conectada do SDR).
type Client struct {
	accessToken string
	accountID   string
	baseURL     string
}

func NewClient() *Client {
	baseURL := os.Getenv("LINKEDIN_API_URL")
	if baseURL == "" {
		baseURL = "https://api.unipile.com/v1"
	}
	return &Client{
		accessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		accountID:   os.Getenv("LINKEDIN_ACCOUNT_ID"),
		baseURL:     baseURL,
	}
}

func (c *Client) SendConnect(profileURL, note string) error {
	return c.post("/invitations", sendConnectRequest{ProfileURL: profileURL, Note: note})
}

func (c *Client) SendMessage(profileURL, body string) error {
	return c.post("/messages", sendMessageRequest{ProfileURL: profileURL, Body: body})
}

func (c *Client) post(path string, payload interface{}) error {
	if c.accessToken == "" || c.accountID == "" {
		log.Println("⚠️ LinkedIn: ACCESS_TOKEN ou ACCOUNT_ID não configurados")
		return fmt.Errorf("linkedin não configurado")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/accounts/%s%s", c.baseURL, c.accountID, path)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		middleware.RecordIntegrationError("linkedin")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		middleware.RecordIntegrationError("linkedin")
		return fmt.Errorf("linkedin API respondeu %d: %s", resp.StatusCode, string(raw))
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && !out.Success && out.Error != "" {
		middleware.RecordIntegrationError("linkedin")
		return fmt.Errorf("linkedin API recusou: %s", out.Error)
	}

	return nil
}
