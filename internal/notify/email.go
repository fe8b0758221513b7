package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIMailer sends mail through an HTTP delivery API.
type APIMailer struct {
	BaseURL string
	APIKey  string
	From    string
	Client  *http.Client
}

func NewAPIMailer(baseURL, apiKey, from string) *APIMailer {
	return &APIMailer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		From:    from,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *APIMailer) Send(ctx context.Context, msg EmailMessage) error {
	body, err := json.Marshal(map[string]string{
		"from":    m.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email api status %d", resp.StatusCode)
	}
	return nil
}
