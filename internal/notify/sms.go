package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSGateway sends messages through an HTTP SMS gateway.
type SMSGateway struct {
	BaseURL string
	APIKey  string
	Sender  string
	Client  *http.Client
}

func NewSMSGateway(baseURL, apiKey, sender string) *SMSGateway {
	return &SMSGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Sender:  sender,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *SMSGateway) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(map[string]string{
		"sender":  g.Sender,
		"to":      to,
		"message": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}
	return nil
}
