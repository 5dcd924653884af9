// Package texter sends plain SMS through an HTTP gateway. Default
// implementation of the digest's SMS sender contract.
package texter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clearclaim/config"
)

type HTTPTexter struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPTexter(cfg *config.SMSConfig) *HTTPTexter {
	return &HTTPTexter{
		url:    cfg.GatewayURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (t *HTTPTexter) SendPlainSMS(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(sendRequest{To: phone, Message: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %s", resp.Status)
	}
	return nil
}
