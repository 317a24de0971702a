package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"admitdesk.org/internal/obs"
)

// GatewaySender posts messages to an HTTP SMS gateway.
type GatewaySender struct {
	URL    string
	APIKey string
	Client *http.Client
}

// NewGatewaySender builds a sender for the given gateway endpoint.
func NewGatewaySender(url, apiKey string) *GatewaySender {
	return &GatewaySender{
		URL:    url,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GatewaySender) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      phone,
		"message": message,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. It is the
// sender of last resort when no gateway is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, phone, message string) error {
	obs.Logger().WithField("phone", phone).WithField("message", message).Info("sms_not_configured")
	return nil
}
