// Package resend implements the Notifier port against the Resend email API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tithr-app/tithr_backend/internal/core/ports"
)

const defaultBaseURL = "https://api.resend.com"

// Notifier sends HTML email with attachments through Resend.
type Notifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// NewNotifier creates a Resend-backed notifier sending from the given
// address, e.g. "Tithr <reports@tithr.app>".
func NewNotifier(apiKey, from string) *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		from:       from,
	}
}

var _ ports.Notifier = (*Notifier)(nil)

// sendRequest is the Resend POST /emails payload.
type sendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []ports.Attachment `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send dispatches exactly one email. Errors are surfaced to the caller
// unretried; retry policy is the caller's decision.
func (n *Notifier) Send(ctx context.Context, to []string, subject string, htmlBody string, attachments []ports.Attachment) error {
	payload, err := json.Marshal(sendRequest{
		From:        n.from,
		To:          to,
		Subject:     subject,
		HTML:        htmlBody,
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr sendResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend rejected email (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend rejected email (status %d)", resp.StatusCode)
	}
	return nil
}
