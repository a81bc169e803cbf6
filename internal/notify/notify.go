// Package notify hands assembled sign-request parameters to the external
// email collaborator. Delivery, templating and retries are the relay's
// job; this package only ships the flat parameter set.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

// Relay posts notifications to a configured HTTP relay endpoint.
type Relay struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewRelay(endpoint, token string) *Relay {
	return &Relay{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		token:    token,
	}
}

type relayPayload struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	SenderName     string `json:"sender_name"`
	SenderEmail    string `json:"sender_email"`
	InvoiceNumber  string `json:"invoice_number"`
	InvoiceDate    string `json:"invoice_date"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	SignLink       string `json:"sign_link"`
}

func (r *Relay) SendSignRequest(ctx context.Context, n invoice.Notification) error {
	body, err := json.Marshal(relayPayload{
		RecipientName:  n.RecipientName,
		RecipientEmail: n.RecipientEmail,
		SenderName:     n.SenderName,
		SenderEmail:    n.SenderEmail,
		InvoiceNumber:  n.InvoiceNumber,
		InvoiceDate:    n.InvoiceDate,
		Amount:         n.Amount,
		Description:    n.Description,
		SignLink:       n.SignLink,
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if r.token != "" {
		req.Header.Set("Authorization", "Token "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d from notification relay", resp.StatusCode)
	}

	return nil
}

// LogSender is used when no relay endpoint is configured.
type LogSender struct{}

func (LogSender) SendSignRequest(_ context.Context, n invoice.Notification) error {
	slog.Info("sign request ready (no relay configured)",
		"invoice", n.InvoiceNumber,
		"recipient", n.RecipientEmail,
		"link", n.SignLink,
	)

	return nil
}
