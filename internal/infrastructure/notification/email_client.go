package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"legacy_portal/internal/infrastructure/retry"
	"legacy_portal/internal/usecase/interfaces"
)

// EmailClient posts messages to a transactional email HTTP API.
// Without an API URL it only logs what it would send.
type EmailClient struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
	caller *retry.Caller
}

var _ interfaces.IEmailSender = (*EmailClient)(nil)

func NewEmailClient(apiURL, apiKey, from string, timeout time.Duration, policy retry.Policy) *EmailClient {
	return &EmailClient{
		apiURL: strings.TrimSpace(apiURL),
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: timeout},
		caller: retry.New("email", policy),
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *EmailClient) Send(ctx context.Context, msg interfaces.EmailMessage) error {
	if c.apiURL == "" {
		log.Printf("[notification][email] delivery disabled, dropping to=%s subject=%q", msg.To, msg.Subject)
		return nil
	}

	body, err := json.Marshal(emailPayload{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return err
	}

	_, err = retry.Do(ctx, c.caller, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.post(ctx, body)
	})
	if err != nil {
		log.Printf("[notification][email] send failed to=%s err=%v", msg.To, err)
		return err
	}
	log.Printf("[notification][email] sent to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

func (c *EmailClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &retry.StatusError{Op: "send email", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
