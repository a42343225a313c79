package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"legacy_portal/internal/infrastructure/retry"
	"legacy_portal/internal/usecase/interfaces"
)

var ErrTMSNotConfigured = errors.New("tms client not configured")

// TMSClient creates projects in the translation management system.
type TMSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	caller  *retry.Caller
}

var _ interfaces.ITMSClient = (*TMSClient)(nil)

func NewTMSClient(baseURL, apiKey string, timeout time.Duration, policy retry.Policy) *TMSClient {
	return &TMSClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		caller:  retry.New("tms", policy),
	}
}

type tmsProjectPayload struct {
	Name           string `json:"name"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	WordCount      int    `json:"word_count"`
	Urgency        string `json:"urgency"`
	Deadline       string `json:"deadline"`
	Price          string `json:"price"`
}

type tmsProjectResponse struct {
	ID string `json:"id"`
}

func (c *TMSClient) CreateProject(ctx context.Context, in interfaces.TMSProjectRequest) (string, error) {
	if c.baseURL == "" {
		return "", ErrTMSNotConfigured
	}

	body, err := json.Marshal(tmsProjectPayload{
		Name:           in.Name,
		ClientName:     in.ClientName,
		ClientEmail:    in.ClientEmail,
		SourceLanguage: in.SourceLanguage,
		TargetLanguage: in.TargetLanguage,
		WordCount:      in.WordCount,
		Urgency:        in.Urgency,
		Deadline:       in.Deadline.UTC().Format(time.RFC3339),
		Price:          in.Price.StringFixed(2),
	})
	if err != nil {
		return "", err
	}

	id, err := retry.Do(ctx, c.caller, func(ctx context.Context) (string, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		log.Printf("[notification][tms] create project failed name=%s err=%v", in.Name, err)
		return "", err
	}
	log.Printf("[notification][tms] project created name=%s project_id=%s", in.Name, id)
	return id, nil
}

func (c *TMSClient) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/projects", bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &retry.StatusError{Op: "create project", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out tmsProjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", retry.Permanent(err)
	}
	if out.ID == "" {
		return "", retry.Permanent(errors.New("tms returned empty project id"))
	}
	return out.ID, nil
}
