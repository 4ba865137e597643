package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Escalator forwards text that passed the local filter to an external
// moderation endpoint for a second opinion.
type Escalator struct {
	endpoint string
	client   *http.Client
}

func NewEscalator(endpoint string, timeout time.Duration) *Escalator {
	return &Escalator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an external endpoint is configured at all.
func (e *Escalator) Enabled() bool {
	return e != nil && e.endpoint != ""
}

type escalationRequest struct {
	Text string `json:"text"`
}

type escalationResponse struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason"`
}

// Check asks the external service about the text. The service is advisory:
// any transport error, timeout, or non-200 status fails open and the text
// is treated as safe, so an outage never blocks legitimate users.
func (e *Escalator) Check(ctx context.Context, text string) Result {
	if !e.Enabled() {
		return Result{Safe: true}
	}

	body, err := json.Marshal(escalationRequest{Text: text})
	if err != nil {
		return Result{Safe: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{Safe: true}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		slog.Warn("Moderation escalation unreachable, failing open",
			slog.String("type", "http"),
			slog.Any("error", err))
		return Result{Safe: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Moderation escalation rejected request, failing open",
			slog.String("type", "http"),
			slog.String("status", fmt.Sprintf("%d", resp.StatusCode)))
		return Result{Safe: true}
	}

	var out escalationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{Safe: true}
	}
	if !out.Safe {
		return Result{Safe: false, Reason: blockedReason}
	}
	return Result{Safe: true}
}

// Service chains the local filter with the optional external escalator.
// The local list is authoritative; escalation only ever adds rejections.
type Service struct {
	filter    *Filter
	escalator *Escalator
}

func NewService(filter *Filter, escalator *Escalator) *Service {
	return &Service{filter: filter, escalator: escalator}
}

func (s *Service) Moderate(ctx context.Context, text string) Result {
	if result := s.filter.Check(text); !result.Safe {
		return result
	}
	if s.escalator.Enabled() {
		return s.escalator.Check(ctx, text)
	}
	return Result{Safe: true}
}
