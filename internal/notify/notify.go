// Package notify posts run summaries to a configured chat webhook. An empty
// webhook URL disables delivery without error.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

// Notifier delivers run outcomes to an external channel.
type Notifier interface {
	RunCompleted(ctx context.Context, report core.RunReport) error
}

// Webhook posts Slack-compatible JSON payloads to a single webhook URL.
type Webhook struct {
	url   string
	httpc *http.Client
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithHTTPClient substitutes the underlying HTTP client, used by tests.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhook) { w.httpc = c }
}

// NewWebhook returns a notifier for the given URL. An empty URL yields a
// notifier whose deliveries are silent no-ops.
func NewWebhook(url string, opts ...Option) *Webhook {
	w := &Webhook{url: url, httpc: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type payload struct {
	Text string `json:"text"`
}

// RunCompleted posts a one-line summary of a finished bulk run.
func (w *Webhook) RunCompleted(ctx context.Context, report core.RunReport) error {
	if w.url == "" {
		logger.Debug("No webhook configured, skipping run notification")
		return nil
	}

	outcome := "completed"
	if !report.FullSuccess() {
		outcome = "completed with failures"
	}
	msg := payload{Text: fmt.Sprintf(
		"Local pages %s %s: %d total, %d created, %d updated, %d failed, %d skipped in %s",
		report.Operation, outcome,
		report.Total, report.Created, report.Updated, report.Failed, report.Skipped,
		report.Duration.Round(time.Second),
	)}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
