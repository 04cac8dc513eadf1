// Package llm implements the client for the generative text API, including
// retry with exponential backoff, rate-limit handling, and model validation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

const (
	// DefaultBaseURL is the API endpoint root.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when no model has been selected explicitly.
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens bounds the size of a single generation.
	DefaultMaxTokens = 4096

	apiVersion  = "2023-06-01"
	maxAttempts = 5
	maxDelay    = 60 * time.Second
)

// ErrConfiguration marks a missing credential or model selection. It is never
// retried and no network call is made.
var ErrConfiguration = errors.New("generative client is not configured")

// APIError is a non-2xx HTTP response or a malformed payload from the API.
type APIError struct {
	StatusCode int
	Body       string
	Retryable  bool
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("generative API error: %s", e.Body)
	}
	return fmt.Sprintf("generative API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// retryableStatuses are server/overload conditions worth retrying. Everything
// else fails immediately.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
	http.StatusInsufficientStorage: true, // 507
	509:                            true, // bandwidth limit exceeded
	529:                            true, // overloaded
}

// transientCauses is the vocabulary of network-level failures worth retrying.
var transientCauses = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"no such host",
	"temporary failure",
	"network is unreachable",
	"empty reply",
}

// Client sends prompts to the generative API. Calls are strictly sequential;
// the client holds no mutable state beyond its configuration.
type Client struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	httpc     *http.Client
	sleep     func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithMaxTokens overrides the generation token ceiling.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithSleep overrides the backoff sleep function.
func WithSleep(f func(time.Duration)) Option {
	return func(c *Client) { c.sleep = f }
}

// NewClient creates a client. Credential and model validity are checked at
// call time so that ListModels can run with only a key configured.
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		model:     model,
		baseURL:   DefaultBaseURL,
		maxTokens: DefaultMaxTokens,
		httpc:     &http.Client{Timeout: 300 * time.Second},
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Send submits a prompt and returns the model's text. Transient failures are
// retried up to five attempts with delays doubling from 1s, capped at 60s; a
// 429 honors Retry-After up to the same cap. Non-retryable failures surface
// immediately.
func (c *Client) Send(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", ErrConfiguration)
	}
	if c.model == "" {
		return "", fmt.Errorf("%w: no model selected", ErrConfiguration)
	}

	delay := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, retryAfter, err := c.attempt(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				logger.Info("generative API call succeeded after retry", "attempt", attempt)
			}
			return text, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Retryable {
			logger.Error("generative API call failed", err, "attempt", attempt)
			return "", err
		}

		wait := delay
		if retryAfter > 0 {
			wait = retryAfter
		}
		if wait > maxDelay {
			wait = maxDelay
		}
		logger.Warn("generative API call failed, backing off",
			"attempt", attempt, "of", maxAttempts, "delay", wait.String(), "error", err.Error())
		c.sleep(wait)
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}

	logger.Error("generative API call exhausted retries", lastErr, "attempts", maxAttempts)
	return "", fmt.Errorf("generation failed after %d attempts: %w", maxAttempts, lastErr)
}

// attempt performs a single request. The returned retryAfter is non-zero only
// for a 429 carrying a parseable Retry-After header.
func (c *Client) attempt(ctx context.Context, prompt string) (string, time.Duration, error) {
	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", 0, &APIError{Body: err.Error(), Retryable: isTransientNetErr(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &APIError{Body: "failed to read response: " + err.Error(), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), 200),
			Retryable:  retryableStatuses[resp.StatusCode],
		}
		var retryAfter time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return "", retryAfter, apiErr
	}

	var parsed messageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, &APIError{StatusCode: resp.StatusCode, Body: "malformed response payload", Retryable: false}
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", 0, &APIError{StatusCode: resp.StatusCode, Body: "response contains no text content", Retryable: false}
	}
	return parsed.Content[0].Text, 0, nil
}

type modelsResponse struct {
	Data []struct {
		ID          string    `json:"id"`
		DisplayName string    `json:"display_name"`
		CreatedAt   time.Time `json:"created_at"`
		Type        string    `json:"type"`
	} `json:"data"`
}

// ListModels returns the models available to the configured credential. It
// requires only a valid key, not a selected model.
func (c *Client) ListModels(ctx context.Context) ([]core.ModelInfo, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrConfiguration)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read models response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	var parsed modelsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	models := make([]core.ModelInfo, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		models = append(models, core.ModelInfo{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			CreatedAt:   m.CreatedAt,
			Type:        m.Type,
		})
	}
	return models, nil
}

// ValidateModel sends a minimal test prompt against the given model and
// reports whether the API accepted it.
func (c *Client) ValidateModel(ctx context.Context, modelID string) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: missing API key", ErrConfiguration)
	}
	probe := &Client{
		apiKey:    c.apiKey,
		model:     modelID,
		baseURL:   c.baseURL,
		maxTokens: 16,
		httpc:     c.httpc,
		sleep:     c.sleep,
	}
	if _, err := probe.Send(ctx, "Reply with the single word: OK"); err != nil {
		return fmt.Errorf("model %q failed validation: %w", modelID, err)
	}
	return nil
}

// CleanJSONResponse strips markdown code fences and surrounding prose from a
// model response that is expected to be a single JSON object.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

func isTransientNetErr(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, cause := range transientCauses {
		if strings.Contains(msg, cause) {
			return true
		}
	}
	return false
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxDelay {
		d = maxDelay
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
