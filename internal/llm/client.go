// internal/llm/client.go
// Package llm is the single gateway to the Ollama-compatible generation
// service. It issues one HTTP request per call, enforces the connect and
// read deadlines, and classifies failures; retry policy belongs to callers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medivise/medivise/internal/appconfig"
	"github.com/medivise/medivise/internal/logging"
)

// Client talks to a generation service. Construct it once and share it; the
// underlying http.Client reuses connections across calls and each call is
// stateless.
type Client struct {
	model   string
	baseURL string
	client  *http.Client
	timeout time.Duration
	params  appconfig.Parameters
	debug   bool
}

// Health reports generation-service connectivity and the models it serves.
type Health struct {
	OK              bool     `json:"ok"`
	BaseURL         string   `json:"base_url"`
	Model           string   `json:"model"`
	AvailableModels []string `json:"available_models"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// New constructs a Client from the application configuration.
func New(cfg *appconfig.Config) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout()}
	return &Client{
		model:   cfg.ModelName(),
		baseURL: cfg.ServiceURL(),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:       dialer.DialContext,
				ForceAttemptHTTP2: false,
			},
		},
		timeout: cfg.RequestTimeout(),
		params:  cfg.Parameters,
		debug:   cfg.Debug,
	}
}

// Model returns the model name requests are issued against.
func (c *Client) Model() string { return c.model }

// Generate sends a single prompt to the generation service and returns the
// trimmed response text. systemPrompt may be empty. The call respects the
// configured read deadline; it never retries.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	payload := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"options": c.options(),
	}
	if systemPrompt != "" {
		payload["system"] = systemPrompt
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &GatewayError{Kind: FailureUnexpected, Op: "/api/generate", Err: err}
	}
	if c.debug {
		logging.LogRequest("MEDIVISE->LLM", c.baseURL, c.model, body)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &GatewayError{Kind: FailureUnexpected, Op: "/api/generate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify("/api/generate", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify("/api/generate", err)
	}
	if c.debug {
		logging.LogRequest("LLM->MEDIVISE", c.baseURL, c.model, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{
			Kind:   FailureUpstream,
			Op:     "/api/generate",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &GatewayError{Kind: FailureUnexpected, Op: "/api/generate", Err: err}
	}
	return strings.TrimSpace(result.Response), nil
}

// CheckHealth pings the service's model listing to verify connectivity and
// model availability.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return Health{}, &GatewayError{Kind: FailureUnexpected, Op: "/api/tags", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Health{}, classify("/api/tags", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Health{}, &GatewayError{Kind: FailureUpstream, Op: "/api/tags", Status: resp.StatusCode}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return Health{}, &GatewayError{Kind: FailureUnexpected, Op: "/api/tags", Err: err}
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return Health{OK: true, BaseURL: c.baseURL, Model: c.model, AvailableModels: names}, nil
}

// options builds the decoding configuration, applying the fixed defaults for
// any parameter the config leaves unset.
func (c *Client) options() map[string]any {
	options := map[string]any{
		"temperature":    0.3,
		"top_p":          0.9,
		"top_k":          40,
		"repeat_penalty": 1.1,
		"num_ctx":        4096,
	}
	if c.params.Temperature != nil {
		options["temperature"] = *c.params.Temperature
	}
	if c.params.TopP != nil {
		options["top_p"] = *c.params.TopP
	}
	if c.params.TopK != nil {
		options["top_k"] = *c.params.TopK
	}
	if c.params.RepeatPenalty != nil {
		options["repeat_penalty"] = *c.params.RepeatPenalty
	}
	if c.params.NumCtx != nil {
		options["num_ctx"] = *c.params.NumCtx
	}
	return options
}

// classify maps a transport-level error onto the failure taxonomy.
func classify(op string, err error) *GatewayError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: FailureTimeout, Op: op, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &GatewayError{Kind: FailureTimeout, Op: op, Err: err}
		}
		return &GatewayError{Kind: FailureTransport, Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GatewayError{Kind: FailureTimeout, Op: op, Err: err}
	}
	return &GatewayError{Kind: FailureUnexpected, Op: op, Err: err}
}
