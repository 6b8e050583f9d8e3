// Package replicate invokes models through the Replicate predictions API.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/user/maskpaint/pkg/ports"
)

// DefaultBaseURL is the public Replicate API.
const DefaultBaseURL = "https://api.replicate.com"

var (
	// ErrNoOutput is returned when a prediction carries no output URL.
	ErrNoOutput = ports.ErrNoOutput
	// ErrNotConfigured is returned when no API token is set.
	ErrNotConfigured = errors.New("replicate: api token is required")
)

// StatusError is a non-2xx answer from the predictions endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "Replicate API error: " + http.StatusText(e.Code)
}

// PredictionError is a prediction that ran and failed on Replicate's side.
type PredictionError struct {
	Status  string
	Message string
}

func (e *PredictionError) Error() string {
	return e.Message
}

// Config holds the predictions API settings.
type Config struct {
	BaseURL  string
	APIToken string
}

// Client implements ports.Inpainter. Requests use "Prefer: wait" so the
// prediction completes within the call.
type Client struct {
	config Config
	client *http.Client
	logger ports.Logger
}

// New creates a Client. A nil client means http.DefaultClient.
func New(config Config, client *http.Client, logger ports.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{config: config, client: client, logger: logger}
}

// Predict forwards a raw prediction body and returns the raw response body.
func (c *Client) Predict(ctx context.Context, body []byte) ([]byte, error) {
	if c.config.APIToken == "" {
		return nil, ErrNotConfigured
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/v1/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	c.logger.Debug("Replicate responded %d (%d bytes)", resp.StatusCode, len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Replicate API error %d: %s", resp.StatusCode, string(data))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// Inpaint runs one inpainting prediction.
func (c *Client) Inpaint(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ports.InpaintResult{}, fmt.Errorf("replicate: encode request: %w", err)
	}
	data, err := c.Predict(ctx, body)
	if err != nil {
		return ports.InpaintResult{}, err
	}
	outputs, err := ParseOutput(data)
	if err != nil {
		return ports.InpaintResult{}, err
	}
	return ports.InpaintResult{Outputs: outputs}, nil
}

// ParseOutput extracts output URLs from a prediction response. It accepts
// the prediction object with "output" as a string or a list of strings, and a
// bare top-level list of strings.
func ParseOutput(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return stringList(data)
	}

	var prediction struct {
		Status string          `json:"status"`
		Error  json.RawMessage `json:"error"`
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(data, &prediction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}

	var msg string
	if len(prediction.Error) > 0 && json.Unmarshal(prediction.Error, &msg) == nil && msg != "" {
		return nil, &PredictionError{Status: prediction.Status, Message: msg}
	}

	out := bytes.TrimSpace(prediction.Output)
	switch {
	case len(out) == 0 || string(out) == "null":
		return nil, ErrNoOutput
	case out[0] == '[':
		return stringList(out)
	case out[0] == '"':
		var s string
		if err := json.Unmarshal(out, &s); err != nil || s == "" {
			return nil, ErrNoOutput
		}
		return []string{s}, nil
	default:
		return nil, ErrNoOutput
	}
}

func stringList(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	for _, s := range list {
		if s != "" {
			return list, nil
		}
	}
	return nil, ErrNoOutput
}

var _ ports.Inpainter = (*Client)(nil)
