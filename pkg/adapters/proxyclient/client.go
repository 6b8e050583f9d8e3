// Package proxyclient talks to a maskpaint server's proxy routes, so an
// editor can run without holding any third-party credentials.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/user/maskpaint/pkg/adapters/replicate"
	"github.com/user/maskpaint/pkg/ports"
	"github.com/user/maskpaint/pkg/server"
)

// RouteError is a non-success answer from a proxy route. Message is the
// text the route put in its body.
type RouteError struct {
	Route   string
	Status  int
	Message string
}

func (e *RouteError) Error() string {
	return e.Message
}

// Client implements ports.AssetUploader, ports.PaymentGateway and
// ports.Inpainter against the proxy routes.
type Client struct {
	baseURL string
	client  *http.Client
	logger  ports.Logger
}

// New creates a Client for the server at baseURL. A nil client means
// http.DefaultClient.
func New(baseURL string, client *http.Client, logger ports.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client, logger: logger}
}

// Upload posts the asset to /upload.
func (c *Client) Upload(ctx context.Context, asset ports.Asset) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, asset.Filename))
	h.Set("Content-Type", asset.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("proxyclient: create form part: %w", err)
	}
	if _, err := part.Write(asset.Data); err != nil {
		return "", fmt.Errorf("proxyclient: write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("proxyclient: close form: %w", err)
	}

	status, body, err := c.post(ctx, "/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var resp struct {
		server.UploadResponse
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &RouteError{Route: "/upload", Status: status, Message: "Failed to upload to Cloudflare"}
	}
	if status != http.StatusOK || !resp.Success || resp.Data == nil || resp.Data.URL == "" {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return "", &RouteError{Route: "/upload", Status: status, Message: msg}
	}
	return resp.Data.URL, nil
}

// CreateIntent posts the amount to /create-payment-intent.
func (c *Client) CreateIntent(ctx context.Context, amount int64) (ports.PaymentIntent, error) {
	reqBody, err := json.Marshal(server.PaymentIntentRequest{Amount: amount})
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	status, body, err := c.post(ctx, "/create-payment-intent", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	if status != http.StatusOK {
		return ports.PaymentIntent{}, routeError("/create-payment-intent", status, body)
	}

	var resp server.PaymentIntentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ports.PaymentIntent{}, fmt.Errorf("proxyclient: decode payment intent: %w", err)
	}
	return ports.PaymentIntent{ID: resp.ID, ClientSecret: resp.ClientSecret, Amount: amount}, nil
}

// Inpaint posts the prediction to /replicate and parses the output URLs.
func (c *Client) Inpaint(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return ports.InpaintResult{}, err
	}
	status, body, err := c.post(ctx, "/replicate", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return ports.InpaintResult{}, err
	}
	if status != http.StatusOK {
		return ports.InpaintResult{}, routeError("/replicate", status, body)
	}

	outputs, err := replicate.ParseOutput(body)
	if err != nil {
		return ports.InpaintResult{}, err
	}
	return ports.InpaintResult{Outputs: outputs}, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("proxyclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("proxyclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("proxyclient: read %s: %w", path, err)
	}
	c.logger.Debug("POST %s -> %d", path, resp.StatusCode)
	return resp.StatusCode, data, nil
}

func routeError(route string, status int, body []byte) error {
	var pe server.ProxyError
	msg := http.StatusText(status)
	if json.Unmarshal(body, &pe) == nil && pe.Error != "" {
		msg = pe.Error
	}
	return &RouteError{Route: route, Status: status, Message: msg}
}

var (
	_ ports.AssetUploader  = (*Client)(nil)
	_ ports.PaymentGateway = (*Client)(nil)
	_ ports.Inpainter      = (*Client)(nil)
)
