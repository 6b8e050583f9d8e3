// Package cloudflare uploads assets to Cloudflare Images.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/user/maskpaint/pkg/ports"
)

// DefaultBaseURL is the Cloudflare API v4 root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

const fallbackMessage = "Failed to upload to Cloudflare"

// ErrNotConfigured is returned when the account or token is missing.
var ErrNotConfigured = errors.New("cloudflare: account id and api token are required")

// APIError carries the first message Cloudflare reported. Its text is meant
// for the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Config holds the Images API credentials.
type Config struct {
	BaseURL   string
	AccountID string
	APIToken  string
}

type response struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		ID       string   `json:"id"`
		Variants []string `json:"variants"`
	} `json:"result"`
}

// Uploader implements ports.AssetUploader on the Images v1 endpoint.
type Uploader struct {
	config Config
	client *http.Client
	logger ports.Logger
}

// New creates an Uploader. A nil client means http.DefaultClient.
func New(config Config, client *http.Client, logger ports.Logger) *Uploader {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{config: config, client: client, logger: logger}
}

func (u *Uploader) endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/images/v1", strings.TrimRight(u.config.BaseURL, "/"), u.config.AccountID)
}

// Upload posts the asset as the multipart field "file" and returns the first
// delivery variant URL.
func (u *Uploader) Upload(ctx context.Context, asset ports.Asset) (string, error) {
	if u.config.AccountID == "" || u.config.APIToken == "" {
		return "", ErrNotConfigured
	}

	body, contentType, err := encodeFile(asset)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint(), body)
	if err != nil {
		return "", fmt.Errorf("cloudflare: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.config.APIToken)
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudflare: %w", err)
	}
	defer resp.Body.Close()

	var parsed response
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Success || decodeErr != nil {
		msg := fallbackMessage
		if len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
			msg = parsed.Errors[0].Message
		}
		u.logger.Error("Cloudflare upload of %s failed with status %d: %s", asset.Filename, resp.StatusCode, msg)
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if len(parsed.Result.Variants) == 0 {
		return "", &APIError{Status: resp.StatusCode, Message: fallbackMessage}
	}

	u.logger.Debug("Cloudflare image %s stored", parsed.Result.ID)
	return parsed.Result.Variants[0], nil
}

func encodeFile(asset ports.Asset) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, asset.Filename))
	if asset.ContentType != "" {
		h.Set("Content-Type", asset.ContentType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
	}

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("cloudflare: create form part: %w", err)
	}
	if _, err := part.Write(asset.Data); err != nil {
		return nil, "", fmt.Errorf("cloudflare: write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("cloudflare: close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var _ ports.AssetUploader = (*Uploader)(nil)
