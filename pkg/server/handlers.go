package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/maskpaint/pkg/adapters/rediscache"
	"github.com/user/maskpaint/pkg/adapters/replicate"
	"github.com/user/maskpaint/pkg/ports"
)

const (
	msgPaymentFailed   = "Failed to create payment intent"
	msgInferenceFailed = "Failed to process image"
	msgInvalidBody     = "Invalid request body"
	msgUploadMissing   = "Please upload an image file"
	msgUploadFailed    = "Failed to upload to Cloudflare"
	msgUploadOK        = "Upload successful"

	maxPredictionBody = 1 << 20
)

// CreatePaymentIntent handles POST /create-payment-intent.
func (s *Server) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("invalid payment intent request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ProxyError{Error: msgInvalidBody})
		return
	}

	intent, err := s.gateway.CreateIntent(c.Request.Context(), req.Amount)
	if err != nil {
		s.log.Error("error creating payment intent", zap.Int64("amount", req.Amount), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ProxyError{Error: msgPaymentFailed})
		return
	}

	c.JSON(http.StatusOK, PaymentIntentResponse{ClientSecret: intent.ClientSecret, ID: intent.ID})
}

// Replicate handles POST /replicate. The JSON body is forwarded unchanged and
// the prediction is returned as Replicate sent it.
func (s *Server) Replicate(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPredictionBody))
	if err != nil || !json.Valid(body) {
		s.log.Warn("invalid prediction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ProxyError{Error: msgInvalidBody})
		return
	}

	ctx := c.Request.Context()
	key := rediscache.Key(body)
	if cached, ok := s.cacheGet(ctx, key); ok {
		s.log.Info("cache hit", zap.String("cache_key", key))
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	data, err := s.predictor.Predict(ctx, body)
	if err != nil {
		s.log.Error("error processing image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ProxyError{Error: msgInferenceFailed})
		return
	}

	// Only finished predictions are worth replaying.
	if _, err := replicate.ParseOutput(data); err == nil {
		s.cacheSet(ctx, key, data)
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("failed to get cache", zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *Server) cacheSet(ctx context.Context, key string, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.log.Warn("failed to set cache", zap.Error(err))
	}
}

// Upload handles POST /upload with a multipart "file" field.
func (s *Server) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.log.Warn("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: msgUploadMissing,
			Error:   err.Error(),
		})
		return
	}

	if file.Size > s.opts.MaxUploadSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Image size should be less than %dMB", s.opts.MaxUploadSize/(1024*1024)),
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !s.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Unsupported file type %q", contentType),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Message: msgUploadFailed, Error: err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Message: msgUploadFailed, Error: err.Error()})
		return
	}

	url, err := s.uploader.Upload(c.Request.Context(), ports.Asset{
		Filename:    file.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		s.log.Error("failed to upload file", zap.String("filename", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: msgUploadFailed,
			Error:   err.Error(),
		})
		return
	}

	s.log.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.String("url", url))

	c.JSON(http.StatusOK, UploadResponse{
		Success: true,
		Message: msgUploadOK,
		Data:    &UploadData{URL: url},
	})
}

func (s *Server) isAllowedType(contentType string) bool {
	return slices.Contains(s.opts.AllowedTypes, contentType)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.opts.Version.Version,
		"cache":   s.cache != nil,
	})
}

func (s *Server) version(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Version)
}
