// Package server exposes the payment, inference and upload proxy routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/maskpaint/pkg/ports"
)

// Predictor forwards a raw prediction request. *replicate.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, body []byte) ([]byte, error)
}

// Options configures the routes.
type Options struct {
	MaxUploadSize int64
	AllowedTypes  []string
	AllowOrigins  []string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Version       VersionInfo
}

// Server holds the collaborators behind the routes.
type Server struct {
	gateway   ports.PaymentGateway
	predictor Predictor
	uploader  ports.AssetUploader
	cache     ports.PredictionCache
	log       *zap.Logger
	opts      Options
}

// New creates a Server. cache may be nil to disable prediction caching.
func New(
	gateway ports.PaymentGateway,
	predictor Predictor,
	uploader ports.AssetUploader,
	cache ports.PredictionCache,
	log *zap.Logger,
	opts Options,
) *Server {
	return &Server{
		gateway:   gateway,
		predictor: predictor,
		uploader:  uploader,
		cache:     cache,
		log:       log,
		opts:      opts,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.opts.AllowOrigins))
	r.MaxMultipartMemory = s.opts.MaxUploadSize + 1<<20

	r.GET("/health", s.health)
	r.GET("/version", s.version)

	r.POST("/create-payment-intent", s.CreatePaymentIntent)
	r.POST("/replicate", s.Replicate)
	r.POST("/upload", s.Upload)

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
