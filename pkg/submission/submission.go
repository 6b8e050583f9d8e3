// Package submission turns a finished mask into an inpainting result: it
// validates the inputs, uploads both layers, gates on payment and invokes the
// model.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/user/maskpaint/pkg/ports"
)

var (
	// ErrMissingInput is returned when the image, mask or prompt is absent.
	ErrMissingInput = errors.New("submission: please upload an image, draw a mask, and enter a prompt")
	// ErrPromptNotAllowed is returned when the prompt is outside the configured list.
	ErrPromptNotAllowed = errors.New("submission: prompt is not one of the allowed options")
	// ErrUpload wraps asset upload failures.
	ErrUpload = errors.New("submission: upload failed")
	// ErrPayment wraps payment intent failures.
	ErrPayment = errors.New("submission: payment failed")
	// ErrInference wraps model invocation failures.
	ErrInference = errors.New("submission: inference failed")
	// ErrInvalidResponse is returned when the model answers without an output image.
	ErrInvalidResponse = errors.New("submission: invalid response from inference")
)

// Asset names and type used for both uploads.
const (
	ImageFilename = "image.png"
	MaskFilename  = "mask.png"
	ContentType   = "image/png"
)

// Config holds the fixed parameters of a submission.
type Config struct {
	Amount        int64
	Steps         int
	ModelVersion  string
	PromptOptions []string // empty means free text
}

// DefaultConfig returns the production amount, step count and model version.
func DefaultConfig() Config {
	return Config{
		Amount:       500,
		Steps:        25,
		ModelVersion: "95b7223104132402a9ae91cc677285bc5eb997834bd2349fa486f53910fd68b3",
	}
}

// Input is what the editor hands over at submit time.
type Input struct {
	Image  []byte // PNG of the image layer
	Mask   []byte // last mask snapshot
	Prompt string
}

// Assets are the public URLs of the uploaded layers.
type Assets struct {
	ImageURL string
	MaskURL  string
}

// Payload is the inference request for one attempt.
type Payload struct {
	ImageURL string
	MaskURL  string
	Prompt   string
	Steps    int
}

// Submitter runs the individual submission steps. The editor sequences them
// so that it can update the session state between network calls.
type Submitter struct {
	uploader  ports.AssetUploader
	gateway   ports.PaymentGateway
	inpainter ports.Inpainter
	sink      ports.DebugSink
	logger    ports.Logger
	config    Config
}

// New creates a Submitter.
func New(
	uploader ports.AssetUploader,
	gateway ports.PaymentGateway,
	inpainter ports.Inpainter,
	sink ports.DebugSink,
	logger ports.Logger,
	config Config,
) *Submitter {
	return &Submitter{
		uploader:  uploader,
		gateway:   gateway,
		inpainter: inpainter,
		sink:      sink,
		logger:    logger,
		config:    config,
	}
}

// Config returns the submission parameters.
func (s *Submitter) Config() Config {
	return s.config
}

// Validate checks the inputs without calling any collaborator.
func (s *Submitter) Validate(in Input) error {
	if len(in.Image) == 0 || len(in.Mask) == 0 || strings.TrimSpace(in.Prompt) == "" {
		return ErrMissingInput
	}
	if len(s.config.PromptOptions) > 0 && !slices.Contains(s.config.PromptOptions, in.Prompt) {
		return fmt.Errorf("%w: %q", ErrPromptNotAllowed, in.Prompt)
	}
	return nil
}

// Upload stores the image, then the mask. The first failure stops the attempt.
func (s *Submitter) Upload(ctx context.Context, in Input) (Assets, error) {
	imageURL, err := s.uploader.Upload(ctx, ports.Asset{Filename: ImageFilename, ContentType: ContentType, Data: in.Image})
	if err != nil {
		s.logger.Error("Failed to upload %s: %s", ImageFilename, err)
		return Assets{}, fmt.Errorf("%w: %s: %w", ErrUpload, ImageFilename, err)
	}
	s.logger.Info("Uploaded %s to %s", ImageFilename, imageURL)

	maskURL, err := s.uploader.Upload(ctx, ports.Asset{Filename: MaskFilename, ContentType: ContentType, Data: in.Mask})
	if err != nil {
		s.logger.Error("Failed to upload %s: %s", MaskFilename, err)
		return Assets{}, fmt.Errorf("%w: %s: %w", ErrUpload, MaskFilename, err)
	}
	s.logger.Info("Uploaded %s to %s", MaskFilename, maskURL)

	return Assets{ImageURL: imageURL, MaskURL: maskURL}, nil
}

// RequestPayment creates an intent for the configured amount.
func (s *Submitter) RequestPayment(ctx context.Context) (ports.PaymentIntent, error) {
	intent, err := s.gateway.CreateIntent(ctx, s.config.Amount)
	if err != nil {
		s.logger.Error("Failed to create payment intent: %s", err)
		return ports.PaymentIntent{}, fmt.Errorf("%w: %w", ErrPayment, err)
	}
	if intent.ClientSecret == "" {
		return ports.PaymentIntent{}, fmt.Errorf("%w: no client secret returned", ErrPayment)
	}
	s.logger.Info("Payment intent %s created for %d", intent.ID, s.config.Amount)
	return intent, nil
}

// Payload builds the inference payload from uploaded assets and the prompt.
func (s *Submitter) Payload(assets Assets, prompt string) Payload {
	return Payload{
		ImageURL: assets.ImageURL,
		MaskURL:  assets.MaskURL,
		Prompt:   prompt,
		Steps:    s.config.Steps,
	}
}

// Inpaint invokes the model and returns the first output URL.
func (s *Submitter) Inpaint(ctx context.Context, p Payload) (string, error) {
	req := ports.InpaintRequest{
		Version: s.config.ModelVersion,
		Input: ports.InpaintInput{
			Image:             p.ImageURL,
			Mask:              p.MaskURL,
			Prompt:            p.Prompt,
			NumInferenceSteps: p.Steps,
		},
	}

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(req, "", "  "); err == nil {
			s.sink.SaveRequestJSON(data)
		}
	}

	s.logger.Info("Running inference with %d steps", p.Steps)
	res, err := s.inpainter.Inpaint(ctx, req)
	if err != nil {
		s.logger.Error("Inference failed: %s", err)
		if errors.Is(err, ports.ErrNoOutput) {
			return "", fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInference, err)
	}

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(res.Outputs, "", "  "); err == nil {
			s.sink.SaveResponseJSON(data)
		}
	}

	url, err := FirstOutput(res)
	if err != nil {
		s.logger.Error("Inference failed: %s", err)
		return "", err
	}
	s.logger.Info("Inference completed: %s", url)
	return url, nil
}

// FirstOutput returns the first non-empty output URL.
func FirstOutput(res ports.InpaintResult) (string, error) {
	for _, out := range res.Outputs {
		if out != "" {
			return out, nil
		}
	}
	return "", ErrInvalidResponse
}
