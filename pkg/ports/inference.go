package ports

import (
	"context"
	"errors"
)

// ErrNoOutput is returned by an Inpainter whose response carried no output image.
var ErrNoOutput = errors.New("inference: response has no output image")

// InpaintInput is the model input for one inpainting run.
type InpaintInput struct {
	Image             string `json:"image"`
	Mask              string `json:"mask"`
	Prompt            string `json:"prompt"`
	NumInferenceSteps int    `json:"num_inference_steps"`
}

// InpaintRequest is the body sent to the inference collaborator.
type InpaintRequest struct {
	Version string       `json:"version"`
	Input   InpaintInput `json:"input"`
}

// InpaintResult holds the output image URLs returned by the model.
type InpaintResult struct {
	Outputs []string
}

// Inpainter invokes the generative inpainting model and waits for completion.
type Inpainter interface {
	Inpaint(ctx context.Context, req InpaintRequest) (InpaintResult, error)
}

// PredictionCache stores raw prediction responses keyed by request digest.
type PredictionCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}
