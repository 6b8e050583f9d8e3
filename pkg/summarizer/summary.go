// Package summarizer produces a report of one inpainting run.
package summarizer

import "time"

// Summary contains the data collected during one editor session.
type Summary struct {
	GeneratedAt time.Time

	Source     SourceInfo
	Mask       MaskInfo
	Prompt     string
	Submission SubmissionInfo
	Outcome    OutcomeInfo
}

// SourceInfo describes the loaded image and the canvas it was fitted to.
type SourceInfo struct {
	Path         string
	Format       string
	Width        int
	Height       int
	Size         int64
	CanvasWidth  int
	CanvasHeight int
}

// MaskInfo describes the painted mask.
type MaskInfo struct {
	Strokes   int
	BrushSize float64
	Polarity  string
}

// SubmissionInfo describes what was sent to the collaborators.
type SubmissionInfo struct {
	Transport     string // "direct" or the proxy base URL
	ImageURL      string
	MaskURL       string
	PaymentIntent string
	Amount        int64
	Currency      string
	Steps         int
	ModelVersion  string
}

// OutcomeInfo is the final session state.
type OutcomeInfo struct {
	State     string
	OutputURL string
	Error     string
	Duration  time.Duration
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the image information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithMask sets the mask information.
func (b *Builder) WithMask(strokes int, brushSize float64, polarity string) *Builder {
	b.summary.Mask = MaskInfo{
		Strokes:   strokes,
		BrushSize: brushSize,
		Polarity:  polarity,
	}
	return b
}

// WithPrompt sets the prompt.
func (b *Builder) WithPrompt(prompt string) *Builder {
	b.summary.Prompt = prompt
	return b
}

// WithSubmission sets the submission details.
func (b *Builder) WithSubmission(submission SubmissionInfo) *Builder {
	b.summary.Submission = submission
	return b
}

// WithOutcome sets the final state.
func (b *Builder) WithOutcome(outcome OutcomeInfo) *Builder {
	b.summary.Outcome = outcome
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
