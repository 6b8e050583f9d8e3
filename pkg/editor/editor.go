// Package editor is the headless inpainting session: it owns the loaded
// image, the paired canvases, the stroke tracker and the session state, and
// sequences a submission through upload, payment and inference.
//
// All mutations are serialised behind a single mutex. Network calls and image
// decoding run with the mutex released; when they return, the outcome is
// dropped with ErrSuperseded if a new image was loaded in the meantime.
package editor

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/user/maskpaint/pkg/canvas"
	"github.com/user/maskpaint/pkg/geometry"
	"github.com/user/maskpaint/pkg/pointer"
	"github.com/user/maskpaint/pkg/ports"
	"github.com/user/maskpaint/pkg/session"
	"github.com/user/maskpaint/pkg/submission"
)

// MaxUploadBytes is the default upload limit, 10 MiB.
const MaxUploadBytes = 10 * 1024 * 1024

// Options configures an Editor.
type Options struct {
	Style           canvas.MaskStyle
	Bounds          geometry.Bounds
	MaxUploadBytes  int64
	PaymentRequired bool
}

// DefaultOptions returns the production editor settings.
func DefaultOptions() Options {
	return Options{
		Style:           canvas.DefaultMaskStyle(),
		Bounds:          geometry.DefaultBounds,
		MaxUploadBytes:  MaxUploadBytes,
		PaymentRequired: true,
	}
}

// SourceImage is a decoded upload.
type SourceImage struct {
	Image  image.Image
	Width  int
	Height int
	Size   int64
	Format string // as reported by image.DecodeConfig, e.g. "png"
}

// Editor is one user's editing session.
type Editor struct {
	renderer  ports.Renderer
	submitter *submission.Submitter
	confirmer ports.PaymentConfirmer
	sink      ports.DebugSink
	logger    ports.Logger
	opts      Options

	mu        sync.Mutex
	machine   *session.Machine
	source    *SourceImage
	dims      geometry.Dimensions
	layers    *canvas.Dual
	tracker   *pointer.Tracker
	snapshot  []byte
	prompt    string
	assets    submission.Assets
	submitted string // prompt captured at submit time
	intent    *ports.PaymentIntent
	result    string
	banner    *Error
}

// New creates an Editor with no image loaded.
func New(
	renderer ports.Renderer,
	submitter *submission.Submitter,
	confirmer ports.PaymentConfirmer,
	sink ports.DebugSink,
	logger ports.Logger,
	opts Options,
) *Editor {
	return &Editor{
		renderer:  renderer,
		submitter: submitter,
		confirmer: confirmer,
		sink:      sink,
		logger:    logger,
		opts:      opts,
		machine:   session.New(opts.PaymentRequired),
	}
}

// LoadImage decodes data and starts a new session on it. Everything from the
// previous image is dropped except the paid flag. Oversized or unreadable
// files leave the current session as it was and set the banner.
func (e *Editor) LoadImage(data []byte) error {
	if int64(len(data)) > e.opts.MaxUploadBytes {
		e.logger.Warn("Rejected image of %d bytes (limit %d)", len(data), e.opts.MaxUploadBytes)
		return e.fail(&Error{Kind: KindInputValidation, Message: msgTooLarge, Err: ErrTooLarge})
	}

	src, err := e.decode(data)
	if err != nil {
		e.logger.Error("Failed to decode image: %s", err)
		return e.fail(&Error{Kind: KindDecode, Message: msgDecode, Err: err})
	}

	dims := geometry.Fit(src.Width, src.Height, e.opts.Bounds)
	layers := canvas.New(e.renderer, src.Image, dims, e.opts.Style)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.machine.Reset()
	e.source = src
	e.dims = dims
	e.layers = layers
	e.tracker = pointer.NewTracker(layers, e.opts.Style.BrushSize, e.commit, e.logger.WithComponent("pointer"))
	e.snapshot = nil
	e.prompt = ""
	e.assets = submission.Assets{}
	e.submitted = ""
	e.intent = nil
	e.result = ""
	e.banner = nil

	w, h := dims.Pixels()
	e.logger.Info("Loaded %s image %dx%d, canvas %dx%d", src.Format, src.Width, src.Height, w, h)
	return e.machine.ImageLoaded()
}

func (e *Editor) decode(data []byte) (*SourceImage, error) {
	img, format, err := e.renderer.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &SourceImage{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Size:   int64(len(data)),
		Format: format,
	}, nil
}

// commit runs under e.mu, called from the tracker on pointer-up.
func (e *Editor) commit(snapshot []byte) {
	e.snapshot = snapshot
	if e.sink.Enabled() {
		e.sink.SaveMaskSnapshot(e.tracker.Strokes(), snapshot)
	}
}

// PointerDown starts a stroke. It is ignored without an image or while a
// submission is in flight.
func (e *Editor) PointerDown(p pointer.PagePoint, box pointer.Box) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil || !e.machine.CanDraw() {
		return
	}
	e.tracker.Down(p, box)
}

// PointerMove extends the active stroke or moves the cursor ring.
func (e *Editor) PointerMove(p pointer.PagePoint, box pointer.Box) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return
	}
	e.tracker.Move(p, box)
}

// PointerUp ends the stroke and records the mask snapshot.
func (e *Editor) PointerUp() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return nil
	}
	return e.tracker.Up()
}

// PointerLeave abandons any active stroke and hides the cursor ring.
func (e *Editor) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker != nil {
		e.tracker.Leave()
	}
}

// PointerEnter shows the cursor ring.
func (e *Editor) PointerEnter() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker != nil {
		e.tracker.Enter()
	}
}

// Clear resets the mask to background and forgets the snapshot.
func (e *Editor) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layers == nil {
		return ErrNoImage
	}
	if err := e.machine.MaskCleared(); err != nil {
		return err
	}
	e.layers.Clear()
	e.tracker.Reset()
	e.snapshot = nil
	e.logger.Debug("Mask cleared")
	return nil
}

// SetPrompt sets the text prompt for the next submission.
func (e *Editor) SetPrompt(prompt string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompt = prompt
}

// Submit validates the inputs, uploads both layers and either stops in
// AwaitingPayment or, when payment is not needed, runs inference to
// completion. Validation failures set the banner without changing state.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.layers == nil {
		e.mu.Unlock()
		return e.fail(classify(submission.ErrMissingInput))
	}
	imagePNG, err := e.layers.ImageSnapshot()
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("encode image layer: %w", err)
	}
	in := submission.Input{Image: imagePNG, Mask: e.snapshot, Prompt: e.prompt}
	if err := e.submitter.Validate(in); err != nil {
		banner := classify(err)
		e.banner = banner
		e.mu.Unlock()
		e.logger.Warn("Submission rejected: %s", err)
		return banner
	}
	if err := e.machine.BeginSubmit(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.tracker.Cancel()
	epoch := e.machine.Epoch()
	e.banner = nil
	e.result = ""
	if e.sink.Enabled() {
		e.sink.SaveComposite(e.layers.Composite())
	}
	e.mu.Unlock()

	e.logger.Info("Submitting prompt %q", in.Prompt)
	assets, err := e.submitter.Upload(ctx, in)

	e.mu.Lock()
	if e.machine.Epoch() != epoch {
		e.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		defer e.mu.Unlock()
		return e.failLocked(err)
	}
	e.assets = assets
	e.submitted = in.Prompt

	if !e.machine.NeedsPayment() {
		err := e.machine.StartProcessing()
		e.mu.Unlock()
		if err != nil {
			return err
		}
		return e.runInference(ctx, epoch)
	}
	e.mu.Unlock()

	intent, err := e.submitter.RequestPayment(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.Epoch() != epoch {
		return ErrSuperseded
	}
	if err != nil {
		return e.failLocked(err)
	}
	e.intent = &intent
	e.logger.Info("Awaiting payment for intent %s", intent.ID)
	return e.machine.AwaitPayment()
}

// ConfirmPayment waits for the payment widget to settle the pending intent,
// then runs inference with the assets uploaded at submit time.
func (e *Editor) ConfirmPayment(ctx context.Context) error {
	e.mu.Lock()
	if e.machine.State() != session.AwaitingPayment || e.intent == nil {
		e.mu.Unlock()
		return ErrNotAwaitingPayment
	}
	intent := *e.intent
	epoch := e.machine.Epoch()
	e.mu.Unlock()

	err := e.confirmer.AwaitConfirmation(ctx, intent)

	e.mu.Lock()
	if e.machine.Epoch() != epoch {
		if err == nil {
			e.machine.MarkPaid()
			e.logger.Info("Payment %s confirmed", intent.ID)
		}
		e.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		defer e.mu.Unlock()
		e.logger.Error("Payment %s failed: %s", intent.ID, err)
		return e.failLocked(fmt.Errorf("%w: %w", submission.ErrPayment, err))
	}
	if err := e.machine.PaymentConfirmed(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.intent = nil
	e.logger.Info("Payment %s confirmed", intent.ID)
	err = e.machine.StartProcessing()
	e.mu.Unlock()
	if err != nil {
		return err
	}
	return e.runInference(ctx, epoch)
}

// runInference is entered unlocked in Processing.
func (e *Editor) runInference(ctx context.Context, epoch uint64) error {
	e.mu.Lock()
	p := e.submitter.Payload(e.assets, e.submitted)
	e.mu.Unlock()

	url, err := e.submitter.Inpaint(ctx, p)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.Epoch() != epoch {
		e.logger.Warn("Discarding inference result for a replaced image")
		return ErrSuperseded
	}
	if err != nil {
		return e.failLocked(err)
	}
	e.result = url
	return e.machine.Succeeded()
}

// fail sets the banner without touching the session state.
func (e *Editor) fail(err *Error) error {
	e.mu.Lock()
	e.banner = err
	e.mu.Unlock()
	return err
}

// failLocked moves the session to Error and sets the banner.
func (e *Editor) failLocked(cause error) error {
	banner := classify(cause)
	e.banner = banner
	e.intent = nil
	if err := e.machine.Fail(); err != nil {
		e.logger.Warn("Unexpected failure in state %s: %s", e.machine.State(), err)
	}
	return banner
}

// DismissError clears the banner and leaves the Error state.
func (e *Editor) DismissError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.banner = nil
	if e.machine.State() == session.Error {
		e.machine.Dismiss()
	}
}

// Banner returns the error text to show, or "".
func (e *Editor) Banner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.banner == nil {
		return ""
	}
	return e.banner.Message
}

// State returns the session state.
func (e *Editor) State() session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// HasPaid reports whether a payment was confirmed in this process.
func (e *Editor) HasPaid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.HasPaid()
}

// Source returns the loaded image, or nil.
func (e *Editor) Source() *SourceImage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// Dimensions returns the canvas size of the loaded image.
func (e *Editor) Dimensions() geometry.Dimensions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// Cursor returns the brush ring overlay.
func (e *Editor) Cursor() pointer.Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return pointer.Cursor{}
	}
	return e.tracker.Cursor()
}

// PaymentIntent returns the pending intent while awaiting payment.
func (e *Editor) PaymentIntent() (ports.PaymentIntent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.intent == nil {
		return ports.PaymentIntent{}, false
	}
	return *e.intent, true
}

// Result returns the URL of the generated image, or "".
func (e *Editor) Result() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// MaskPNG returns the last committed mask snapshot, or nil when there is none.
func (e *Editor) MaskPNG() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// MaskImage returns a copy of the live mask layer.
func (e *Editor) MaskImage() (*image.RGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layers == nil {
		return nil, ErrNoImage
	}
	return e.layers.MaskImage(), nil
}

// Composite returns the image layer with the mask overlaid.
func (e *Editor) Composite() (image.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layers == nil {
		return nil, ErrNoImage
	}
	return e.layers.Composite(), nil
}

// MaskBlank reports whether the live mask is entirely background.
func (e *Editor) MaskBlank() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layers == nil || e.layers.IsBlank()
}

// PromptOptions returns the allowed prompts, or nil for free text.
func (e *Editor) PromptOptions() []string {
	return e.submitter.Config().PromptOptions
}

// Strokes returns the number of strokes committed on the current image.
func (e *Editor) Strokes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return 0
	}
	return e.tracker.Strokes()
}

// Assets returns the URLs uploaded by the last submit.
func (e *Editor) Assets() submission.Assets {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assets
}
