package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/maskpaint/pkg/adapters/ggrenderer"
	"github.com/user/maskpaint/pkg/adapters/logger"
	"github.com/user/maskpaint/pkg/canvas"
	"github.com/user/maskpaint/pkg/mocks"
	"github.com/user/maskpaint/pkg/pointer"
	"github.com/user/maskpaint/pkg/ports"
	"github.com/user/maskpaint/pkg/session"
	"github.com/user/maskpaint/pkg/submission"
)

type fixture struct {
	uploader  *mocks.AssetUploader
	gateway   *mocks.PaymentGateway
	confirmer *mocks.PaymentConfirmer
	inpainter *mocks.Inpainter
	sink      *mocks.DebugSink
	ed        *Editor
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		uploader:  &mocks.AssetUploader{},
		gateway:   &mocks.PaymentGateway{},
		confirmer: &mocks.PaymentConfirmer{},
		inpainter: &mocks.Inpainter{},
		sink:      mocks.NewDebugSink(true),
	}
	log := logger.NewNoop()
	sub := submission.New(f.uploader, f.gateway, f.inpainter, f.sink, log, submission.DefaultConfig())
	f.ed = New(ggrenderer.New(), sub, f.confirmer, f.sink, log, opts)
	return f
}

func (f *fixture) collaboratorCalls() int {
	return len(f.uploader.Uploaded()) + len(f.gateway.Amounts()) + len(f.confirmer.Intents()) + len(f.inpainter.Requests())
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 40, 90, 160, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// box shows the canvas at its intrinsic size with the top-left at the page origin.
func box(ed *Editor) pointer.Box {
	w, h := ed.Dimensions().Pixels()
	return pointer.Box{Width: float64(w), Height: float64(h)}
}

func stroke(t *testing.T, ed *Editor, pts ...pointer.PagePoint) {
	t.Helper()
	b := box(ed)
	ed.PointerDown(pts[0], b)
	for _, p := range pts[1:] {
		ed.PointerMove(p, b)
	}
	if err := ed.PointerUp(); err != nil {
		t.Fatalf("PointerUp() error = %v", err)
	}
}

func load(t *testing.T, ed *Editor, w, h int) {
	t.Helper()
	if err := ed.LoadImage(pngBytes(t, w, h)); err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
}

func TestEditor_EndToEnd(t *testing.T) {
	f := newFixture(DefaultOptions())
	ctx := context.Background()
	ed := f.ed

	load(t, ed, 2000, 1000)
	if w, h := ed.Dimensions().Pixels(); w != 1024 || h != 512 {
		t.Fatalf("canvas = %dx%d, want 1024x512", w, h)
	}
	if ed.State() != session.Editing {
		t.Fatalf("state = %v, want editing", ed.State())
	}

	stroke(t, ed, pointer.PagePoint{X: 100, Y: 100}, pointer.PagePoint{X: 300, Y: 120})
	if ed.MaskPNG() == nil || ed.MaskBlank() {
		t.Fatal("stroke did not paint the mask")
	}

	if err := ed.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !ed.MaskBlank() {
		t.Fatal("mask not background after clear")
	}
	if ed.MaskPNG() != nil {
		t.Fatal("snapshot kept after clear")
	}

	stroke(t, ed, pointer.PagePoint{X: 500, Y: 250})
	ed.SetPrompt("a red balloon")

	if err := ed.Submit(ctx); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ed.State() != session.AwaitingPayment {
		t.Fatalf("state = %v, want awaiting-payment", ed.State())
	}
	if got := f.gateway.Amounts(); len(got) != 1 || got[0] != 500 {
		t.Fatalf("payment amounts = %v, want [500]", got)
	}
	if len(f.inpainter.Requests()) != 0 {
		t.Fatal("inference ran before payment")
	}
	if _, ok := ed.PaymentIntent(); !ok {
		t.Fatal("no pending payment intent")
	}

	if err := ed.ConfirmPayment(ctx); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}

	uploads := f.uploader.Uploaded()
	if len(uploads) != 2 {
		t.Fatalf("uploads = %d, want 2", len(uploads))
	}
	reqs := f.inpainter.Requests()
	if len(reqs) != 1 {
		t.Fatalf("inference calls = %d, want 1", len(reqs))
	}
	in := reqs[0].Input
	if in.Image != "https://assets.test/1/image.png" || in.Mask != "https://assets.test/2/mask.png" {
		t.Errorf("inference assets = %s, %s", in.Image, in.Mask)
	}
	if in.Prompt != "a red balloon" || in.NumInferenceSteps != 25 {
		t.Errorf("inference input = %+v", in)
	}
	if ed.State() != session.Result || ed.Result() != mocks.DefaultOutput {
		t.Errorf("state = %v result = %q", ed.State(), ed.Result())
	}
	if !ed.HasPaid() {
		t.Error("HasPaid() = false after confirmation")
	}
	if ed.Strokes() != 1 {
		t.Errorf("Strokes() = %d, want 1", ed.Strokes())
	}
	if ed.Assets().MaskURL != in.Mask {
		t.Errorf("Assets().MaskURL = %q", ed.Assets().MaskURL)
	}

	// The uploaded mask is the committed snapshot at canvas size.
	img, err := png.Decode(bytes.NewReader(uploads[1].Data))
	if err != nil {
		t.Fatalf("decode uploaded mask: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 512 {
		t.Errorf("uploaded mask = %v", b)
	}
}

func TestEditor_OversizedUploadRejected(t *testing.T) {
	f := newFixture(DefaultOptions())

	err := f.ed.LoadImage(make([]byte, 11*1024*1024))

	var ee *Error
	if !errors.As(err, &ee) || ee.Kind != KindInputValidation || !errors.Is(err, ErrTooLarge) {
		t.Fatalf("LoadImage() = %v, want input validation ErrTooLarge", err)
	}
	if f.ed.State() != session.NoImage {
		t.Errorf("state = %v, want no-image", f.ed.State())
	}
	if f.ed.Banner() != "Image size should be less than 10MB" {
		t.Errorf("banner = %q", f.ed.Banner())
	}
	if _, err := f.ed.MaskImage(); !errors.Is(err, ErrNoImage) {
		t.Errorf("canvas initialised after rejected upload: %v", err)
	}
}

func TestEditor_RejectedUploadKeepsSession(t *testing.T) {
	f := newFixture(DefaultOptions())
	load(t, f.ed, 200, 100)
	stroke(t, f.ed, pointer.PagePoint{X: 50, Y: 50})
	before := f.ed.MaskPNG()

	if err := f.ed.LoadImage(make([]byte, 11*1024*1024)); err == nil {
		t.Fatal("expected oversized upload to fail")
	}
	if err := f.ed.LoadImage([]byte("not an image")); err == nil {
		t.Fatal("expected undecodable upload to fail")
	}

	if f.ed.State() != session.Editing {
		t.Errorf("state = %v, want editing", f.ed.State())
	}
	if !bytes.Equal(f.ed.MaskPNG(), before) {
		t.Error("mask snapshot changed by rejected upload")
	}
	if w, _ := f.ed.Dimensions().Pixels(); w != 200 {
		t.Errorf("canvas width = %d, want 200", w)
	}
}

func TestEditor_DecodeError(t *testing.T) {
	f := newFixture(DefaultOptions())

	err := f.ed.LoadImage([]byte("GIF89a garbage"))

	var ee *Error
	if !errors.As(err, &ee) || ee.Kind != KindDecode {
		t.Fatalf("LoadImage() = %v, want decode error", err)
	}
	if f.ed.Banner() != "Error reading file" || f.ed.State() != session.NoImage {
		t.Errorf("banner = %q state = %v", f.ed.Banner(), f.ed.State())
	}
}

func TestEditor_NoSecondPaymentAfterReset(t *testing.T) {
	f := newFixture(DefaultOptions())
	ctx := context.Background()

	load(t, f.ed, 300, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 10, Y: 10})
	f.ed.SetPrompt("a red balloon")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := f.ed.ConfirmPayment(ctx); err != nil {
		t.Fatal(err)
	}

	load(t, f.ed, 640, 480)
	if f.ed.MaskPNG() != nil || f.ed.Result() != "" {
		t.Fatal("reset kept mask or result")
	}
	stroke(t, f.ed, pointer.PagePoint{X: 20, Y: 20})
	f.ed.SetPrompt("a blue kite")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	if n := len(f.gateway.Amounts()); n != 1 {
		t.Errorf("payment intents = %d, want 1", n)
	}
	if f.ed.State() != session.Result {
		t.Errorf("state = %v, want result", f.ed.State())
	}
	if reqs := f.inpainter.Requests(); reqs[len(reqs)-1].Input.Prompt != "a blue kite" {
		t.Errorf("last prompt = %q", reqs[len(reqs)-1].Input.Prompt)
	}
}

func TestEditor_PaymentConfirmedAfterReplaceIsKept(t *testing.T) {
	f := newFixture(DefaultOptions())
	ctx := context.Background()

	load(t, f.ed, 300, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 10, Y: 10})
	f.ed.SetPrompt("a red balloon")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	// The user picks another image while the card widget is still settling.
	f.confirmer.AwaitConfirmationFunc = func(ctx context.Context, intent ports.PaymentIntent) error {
		load(t, f.ed, 640, 480)
		return nil
	}
	if err := f.ed.ConfirmPayment(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("ConfirmPayment() = %v, want ErrSuperseded", err)
	}
	if !f.ed.HasPaid() {
		t.Fatal("HasPaid() = false after a confirmed payment")
	}
	if f.ed.State() != session.Editing || len(f.inpainter.Requests()) != 0 {
		t.Fatalf("state = %v inference calls = %d", f.ed.State(), len(f.inpainter.Requests()))
	}

	stroke(t, f.ed, pointer.PagePoint{X: 20, Y: 20})
	f.ed.SetPrompt("a blue kite")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}
	if got := f.gateway.Amounts(); len(got) != 1 {
		t.Errorf("payment amounts = %v, want one intent", got)
	}
	if f.ed.State() != session.Result {
		t.Errorf("state = %v, want result", f.ed.State())
	}
}

func TestEditor_DeclinedPaymentAfterReplaceNotKept(t *testing.T) {
	f := newFixture(DefaultOptions())
	ctx := context.Background()

	load(t, f.ed, 300, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 10, Y: 10})
	f.ed.SetPrompt("a red balloon")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	f.confirmer.AwaitConfirmationFunc = func(ctx context.Context, intent ports.PaymentIntent) error {
		load(t, f.ed, 640, 480)
		return errors.New("card declined")
	}
	if err := f.ed.ConfirmPayment(ctx); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("ConfirmPayment() = %v, want ErrSuperseded", err)
	}
	if f.ed.HasPaid() {
		t.Error("HasPaid() = true after a declined payment")
	}
	if f.ed.Banner() != "" {
		t.Errorf("banner = %q, want none for the replaced image", f.ed.Banner())
	}
}

func TestEditor_ValidationKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		draw   bool
		prompt string
	}{
		{"empty prompt", true, ""},
		{"no stroke", false, "a red balloon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(DefaultOptions())
			load(t, f.ed, 100, 100)
			if tt.draw {
				stroke(t, f.ed, pointer.PagePoint{X: 50, Y: 50})
			}
			f.ed.SetPrompt(tt.prompt)

			err := f.ed.Submit(context.Background())

			var ee *Error
			if !errors.As(err, &ee) || ee.Kind != KindInputValidation {
				t.Fatalf("Submit() = %v, want input validation error", err)
			}
			if f.ed.State() != session.Editing {
				t.Errorf("state = %v, want editing", f.ed.State())
			}
			if f.ed.Banner() != "Please provide an image, mask, and prompt." {
				t.Errorf("banner = %q", f.ed.Banner())
			}
			if n := f.collaboratorCalls(); n != 0 {
				t.Errorf("collaborator calls = %d, want 0", n)
			}
		})
	}
}

func TestEditor_SubmitWithoutImage(t *testing.T) {
	f := newFixture(DefaultOptions())
	f.ed.SetPrompt("a red balloon")

	var ee *Error
	if err := f.ed.Submit(context.Background()); !errors.As(err, &ee) || ee.Kind != KindInputValidation {
		t.Fatalf("Submit() = %v", err)
	}
	if f.collaboratorCalls() != 0 {
		t.Error("collaborators called without an image")
	}
}

func TestEditor_StaleInferenceDiscarded(t *testing.T) {
	opts := DefaultOptions()
	opts.PaymentRequired = false
	f := newFixture(opts)
	load(t, f.ed, 400, 300)
	stroke(t, f.ed, pointer.PagePoint{X: 40, Y: 40})
	f.ed.SetPrompt("a red balloon")

	replacement := pngBytes(t, 120, 80)
	f.inpainter.InpaintFunc = func(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
		// A new image arrives while the model is running.
		if err := f.ed.LoadImage(replacement); err != nil {
			t.Errorf("LoadImage() during inference: %v", err)
		}
		return ports.InpaintResult{Outputs: []string{"https://replicate.delivery/stale.png"}}, nil
	}

	if err := f.ed.Submit(context.Background()); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("Submit() = %v, want ErrSuperseded", err)
	}
	if f.ed.State() != session.Editing {
		t.Errorf("state = %v, want editing", f.ed.State())
	}
	if f.ed.Result() != "" || f.ed.Banner() != "" {
		t.Errorf("stale outcome leaked: result %q banner %q", f.ed.Result(), f.ed.Banner())
	}
	if w, h := f.ed.Dimensions().Pixels(); w != 120 || h != 80 {
		t.Errorf("canvas = %dx%d, want the replacement image", w, h)
	}
}

func TestEditor_StaleUploadDiscarded(t *testing.T) {
	f := newFixture(DefaultOptions())
	load(t, f.ed, 400, 300)
	stroke(t, f.ed, pointer.PagePoint{X: 40, Y: 40})
	f.ed.SetPrompt("a red balloon")

	replacement := pngBytes(t, 50, 50)
	f.uploader.UploadFunc = func(ctx context.Context, a ports.Asset) (string, error) {
		if a.Filename == submission.MaskFilename {
			f.ed.LoadImage(replacement)
		}
		return "https://assets.test/" + a.Filename, nil
	}

	if err := f.ed.Submit(context.Background()); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("Submit() = %v, want ErrSuperseded", err)
	}
	if len(f.gateway.Amounts()) != 0 {
		t.Error("payment requested for a replaced image")
	}
	if f.ed.State() != session.Editing {
		t.Errorf("state = %v", f.ed.State())
	}
}

func TestEditor_UploadFailure(t *testing.T) {
	f := newFixture(DefaultOptions())
	f.uploader.UploadFunc = func(ctx context.Context, a ports.Asset) (string, error) {
		return "", errors.New("Image exceeds the maximum size")
	}
	load(t, f.ed, 100, 100)
	stroke(t, f.ed, pointer.PagePoint{X: 50, Y: 50})
	f.ed.SetPrompt("a red balloon")

	err := f.ed.Submit(context.Background())

	var ee *Error
	if !errors.As(err, &ee) || ee.Kind != KindUpload {
		t.Fatalf("Submit() = %v, want upload error", err)
	}
	if f.ed.State() != session.Error {
		t.Errorf("state = %v, want error", f.ed.State())
	}
	if f.ed.Banner() != "Image exceeds the maximum size" {
		t.Errorf("banner = %q", f.ed.Banner())
	}
	if len(f.gateway.Amounts()) != 0 {
		t.Error("payment requested after failed upload")
	}

	f.ed.DismissError()
	if f.ed.State() != session.Editing || f.ed.Banner() != "" {
		t.Errorf("after dismiss: state = %v banner = %q", f.ed.State(), f.ed.Banner())
	}
}

func TestEditor_PaymentDeclinedThenRetry(t *testing.T) {
	f := newFixture(DefaultOptions())
	ctx := context.Background()
	declined := true
	f.confirmer.AwaitConfirmationFunc = func(ctx context.Context, intent ports.PaymentIntent) error {
		if declined {
			return errors.New("Your card was declined.")
		}
		return nil
	}

	load(t, f.ed, 100, 100)
	stroke(t, f.ed, pointer.PagePoint{X: 50, Y: 50})
	f.ed.SetPrompt("a red balloon")
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatal(err)
	}

	var ee *Error
	if err := f.ed.ConfirmPayment(ctx); !errors.As(err, &ee) || ee.Kind != KindPayment {
		t.Fatalf("ConfirmPayment() = %v, want payment error", err)
	}
	if f.ed.State() != session.Error || f.ed.HasPaid() {
		t.Fatalf("state = %v paid = %v", f.ed.State(), f.ed.HasPaid())
	}
	if f.ed.Banner() != "Your card was declined." {
		t.Errorf("banner = %q", f.ed.Banner())
	}
	if err := f.ed.ConfirmPayment(ctx); !errors.Is(err, ErrNotAwaitingPayment) {
		t.Errorf("ConfirmPayment() in error state = %v", err)
	}

	// Retry straight from the error state.
	declined = false
	if err := f.ed.Submit(ctx); err != nil {
		t.Fatalf("retry Submit() error = %v", err)
	}
	if err := f.ed.ConfirmPayment(ctx); err != nil {
		t.Fatalf("retry ConfirmPayment() error = %v", err)
	}
	if f.ed.State() != session.Result {
		t.Errorf("state = %v, want result", f.ed.State())
	}
	if n := len(f.gateway.Amounts()); n != 2 {
		t.Errorf("payment intents = %d, want 2", n)
	}
}

func TestEditor_InferenceFailures(t *testing.T) {
	tests := []struct {
		name   string
		res    ports.InpaintResult
		err    error
		banner string
	}{
		{"no output", ports.InpaintResult{}, nil, "No output received from the server"},
		{"upstream", ports.InpaintResult{}, errors.New("Replicate API error: 422 Unprocessable Entity"), "Replicate API error: 422 Unprocessable Entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.PaymentRequired = false
			f := newFixture(opts)
			f.inpainter.InpaintFunc = func(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
				return tt.res, tt.err
			}
			load(t, f.ed, 100, 100)
			stroke(t, f.ed, pointer.PagePoint{X: 50, Y: 50})
			f.ed.SetPrompt("a red balloon")

			var ee *Error
			if err := f.ed.Submit(context.Background()); !errors.As(err, &ee) || ee.Kind != KindInference {
				t.Fatalf("Submit() = %v, want inference error", err)
			}
			if f.ed.State() != session.Error || f.ed.Banner() != tt.banner {
				t.Errorf("state = %v banner = %q", f.ed.State(), f.ed.Banner())
			}
		})
	}
}

func TestEditor_DrawingBlockedWhileAwaitingPayment(t *testing.T) {
	f := newFixture(DefaultOptions())
	load(t, f.ed, 200, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 30, Y: 30})
	f.ed.SetPrompt("a red balloon")
	if err := f.ed.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := f.ed.MaskPNG()

	stroke(t, f.ed, pointer.PagePoint{X: 150, Y: 150})

	if !bytes.Equal(f.ed.MaskPNG(), before) {
		t.Error("mask changed while awaiting payment")
	}
	if err := f.ed.Clear(); !errors.Is(err, session.ErrInvalidTransition) {
		t.Errorf("Clear() while awaiting payment = %v", err)
	}
}

func TestEditor_StrokeInFlightEndsOnSubmit(t *testing.T) {
	opts := DefaultOptions()
	opts.PaymentRequired = false
	f := newFixture(opts)
	load(t, f.ed, 200, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 30, Y: 30})
	f.ed.SetPrompt("a red balloon")
	before := f.ed.MaskPNG()

	b := box(f.ed)
	f.ed.PointerDown(pointer.PagePoint{X: 100, Y: 100}, b)
	f.inpainter.InpaintFunc = func(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
		f.ed.PointerMove(pointer.PagePoint{X: 150, Y: 150}, b)
		if err := f.ed.PointerUp(); err != nil {
			t.Errorf("PointerUp() during inference: %v", err)
		}
		return ports.InpaintResult{Outputs: []string{"https://replicate.delivery/out.png"}}, nil
	}

	if err := f.ed.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !bytes.Equal(f.ed.MaskPNG(), before) {
		t.Error("stroke started before submit replaced the mask snapshot")
	}
	if f.ed.Strokes() != 1 {
		t.Errorf("Strokes() = %d, want 1", f.ed.Strokes())
	}
	if f.ed.State() != session.Result {
		t.Errorf("state = %v, want result", f.ed.State())
	}
}

func TestEditor_LeaveMidStrokeDoesNotCommit(t *testing.T) {
	f := newFixture(DefaultOptions())
	load(t, f.ed, 200, 200)
	b := box(f.ed)

	f.ed.PointerEnter()
	f.ed.PointerDown(pointer.PagePoint{X: 50, Y: 50}, b)
	f.ed.PointerMove(pointer.PagePoint{X: 80, Y: 50}, b)
	f.ed.PointerLeave()
	if err := f.ed.PointerUp(); err != nil {
		t.Fatal(err)
	}

	if f.ed.MaskPNG() != nil {
		t.Error("leave committed a snapshot")
	}
	if f.ed.Cursor().Visible {
		t.Error("cursor visible after leave")
	}
	if f.sink.SnapshotCount() != 0 {
		t.Errorf("debug snapshots = %d", f.sink.SnapshotCount())
	}
	if f.ed.Banner() != "" {
		t.Errorf("banner = %q", f.ed.Banner())
	}
}

func TestEditor_SnapshotsReachDebugSink(t *testing.T) {
	f := newFixture(DefaultOptions())
	load(t, f.ed, 200, 200)

	stroke(t, f.ed, pointer.PagePoint{X: 10, Y: 10})
	stroke(t, f.ed, pointer.PagePoint{X: 100, Y: 100}, pointer.PagePoint{X: 150, Y: 120})

	if f.sink.SnapshotCount() != 2 {
		t.Fatalf("debug snapshots = %d, want 2", f.sink.SnapshotCount())
	}
	if !bytes.Equal(f.sink.MaskSnapshots[2], f.ed.MaskPNG()) {
		t.Error("last debug snapshot differs from the committed one")
	}
}

func TestEditor_BlackOnWhite(t *testing.T) {
	opts := DefaultOptions()
	opts.Style.Polarity = canvas.BlackOnWhite
	f := newFixture(opts)
	load(t, f.ed, 200, 200)
	stroke(t, f.ed, pointer.PagePoint{X: 100, Y: 100})

	mask, err := f.ed.MaskImage()
	if err != nil {
		t.Fatal(err)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	if got := mask.RGBAAt(0, 0); got != white {
		t.Errorf("background = %v, want white", got)
	}
	if got := mask.RGBAAt(100, 100); got != black {
		t.Errorf("painted = %v, want black", got)
	}
}

func TestEditor_PromptOptions(t *testing.T) {
	f := newFixture(DefaultOptions())
	cfg := submission.DefaultConfig()
	cfg.PromptOptions = []string{"a red balloon", "a paper lantern"}
	sub := submission.New(f.uploader, f.gateway, f.inpainter, f.sink, logger.NewNoop(), cfg)
	ed := New(ggrenderer.New(), sub, f.confirmer, f.sink, logger.NewNoop(), DefaultOptions())

	load(t, ed, 100, 100)
	stroke(t, ed, pointer.PagePoint{X: 50, Y: 50})
	ed.SetPrompt("a dragon")

	if err := ed.Submit(context.Background()); !errors.Is(err, submission.ErrPromptNotAllowed) {
		t.Fatalf("Submit() = %v, want ErrPromptNotAllowed", err)
	}
	if ed.Banner() != "Please choose one of the suggested prompts." {
		t.Errorf("banner = %q", ed.Banner())
	}
	if got := ed.PromptOptions(); len(got) != 2 {
		t.Errorf("PromptOptions() = %v", got)
	}
}
