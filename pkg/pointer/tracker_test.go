package pointer

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/user/maskpaint/pkg/adapters/ggrenderer"
	"github.com/user/maskpaint/pkg/adapters/logger"
	"github.com/user/maskpaint/pkg/canvas"
	"github.com/user/maskpaint/pkg/geometry"
)

type op struct {
	kind           string
	x0, y0, x1, y1 float64
}

// recordingSurface records brush operations instead of rasterising them.
type recordingSurface struct {
	w, h        int
	ops         []op
	snapshots   int
	snapshotErr error
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) FillCircle(x, y, r float64) {
	s.ops = append(s.ops, op{kind: "circle", x0: x, y0: y, x1: r})
}

func (s *recordingSurface) StrokeSegment(x0, y0, x1, y1 float64) {
	s.ops = append(s.ops, op{kind: "segment", x0: x0, y0: y0, x1: x1, y1: y1})
}

func (s *recordingSurface) Snapshot() ([]byte, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	s.snapshots++
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func newRecording() (*recordingSurface, *Tracker, *[][]byte) {
	surface := &recordingSurface{w: 200, h: 100}
	var commits [][]byte
	tr := NewTracker(surface, 60, func(b []byte) { commits = append(commits, b) }, logger.NewNoop())
	return surface, tr, &commits
}

func TestTracker_StrokeLifecycle(t *testing.T) {
	surface, tr, commits := newRecording()
	// Displayed at half size.
	box := Box{Left: 100, Top: 50, Width: 100, Height: 50}

	tr.Down(PagePoint{X: 110, Y: 60}, box)
	if tr.State() != Drawing {
		t.Fatalf("state = %v, want drawing", tr.State())
	}
	tr.Move(PagePoint{X: 120, Y: 70}, box)
	tr.Move(PagePoint{X: 130, Y: 70}, box)
	if err := tr.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	want := []op{
		{kind: "circle", x0: 20, y0: 20, x1: 30},
		{kind: "segment", x0: 20, y0: 20, x1: 40, y1: 40},
		{kind: "segment", x0: 40, y0: 40, x1: 60, y1: 40},
	}
	if len(surface.ops) != len(want) {
		t.Fatalf("ops = %+v, want %+v", surface.ops, want)
	}
	for i := range want {
		if surface.ops[i] != want[i] {
			t.Errorf("op[%d] = %+v, want %+v", i, surface.ops[i], want[i])
		}
	}
	if tr.State() != Idle {
		t.Errorf("state after Up = %v, want idle", tr.State())
	}
	if len(*commits) != 1 || tr.Strokes() != 1 {
		t.Errorf("commits = %d, strokes = %d, want 1/1", len(*commits), tr.Strokes())
	}
}

func TestTracker_MoveWhileIdleOnlyMovesCursor(t *testing.T) {
	surface, tr, _ := newRecording()
	box := Box{Left: 100, Top: 50, Width: 100, Height: 50}

	tr.Move(PagePoint{X: 150, Y: 75}, box)

	if len(surface.ops) != 0 {
		t.Errorf("expected no paint while idle, got %+v", surface.ops)
	}
	// Cursor uses the untransformed offset, not mask coordinates.
	if c := tr.Cursor(); c.Position != (ScreenPoint{X: 50, Y: 25}) {
		t.Errorf("cursor = %+v, want {50 25}", c.Position)
	}
}

func TestTracker_LeaveEndsStrokeSilently(t *testing.T) {
	surface, tr, commits := newRecording()
	box := Box{Width: 200, Height: 100}

	tr.Enter()
	tr.Down(PagePoint{X: 10, Y: 10}, box)
	tr.Move(PagePoint{X: 20, Y: 10}, box)
	tr.Leave()
	// Events after leaving must not extend the old stroke.
	tr.Move(PagePoint{X: 199, Y: 99}, box)
	if err := tr.Up(); err != nil {
		t.Fatalf("Up after leave failed: %v", err)
	}

	if len(surface.ops) != 2 {
		t.Errorf("ops = %+v, want circle + one segment", surface.ops)
	}
	if len(*commits) != 0 || surface.snapshots != 0 {
		t.Errorf("expected no snapshot after leave, got %d commits", len(*commits))
	}
	if tr.Cursor().Visible {
		t.Error("expected cursor hidden after leave")
	}
}

func TestTracker_CancelKeepsCursor(t *testing.T) {
	surface, tr, commits := newRecording()
	box := Box{Width: 200, Height: 100}

	tr.Enter()
	tr.Down(PagePoint{X: 10, Y: 10}, box)
	tr.Cancel()
	tr.Move(PagePoint{X: 50, Y: 50}, box)
	if err := tr.Up(); err != nil {
		t.Fatalf("Up after cancel failed: %v", err)
	}

	if len(surface.ops) != 1 {
		t.Errorf("ops = %+v, want the initial circle only", surface.ops)
	}
	if len(*commits) != 0 || tr.Strokes() != 0 {
		t.Errorf("expected no commit after cancel, got %d", len(*commits))
	}
	if !tr.Cursor().Visible || tr.State() != Idle {
		t.Errorf("cursor visible = %v state = %v", tr.Cursor().Visible, tr.State())
	}
}

func TestTracker_UpWithoutDownDoesNotCommit(t *testing.T) {
	surface, tr, commits := newRecording()

	if err := tr.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if len(*commits) != 0 || surface.snapshots != 0 {
		t.Error("expected no commit without an active stroke")
	}
}

func TestTracker_DownWhileDrawingRestarts(t *testing.T) {
	surface, tr, _ := newRecording()
	box := Box{Width: 200, Height: 100}

	tr.Down(PagePoint{X: 10, Y: 10}, box)
	tr.Down(PagePoint{X: 100, Y: 50}, box)
	tr.Move(PagePoint{X: 110, Y: 50}, box)

	last := surface.ops[len(surface.ops)-1]
	if last.kind != "segment" || last.x0 != 100 || last.y0 != 50 {
		t.Errorf("segment should start at the restarted point, got %+v", last)
	}
}

func TestTracker_ZeroBoxIgnored(t *testing.T) {
	surface, tr, _ := newRecording()

	tr.Down(PagePoint{X: 10, Y: 10}, Box{})

	if len(surface.ops) != 0 || tr.State() != Idle {
		t.Errorf("expected event on zero box to be ignored, state %v ops %+v", tr.State(), surface.ops)
	}
}

func TestTracker_SnapshotError(t *testing.T) {
	surface, tr, commits := newRecording()
	surface.snapshotErr = errors.New("encode failed")

	tr.Down(PagePoint{X: 10, Y: 10}, Box{Width: 200, Height: 100})
	if err := tr.Up(); err == nil {
		t.Fatal("expected snapshot error")
	}
	if tr.State() != Idle || len(*commits) != 0 {
		t.Error("expected idle with no commit after failed snapshot")
	}
}

func TestTracker_SingleClickPaintsDiscOnly(t *testing.T) {
	src := geometry.Fit(300, 200, geometry.DefaultBounds)
	dual := canvas.New(ggrenderer.New(), solid(300, 200), src, canvas.DefaultMaskStyle())
	tr := NewTracker(dual, 60, nil, logger.NewNoop())

	// Canvas displayed at 150x100 offset by (40, 30): page (115, 80) -> mask (150, 100).
	box := Box{Left: 40, Top: 30, Width: 150, Height: 100}
	tr.Down(PagePoint{X: 115, Y: 80}, box)
	if err := tr.Up(); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	paint, bg := canvas.WhiteOnBlack.Colors()
	mask := dual.MaskImage()
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			d := math.Hypot(float64(x)+0.5-150, float64(y)+0.5-100)
			px := mask.RGBAAt(x, y)
			if d < 29 && px != paint {
				t.Fatalf("pixel (%d,%d) inside brush not painted", x, y)
			}
			if d > 31 && px != bg {
				t.Fatalf("pixel (%d,%d) outside brush changed", x, y)
			}
		}
	}
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}
