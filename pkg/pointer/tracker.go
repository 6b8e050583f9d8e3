package pointer

import (
	"fmt"

	"github.com/user/maskpaint/pkg/ports"
)

// Surface is the mask layer a Tracker paints into.
type Surface interface {
	Size() (width, height int)
	FillCircle(x, y, r float64)
	StrokeSegment(x0, y0, x1, y1 float64)
	Snapshot() ([]byte, error)
}

// State is the stroke state of a Tracker.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Cursor is the brush ring overlay in on-screen coordinates.
type Cursor struct {
	Position ScreenPoint
	Visible  bool
	Diameter float64
}

// CommitFunc receives the PNG snapshot of the whole mask after each stroke.
type CommitFunc func(snapshot []byte)

// Tracker turns pointer events into brush strokes. It owns the live mask
// surface; everything else reads the snapshots handed to the commit func.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	surface   Surface
	brushSize float64
	onCommit  CommitFunc
	logger    ports.Logger

	state   State
	last    MaskPoint
	cursor  Cursor
	strokes int
}

// NewTracker creates a Tracker painting into surface with a round brush of
// the given diameter.
func NewTracker(surface Surface, brushSize float64, onCommit CommitFunc, logger ports.Logger) *Tracker {
	return &Tracker{
		surface:   surface,
		brushSize: brushSize,
		onCommit:  onCommit,
		logger:    logger,
		cursor:    Cursor{Diameter: brushSize},
	}
}

// State returns the current stroke state.
func (t *Tracker) State() State {
	return t.state
}

// Cursor returns the brush ring overlay.
func (t *Tracker) Cursor() Cursor {
	return t.cursor
}

// Strokes returns the number of strokes committed by pointer-up.
func (t *Tracker) Strokes() int {
	return t.strokes
}

// Down starts a stroke: a filled disc at the mapped point.
// A Down while already drawing restarts the stroke at p.
func (t *Tracker) Down(p PagePoint, box Box) {
	t.cursor.Position = Offset(p, box)

	mp, ok := t.mapPoint(p, box)
	if !ok {
		return
	}

	t.state = Drawing
	t.last = mp
	t.surface.FillCircle(mp.X, mp.Y, t.brushSize/2)
	t.logger.Debug("Stroke started at %.1f,%.1f", mp.X, mp.Y)
}

// Move updates the cursor and, while drawing, paints a segment from the last
// point to p.
func (t *Tracker) Move(p PagePoint, box Box) {
	t.cursor.Position = Offset(p, box)

	if t.state != Drawing {
		return
	}

	mp, ok := t.mapPoint(p, box)
	if !ok {
		return
	}

	t.surface.StrokeSegment(t.last.X, t.last.Y, mp.X, mp.Y)
	t.last = mp
}

// Up ends the stroke and commits a snapshot of the whole mask. An Up with no
// active stroke does nothing.
func (t *Tracker) Up() error {
	if t.state != Drawing {
		return nil
	}
	t.state = Idle
	t.last = MaskPoint{}

	snapshot, err := t.surface.Snapshot()
	if err != nil {
		return fmt.Errorf("commit stroke: %w", err)
	}
	t.strokes++
	t.logger.Debug("Stroke committed (%d bytes)", len(snapshot))
	if t.onCommit != nil {
		t.onCommit(snapshot)
	}
	return nil
}

// Leave ends any active stroke without painting to the exit point and without
// committing a snapshot, and hides the cursor.
func (t *Tracker) Leave() {
	if t.state == Drawing {
		t.logger.Debug("Stroke abandoned on pointer leave")
	}
	t.state = Idle
	t.last = MaskPoint{}
	t.cursor.Visible = false
}

// Cancel ends any active stroke without committing it. The cursor is left as is.
func (t *Tracker) Cancel() {
	if t.state == Drawing {
		t.logger.Debug("Stroke canceled")
	}
	t.state = Idle
	t.last = MaskPoint{}
}

// Enter shows the cursor.
func (t *Tracker) Enter() {
	t.cursor.Visible = true
}

// Reset returns to Idle and forgets the stroke count, for use after a mask clear.
func (t *Tracker) Reset() {
	t.state = Idle
	t.last = MaskPoint{}
	t.strokes = 0
}

func (t *Tracker) mapPoint(p PagePoint, box Box) (MaskPoint, bool) {
	w, h := t.surface.Size()
	mp, ok := MapToMask(p, box, w, h)
	if !ok {
		t.logger.Debug("Ignoring pointer event on zero-sized canvas box")
	}
	return mp, ok
}
