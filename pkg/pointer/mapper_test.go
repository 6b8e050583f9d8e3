package pointer

import (
	"testing"
)

func TestMapToMask_IdentityScale(t *testing.T) {
	box := Box{Left: 13, Top: 27.5, Width: 640, Height: 480}

	points := []PagePoint{{13, 27.5}, {100, 200}, {652.25, 507.5}, {0, 0}}
	for _, p := range points {
		got, ok := MapToMask(p, box, 640, 480)
		if !ok {
			t.Fatalf("MapToMask(%v) not ok", p)
		}
		want := MaskPoint{X: p.X - box.Left, Y: p.Y - box.Top}
		if got != want {
			t.Errorf("MapToMask(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestMapToMask_CSSScaled(t *testing.T) {
	// 1024x512 canvas displayed at 512x256.
	box := Box{Left: 10, Top: 20, Width: 512, Height: 256}

	got, ok := MapToMask(PagePoint{X: 266, Y: 148}, box, 1024, 512)
	if !ok {
		t.Fatal("expected ok")
	}
	if got.X != 512 || got.Y != 256 {
		t.Errorf("got %v, want {512 256}", got)
	}
}

func TestMapToMask_NonUniformScale(t *testing.T) {
	box := Box{Width: 100, Height: 400}

	got, _ := MapToMask(PagePoint{X: 50, Y: 100}, box, 300, 200)
	if got.X != 150 || got.Y != 50 {
		t.Errorf("got %v, want {150 50}", got)
	}
}

func TestMapToMask_ZeroBox(t *testing.T) {
	if _, ok := MapToMask(PagePoint{X: 5, Y: 5}, Box{Width: 0, Height: 10}, 100, 100); ok {
		t.Error("expected zero-width box to be rejected")
	}
	if _, ok := MapToMask(PagePoint{X: 5, Y: 5}, Box{Width: 10, Height: -1}, 100, 100); ok {
		t.Error("expected negative-height box to be rejected")
	}
}

func TestOffset_Untransformed(t *testing.T) {
	box := Box{Left: 10, Top: 20, Width: 512, Height: 256}
	got := Offset(PagePoint{X: 266, Y: 148}, box)
	if got.X != 256 || got.Y != 128 {
		t.Errorf("Offset = %v, want {256 128}", got)
	}
}
