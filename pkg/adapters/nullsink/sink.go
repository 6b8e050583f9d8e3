// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/maskpaint/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SaveMaskSnapshot(index int, data []byte) error { return nil }

func (s *Sink) SaveComposite(img image.Image) error { return nil }

func (s *Sink) SaveRequestJSON(data []byte) error { return nil }

func (s *Sink) SaveResponseJSON(data []byte) error { return nil }

var _ ports.DebugSink = (*Sink)(nil)
