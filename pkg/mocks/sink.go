package mocks

import (
	"image"
	"sync"

	"github.com/user/maskpaint/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	MaskSnapshots map[int][]byte
	Composite     image.Image
	RequestJSON   []byte
	ResponseJSON  []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:       enabled,
		MaskSnapshots: make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveMaskSnapshot(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MaskSnapshots[index] = data
	return nil
}

func (m *DebugSink) SaveComposite(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Composite = img
	return nil
}

func (m *DebugSink) SaveRequestJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestJSON = data
	return nil
}

func (m *DebugSink) SaveResponseJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseJSON = data
	return nil
}

// SnapshotCount returns the number of mask snapshots saved.
func (m *DebugSink) SnapshotCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.MaskSnapshots)
}

var _ ports.DebugSink = (*DebugSink)(nil)
