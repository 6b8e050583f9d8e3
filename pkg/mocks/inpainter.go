package mocks

import (
	"context"
	"sync"

	"github.com/user/maskpaint/pkg/ports"
)

// Inpainter is a mock implementation of ports.Inpainter.
// Without InpaintFunc it returns a single fixed output URL.
type Inpainter struct {
	mu       sync.RWMutex
	requests []ports.InpaintRequest

	InpaintFunc func(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error)
}

// DefaultOutput is the URL returned when InpaintFunc is nil.
const DefaultOutput = "https://replicate.delivery/out-0.png"

func (m *Inpainter) Inpaint(ctx context.Context, req ports.InpaintRequest) (ports.InpaintResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InpaintFunc != nil {
		return m.InpaintFunc(ctx, req)
	}
	return ports.InpaintResult{Outputs: []string{DefaultOutput}}, nil
}

// Requests returns every request received, in call order.
func (m *Inpainter) Requests() []ports.InpaintRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ports.InpaintRequest(nil), m.requests...)
}

var _ ports.Inpainter = (*Inpainter)(nil)

// PredictionCache is an in-memory ports.PredictionCache.
type PredictionCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc func(ctx context.Context, key string, data []byte) error
}

// NewPredictionCache creates an empty cache.
func NewPredictionCache() *PredictionCache {
	return &PredictionCache{data: make(map[string][]byte)}
}

func (m *PredictionCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *PredictionCache) Set(ctx context.Context, key string, data []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

// Len returns the number of cached entries.
func (m *PredictionCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

var _ ports.PredictionCache = (*PredictionCache)(nil)
