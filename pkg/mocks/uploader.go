package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/maskpaint/pkg/ports"
)

// AssetUploader is a mock implementation of ports.AssetUploader.
// Without UploadFunc it answers https://assets.test/<n>/<filename>.
type AssetUploader struct {
	mu     sync.RWMutex
	assets []ports.Asset

	UploadFunc func(ctx context.Context, asset ports.Asset) (string, error)
}

func (m *AssetUploader) Upload(ctx context.Context, asset ports.Asset) (string, error) {
	m.mu.Lock()
	m.assets = append(m.assets, asset)
	n := len(m.assets)
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, asset)
	}
	return fmt.Sprintf("https://assets.test/%d/%s", n, asset.Filename), nil
}

// Uploaded returns every asset passed to Upload, in call order.
func (m *AssetUploader) Uploaded() []ports.Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ports.Asset(nil), m.assets...)
}

var _ ports.AssetUploader = (*AssetUploader)(nil)
