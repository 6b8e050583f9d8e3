// Package ports defines interfaces for external collaborators of the editor and proxy.
package ports

import (
	"context"
)

// Asset is a single binary file handed to an AssetUploader.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AssetUploader stores binary assets and returns a publicly fetchable URL.
type AssetUploader interface {
	// Upload stores one asset per call.
	Upload(ctx context.Context, asset Asset) (string, error)
}
