package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate editor results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveMaskSnapshot saves the PNG snapshot taken at the end of a stroke.
	SaveMaskSnapshot(index int, data []byte) error

	// SaveComposite saves the image+mask preview.
	SaveComposite(img image.Image) error

	// SaveRequestJSON saves the inference request body.
	SaveRequestJSON(data []byte) error

	// SaveResponseJSON saves the raw inference response.
	SaveResponseJSON(data []byte) error
}
