// Package filesink writes editor debug output under a directory.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/maskpaint/pkg/ports"
)

// Sink saves debug output to files.
//
// Layout:
//
//	<dir>/snapshots/mask-0001.png
//	<dir>/composite.png
//	<dir>/request.json
//	<dir>/response.json
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveMaskSnapshot saves the mask PNG committed at the end of stroke index.
func (s *Sink) SaveMaskSnapshot(index int, data []byte) error {
	dir := filepath.Join(s.baseDir, "snapshots")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("mask-%04d.png", index)), data)
}

// SaveComposite saves the image with the mask overlay.
func (s *Sink) SaveComposite(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode composite: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "composite.png"), data)
}

// SaveRequestJSON saves the inference request body.
func (s *Sink) SaveRequestJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "request.json"), data)
}

// SaveResponseJSON saves the raw inference response.
func (s *Sink) SaveResponseJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "response.json"), data)
}

var _ ports.DebugSink = (*Sink)(nil)
