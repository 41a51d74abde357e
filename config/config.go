package config

import (
	"image"

	"ipusink/video/blitter"
)

type Config struct {
	// URI of the capture source: a file, stream URL or device index.
	URI        string
	FPS        int
	Interlaced bool

	// Initial sink properties. Changes are applied to the running sink when
	// the file is reloaded.
	OutputRotation  blitter.RotationMode
	DeinterlaceMode blitter.DeinterlaceMode

	// If non-zero, frames larger than this are rejected by the blitter.
	MaxFrameWidth  int
	MaxFrameHeight int

	// Window enables the on-screen display output.
	Window bool
	// PreviewFPS caps the MJPEG preview rate. Zero means uncapped.
	PreviewFPS int

	// PresetDSN is a MySQL DSN for the preset store. Presets are disabled
	// when empty.
	PresetDSN string
}

func (c *Config) MaxFrameSize() image.Point {
	return image.Point{X: c.MaxFrameWidth, Y: c.MaxFrameHeight}
}
