package blitter

import (
	"gocv.io/x/gocv"
)

// Configurer changes how subsequent frames are blitted. Changes take effect
// on the next call to Blit; frames already in flight keep the old settings.
//
// Holding a Configurer does not confer ownership: it has no Close, so a
// component that only configures a blitter can never tear it down.
type Configurer interface {
	SetOutputRotationMode(m RotationMode)
	SetDeinterlaceMode(m DeinterlaceMode)
}

// Blitter performs the per-frame transform. The owner must call Close once no
// further Blit can happen.
type Blitter interface {
	Configurer

	// Blit transforms src and returns the result. The returned Mat belongs to
	// the Blitter and is only valid until the next call to Blit or Close.
	Blit(src gocv.Mat, interlaced bool) (gocv.Mat, error)

	Close() error
}

// Factory creates a new Blitter. It is called on every sink start.
type Factory func() (Blitter, error)
