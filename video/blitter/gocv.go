package blitter

import (
	"errors"
	"fmt"
	"image"
	"sync"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var (
	ErrInvalidOptions = errors.New("invalid blitter options")
	ErrEmptyFrame     = errors.New("empty frame")
	ErrFrameTooLarge  = errors.New("frame exceeds blitter limits")
	ErrClosed         = errors.New("blitter closed")
)

// Flip codes understood by gocv.Flip.
const (
	flipVertical   = 0
	flipHorizontal = 1
)

type GoCVOptions struct {
	// MaxSize bounds the input frame dimensions. Zero means unbounded.
	MaxSize image.Point
}

// GoCV is a Blitter running on the CPU through OpenCV. It implements every
// rotation and deinterlace mode and is used where no IPU is available.
type GoCV struct {
	opts GoCVOptions

	rotation    RotationMode
	deinterlace DeinterlaceMode

	// Scratch and output buffers, reused between frames.
	field, tmp, out gocv.Mat

	closed bool
	l      sync.Mutex
}

func NewGoCV(opts GoCVOptions) (*GoCV, error) {
	if opts.MaxSize.X < 0 || opts.MaxSize.Y < 0 {
		return nil, fmt.Errorf("%w: max size %v", ErrInvalidOptions, opts.MaxSize)
	}
	return &GoCV{
		opts:        opts,
		rotation:    DefaultRotation,
		deinterlace: DefaultDeinterlace,
		field:       gocv.NewMat(),
		tmp:         gocv.NewMat(),
		out:         gocv.NewMat(),
	}, nil
}

// GoCVFactory returns a Factory producing GoCV blitters with opts.
func GoCVFactory(opts GoCVOptions) Factory {
	return func() (Blitter, error) {
		return NewGoCV(opts)
	}
}

func (b *GoCV) SetOutputRotationMode(m RotationMode) {
	b.l.Lock()
	defer b.l.Unlock()
	b.rotation = m
	log.Debugf("Blitter output rotation set to %v", m)
}

func (b *GoCV) SetDeinterlaceMode(m DeinterlaceMode) {
	b.l.Lock()
	defer b.l.Unlock()
	b.deinterlace = m
	log.Debugf("Blitter deinterlace mode set to %v", m)
}

func (b *GoCV) Blit(src gocv.Mat, interlaced bool) (gocv.Mat, error) {
	b.l.Lock()
	defer b.l.Unlock()

	if b.closed {
		return gocv.Mat{}, ErrClosed
	}
	if src.Empty() {
		return gocv.Mat{}, ErrEmptyFrame
	}
	if limit := b.opts.MaxSize; (limit.X > 0 && src.Cols() > limit.X) || (limit.Y > 0 && src.Rows() > limit.Y) {
		return gocv.Mat{}, fmt.Errorf("%w: %dx%d > %v", ErrFrameTooLarge, src.Cols(), src.Rows(), limit)
	}

	in := src
	if interlaced && b.deinterlace != DeinterlaceNone {
		b.deinterlaceInto(src, &b.field)
		in = b.field
	}
	b.rotateInto(in, &b.out)
	return b.out, nil
}

func (b *GoCV) deinterlaceInto(src gocv.Mat, dst *gocv.Mat) {
	switch b.deinterlace {
	case DeinterlaceSlowMotion:
		// Blend each line with its neighbours from the opposite field.
		gocv.Blur(src, dst, image.Point{X: 1, Y: 3})
	case DeinterlaceFastMotion:
		// Line doubling: keep one field and stretch it back to full height.
		full := image.Point{X: src.Cols(), Y: src.Rows()}
		half := image.Point{X: src.Cols(), Y: (src.Rows() + 1) / 2}
		gocv.Resize(src, &b.tmp, half, 0, 0, gocv.InterpolationNearestNeighbor)
		gocv.Resize(b.tmp, dst, full, 0, 0, gocv.InterpolationNearestNeighbor)
	default:
		src.CopyTo(dst)
	}
}

func (b *GoCV) rotateInto(src gocv.Mat, dst *gocv.Mat) {
	switch b.rotation {
	case RotationHFlip:
		gocv.Flip(src, dst, flipHorizontal)
	case RotationVFlip:
		gocv.Flip(src, dst, flipVertical)
	case Rotation180:
		gocv.Rotate(src, dst, gocv.Rotate180Clockwise)
	case Rotation90CW:
		gocv.Rotate(src, dst, gocv.Rotate90Clockwise)
	case Rotation90CWHFlip:
		gocv.Rotate(src, &b.tmp, gocv.Rotate90Clockwise)
		gocv.Flip(b.tmp, dst, flipHorizontal)
	case Rotation90CWVFlip:
		gocv.Rotate(src, &b.tmp, gocv.Rotate90Clockwise)
		gocv.Flip(b.tmp, dst, flipVertical)
	case Rotation90CCW:
		gocv.Rotate(src, dst, gocv.Rotate90CounterClockwise)
	default:
		src.CopyTo(dst)
	}
}

func (b *GoCV) Close() error {
	b.l.Lock()
	defer b.l.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.field.Close()
	b.tmp.Close()
	b.out.Close()
	return nil
}
