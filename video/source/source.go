package source

import (
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Image is a single captured frame.
type Image struct {
	Mat  gocv.Mat
	Time time.Time

	// Interlaced marks frames carrying two fields. Deinterlacing only applies
	// to these.
	Interlaced bool
}

func (i Image) Size() image.Point {
	return image.Point{X: i.Mat.Cols(), Y: i.Mat.Rows()}
}

// Source defines a stream of images, such as a camera.
type Source interface {
	// Get returns a channel of images. Each Mat is only valid until the caller
	// receives the next image (the caller should not store pointers).
	Get() <-chan Image

	// Size returns the size of the capture source.
	Size() image.Point

	// Close disconnects from the capture source and frees up all resources.
	Close()
}
