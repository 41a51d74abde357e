package sink

import (
	"image"

	"ipusink/video/source"
)

// Sink defines a destination for a stream of images, such as a display or a
// preview stream.
type Sink interface {
	// Put inserts an image to the sink. The caller *must not* modify this image
	// and it should not hold any references to the underlying Mat.
	Put(input source.Image)

	// Close should be called to finalize the Sink.
	Close()
}

// Resizer is implemented by sinks that need to know the negotiated output
// geometry ahead of the first frame of that size.
type Resizer interface {
	SetSize(size image.Point)
}
