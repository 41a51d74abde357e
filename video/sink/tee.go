package sink

import (
	"image"

	"ipusink/video/source"
)

// Tee hands each frame to several sinks in order.
type Tee []Sink

func (t Tee) Put(input source.Image) {
	for _, s := range t {
		s.Put(input)
	}
}

func (t Tee) SetSize(size image.Point) {
	for _, s := range t {
		if r, ok := s.(Resizer); ok {
			r.SetSize(size)
		}
	}
}

func (t Tee) Close() {
	for _, s := range t {
		s.Close()
	}
}
