package sink

import (
	"image"

	"gocv.io/x/gocv"

	"ipusink/video/source"
)

// Window displays rendered frames in a HighGUI window.
type Window struct {
	window *gocv.Window
	size   image.Point
}

func NewWindow(name string) *Window {
	return &Window{
		window: gocv.NewWindow(name),
	}
}

// SetSize implements Resizer. The window follows the negotiated geometry, so
// a change to a 90 degree rotation swaps its dimensions.
func (w *Window) SetSize(size image.Point) {
	if size == w.size {
		return
	}
	w.size = size
	w.window.ResizeWindow(size.X, size.Y)
}

func (w *Window) Put(input source.Image) {
	if w.size == (image.Point{}) {
		w.SetSize(input.Size())
	}
	w.window.IMShow(input.Mat)
	w.window.WaitKey(1)
}

func (w *Window) Close() {
	w.window.Close()
}
