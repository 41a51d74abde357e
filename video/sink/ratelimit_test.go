package sink

import (
	"image"
	"testing"
	"time"

	"ipusink/video/source"
)

func TestRateLimitDropsEarlyFrames(t *testing.T) {
	out := &fakeOutput{}
	r := NewRateLimit(out, 10)

	start := time.Unix(1000, 0)
	for i := 0; i < 30; i++ {
		// 30 frames over one second.
		r.Put(source.Image{Time: start.Add(time.Duration(i) * time.Second / 30)})
	}
	if out.puts != 10 {
		t.Errorf("forwarded %d frames, want 10", out.puts)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	out := &fakeOutput{}
	r := NewRateLimit(out, 0)
	now := time.Now()
	for i := 0; i < 5; i++ {
		r.Put(source.Image{Time: now})
	}
	if out.puts != 5 {
		t.Errorf("forwarded %d frames, want 5", out.puts)
	}
}

func TestTeeFansOut(t *testing.T) {
	a, b := &fakeOutput{}, &fakeOutput{}
	tee := Tee{a, NewRateLimit(b, 0)}

	tee.SetSize(image.Point{X: 2, Y: 3})
	tee.Put(source.Image{Time: time.Now()})
	tee.Close()

	for _, o := range []*fakeOutput{a, b} {
		if o.puts != 1 || !o.closed {
			t.Errorf("output puts=%d closed=%v", o.puts, o.closed)
		}
		if len(o.sizes) != 1 || o.sizes[0] != (image.Point{X: 2, Y: 3}) {
			t.Errorf("sizes = %v", o.sizes)
		}
	}
}
