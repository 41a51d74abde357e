package sink

import (
	"image"
	"time"

	"ipusink/video/source"
)

// RateLimit wraps another Sink and drops frames so that at most fps frames per
// second (by frame timestamp) reach it. Used to keep previews cheap while the
// display runs at full rate.
type RateLimit struct {
	sink Sink

	frameDur time.Duration
	next     time.Time
}

// NewRateLimit wraps sink. A non-positive fps disables limiting.
func NewRateLimit(sink Sink, fps int) *RateLimit {
	r := &RateLimit{sink: sink}
	if fps > 0 {
		r.frameDur = time.Second / time.Duration(fps)
	}
	return r
}

func (r *RateLimit) Put(input source.Image) {
	if !r.next.IsZero() && input.Time.Before(r.next) {
		// Too early, skip.
		return
	}
	r.next = input.Time.Add(r.frameDur)
	r.sink.Put(input)
}

func (r *RateLimit) SetSize(size image.Point) {
	if rs, ok := r.sink.(Resizer); ok {
		rs.SetSize(size)
	}
}

func (r *RateLimit) Close() {
	r.sink.Close()
}
