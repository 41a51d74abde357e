package sink

import (
	"errors"
	"fmt"
	"image"
	"sync"

	log "github.com/sirupsen/logrus"

	"ipusink/video/blitter"
	"ipusink/video/source"
)

var ErrStartFailed = errors.New("sink failed to start")

// element is the hardware specific half of a BlitterSink. Both hooks run with
// the sink lock held.
type element interface {
	start(s *BlitterSink) error
	stop(s *BlitterSink)
}

// BlitterSink renders frames through a Blitter into an output Sink. It owns the
// lock guarding all sink state, the registered blitter and the transpose flag,
// and drives the start/stop lifecycle of the element built on top of it.
//
// Rendering holds the same lock as Stop, so a blitter is only ever closed
// once no frame can be using it.
type BlitterSink struct {
	name   string
	elem   element
	output Sink
	log    *log.Entry

	running   bool
	blitter   blitter.Blitter
	transpose bool
	outSize   image.Point

	l sync.Mutex
}

func newBlitterSink(name string, output Sink, elem element) *BlitterSink {
	return &BlitterSink{
		name:   name,
		elem:   elem,
		output: output,
		log:    log.WithField("sink", name),
	}
}

// lock acquires the sink lock and returns the matching unlock, for use as
// `defer s.lock()()`.
func (s *BlitterSink) lock() func() {
	s.l.Lock()
	return s.l.Unlock
}

func (s *BlitterSink) Name() string {
	return s.name
}

// Start brings the sink up. On failure the sink stays stopped and nothing of
// the attempt is retained. Starting a running sink does nothing.
func (s *BlitterSink) Start() error {
	defer s.lock()()
	if s.running {
		return nil
	}
	if err := s.elem.start(s); err != nil {
		// Nothing of a failed start is kept, including a blitter the element
		// registered before failing.
		s.releaseBlitter()
		startFailures.WithLabelValues(s.name).Inc()
		s.log.Errorf("Could not start: %v", err)
		return fmt.Errorf("%w: %v", ErrStartFailed, err)
	}
	s.running = true
	s.outSize = image.Point{}
	s.log.Info("Started")
	return nil
}

// Stop shuts the sink down and releases the blitter. It always succeeds;
// stopping a stopped sink does nothing.
func (s *BlitterSink) Stop() error {
	defer s.lock()()
	if !s.running {
		return nil
	}
	s.elem.stop(s)
	s.releaseBlitter()
	s.running = false
	s.log.Info("Stopped")
	return nil
}

func (s *BlitterSink) Running() bool {
	defer s.lock()()
	return s.running
}

// Transposed reports whether output frames have width and height swapped.
func (s *BlitterSink) Transposed() bool {
	defer s.lock()()
	return s.transpose
}

// OutputSize returns the geometry of rendered frames for input frames of size
// in.
func (s *BlitterSink) OutputSize(in image.Point) image.Point {
	defer s.lock()()
	return s.outputSize(in)
}

func (s *BlitterSink) outputSize(in image.Point) image.Point {
	if s.transpose {
		return image.Point{X: in.Y, Y: in.X}
	}
	return in
}

// registerBlitter installs b as the rendering backend. The sink takes
// ownership and closes b on stop. Must be called with the lock held.
func (s *BlitterSink) registerBlitter(b blitter.Blitter) {
	if s.blitter != nil && s.blitter != b {
		s.releaseBlitter()
	}
	s.blitter = b
}

// transposeFrames sets the transpose flag. Must be called with the lock held.
func (s *BlitterSink) transposeFrames(t bool) {
	s.transpose = t
	v := 0.0
	if t {
		v = 1
	}
	transposed.WithLabelValues(s.name).Set(v)
	s.log.Debugf("Transpose frames: %v", t)
}

func (s *BlitterSink) releaseBlitter() {
	if s.blitter == nil {
		return
	}
	if err := s.blitter.Close(); err != nil {
		s.log.Errorf("Failed to close blitter: %v", err)
	}
	s.blitter = nil
}

// Put renders one frame. Frames arriving while the sink is stopped are
// dropped.
func (s *BlitterSink) Put(input source.Image) {
	defer s.lock()()
	if !s.running || s.blitter == nil {
		framesDropped.WithLabelValues(s.name).Inc()
		return
	}

	s.negotiate(input.Size())

	out, err := s.blitter.Blit(input.Mat, input.Interlaced)
	if err != nil {
		blitErrors.WithLabelValues(s.name).Inc()
		s.log.Errorf("Blit failed: %v", err)
		return
	}
	s.output.Put(source.Image{
		Mat:  out,
		Time: input.Time,
	})
	framesRendered.WithLabelValues(s.name).Inc()
}

func (s *BlitterSink) negotiate(in image.Point) {
	size := s.outputSize(in)
	if size == s.outSize {
		return
	}
	s.outSize = size
	s.log.Infof("Output geometry %dx%d (transposed: %v)", size.X, size.Y, s.transpose)
	if r, ok := s.output.(Resizer); ok {
		r.SetSize(size)
	}
}

// Close stops the sink and finalizes the output.
func (s *BlitterSink) Close() {
	s.Stop()
	s.output.Close()
}
