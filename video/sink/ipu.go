package sink

import (
	"errors"
	"fmt"
	"sync"

	"ipusink/video/blitter"
)

// Property names accepted by SetProperty and Property.
const (
	PropOutputRotation  = "output-rotation"
	PropDeinterlaceMode = "deinterlace-mode"
)

var (
	ErrInvalidProperty = errors.New("invalid property")
	ErrNoBlitter       = errors.New("blitter factory returned no blitter")
)

// Properties are the user configurable settings of an IPUSink.
type Properties struct {
	OutputRotation  blitter.RotationMode    `json:"output-rotation"`
	DeinterlaceMode blitter.DeinterlaceMode `json:"deinterlace-mode"`
}

func DefaultProperties() Properties {
	return Properties{
		OutputRotation:  blitter.DefaultRotation,
		DeinterlaceMode: blitter.DefaultDeinterlace,
	}
}

func (p Properties) Validate() error {
	if !p.OutputRotation.Valid() {
		return fmt.Errorf("%w: %d", blitter.ErrUnknownRotation, int(p.OutputRotation))
	}
	if !p.DeinterlaceMode.Valid() {
		return fmt.Errorf("%w: %d", blitter.ErrUnknownDeinterlace, int(p.DeinterlaceMode))
	}
	return nil
}

// PropertyListener is notified with the current properties after each write,
// in write order. Listeners must not write properties of the notifying sink.
type PropertyListener interface {
	PropertiesChanged(sink string, p Properties)
}

// IPUSink is a video sink that renders through an IPU style blitter with
// configurable output rotation and deinterlacing. Property changes are pushed
// to the active blitter immediately, so the blitter always runs with the
// current properties.
type IPUSink struct {
	*BlitterSink

	// Listeners must be set before the sink is shared.
	Listeners []PropertyListener

	newBlitter blitter.Factory
	props      Properties

	// active is the blitter registered with the BlitterSink, nil when stopped.
	// The BlitterSink owns it; this view can only configure it.
	active blitter.Configurer

	// notifyL is held by a property write from before the change until its
	// listeners have returned, so listeners see writes in the order they
	// were applied. Taken before the sink lock, never after it.
	notifyL sync.Mutex
}

func NewIPUSink(name string, output Sink, factory blitter.Factory) *IPUSink {
	s := &IPUSink{
		newBlitter: factory,
		props:      DefaultProperties(),
	}
	s.BlitterSink = newBlitterSink(name, output, s)
	return s
}

// SetOutputRotation sets the output rotation. Values outside the RotationMode
// set are logged and ignored.
func (s *IPUSink) SetOutputRotation(m blitter.RotationMode) {
	if !m.Valid() {
		s.log.Warnf("Ignoring invalid output rotation %v", m)
		return
	}
	s.notifyL.Lock()
	defer s.notifyL.Unlock()
	s.notify(s.setOutputRotation(m))
}

func (s *IPUSink) setOutputRotation(m blitter.RotationMode) Properties {
	defer s.lock()()
	s.props.OutputRotation = m
	if s.active != nil {
		s.active.SetOutputRotationMode(m)
		s.updateTranspose()
	}
	propertyWrites.WithLabelValues(s.name, PropOutputRotation).Inc()
	return s.props
}

// SetDeinterlaceMode sets the deinterlace mode. Values outside the
// DeinterlaceMode set are logged and ignored.
func (s *IPUSink) SetDeinterlaceMode(m blitter.DeinterlaceMode) {
	if !m.Valid() {
		s.log.Warnf("Ignoring invalid deinterlace mode %v", m)
		return
	}
	s.notifyL.Lock()
	defer s.notifyL.Unlock()
	s.notify(s.setDeinterlaceMode(m))
}

func (s *IPUSink) setDeinterlaceMode(m blitter.DeinterlaceMode) Properties {
	defer s.lock()()
	s.props.DeinterlaceMode = m
	if s.active != nil {
		s.active.SetDeinterlaceMode(m)
	}
	propertyWrites.WithLabelValues(s.name, PropDeinterlaceMode).Inc()
	return s.props
}

func (s *IPUSink) OutputRotation() blitter.RotationMode {
	defer s.lock()()
	return s.props.OutputRotation
}

func (s *IPUSink) DeinterlaceMode() blitter.DeinterlaceMode {
	defer s.lock()()
	return s.props.DeinterlaceMode
}

// Properties returns a consistent snapshot of all properties.
func (s *IPUSink) Properties() Properties {
	defer s.lock()()
	return s.props
}

// ApplyProperties sets all properties in a single critical section.
func (s *IPUSink) ApplyProperties(p Properties) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.notifyL.Lock()
	defer s.notifyL.Unlock()
	s.notify(s.applyProperties(p))
	return nil
}

func (s *IPUSink) applyProperties(p Properties) Properties {
	defer s.lock()()
	s.props = p
	if s.active != nil {
		s.active.SetOutputRotationMode(p.OutputRotation)
		s.active.SetDeinterlaceMode(p.DeinterlaceMode)
		s.updateTranspose()
	}
	propertyWrites.WithLabelValues(s.name, PropOutputRotation).Inc()
	propertyWrites.WithLabelValues(s.name, PropDeinterlaceMode).Inc()
	return s.props
}

// SetProperty sets a property from its string form, as used by config files
// and the control API.
func (s *IPUSink) SetProperty(name, value string) error {
	switch name {
	case PropOutputRotation:
		m, err := blitter.ParseRotationMode(value)
		if err != nil {
			return err
		}
		s.SetOutputRotation(m)
	case PropDeinterlaceMode:
		m, err := blitter.ParseDeinterlaceMode(value)
		if err != nil {
			return err
		}
		s.SetDeinterlaceMode(m)
	default:
		s.log.Warnf("Attempt to set invalid property %q", name)
		return fmt.Errorf("%w: %q", ErrInvalidProperty, name)
	}
	return nil
}

// Property returns the string form of a property.
func (s *IPUSink) Property(name string) (string, error) {
	switch name {
	case PropOutputRotation:
		return s.OutputRotation().String(), nil
	case PropDeinterlaceMode:
		return s.DeinterlaceMode().String(), nil
	default:
		s.log.Warnf("Attempt to get invalid property %q", name)
		return "", fmt.Errorf("%w: %q", ErrInvalidProperty, name)
	}
}

func (s *IPUSink) start(base *BlitterSink) error {
	b, err := s.newBlitter()
	if err != nil {
		return fmt.Errorf("could not create blitter: %w", err)
	}
	if b == nil {
		return ErrNoBlitter
	}

	b.SetOutputRotationMode(s.props.OutputRotation)
	b.SetDeinterlaceMode(s.props.DeinterlaceMode)

	base.registerBlitter(b)
	s.updateTranspose()

	s.active = b
	return nil
}

func (s *IPUSink) stop(*BlitterSink) {
	// The BlitterSink closes the blitter once rendering has stopped.
	s.active = nil
}

// updateTranspose must be called with the lock held.
func (s *IPUSink) updateTranspose() {
	s.transposeFrames(blitter.Transposes(s.props.OutputRotation))
}

func (s *IPUSink) notify(p Properties) {
	for _, l := range s.Listeners {
		l.PropertiesChanged(s.name, p)
	}
}
