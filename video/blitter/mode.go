package blitter

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRotation    = errors.New("unknown rotation mode")
	ErrUnknownDeinterlace = errors.New("unknown deinterlace mode")
)

// RotationMode is the transform applied to output frames.
type RotationMode int

const (
	RotationNone RotationMode = iota
	RotationHFlip
	RotationVFlip
	Rotation180
	Rotation90CW
	Rotation90CWHFlip
	Rotation90CWVFlip
	Rotation90CCW

	DefaultRotation = RotationNone
)

var rotationNames = map[RotationMode]string{
	RotationNone:      "none",
	RotationHFlip:     "horizontal-flip",
	RotationVFlip:     "vertical-flip",
	Rotation180:       "rotate-180",
	Rotation90CW:      "rotate-90cw",
	Rotation90CWHFlip: "rotate-90cw-hflip",
	Rotation90CWVFlip: "rotate-90cw-vflip",
	Rotation90CCW:     "rotate-90ccw",
}

// RotationModes lists every valid rotation mode in declaration order.
func RotationModes() []RotationMode {
	return []RotationMode{
		RotationNone, RotationHFlip, RotationVFlip, Rotation180,
		Rotation90CW, Rotation90CWHFlip, Rotation90CWVFlip, Rotation90CCW,
	}
}

func (m RotationMode) String() string {
	if s, ok := rotationNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RotationMode(%d)", int(m))
}

func (m RotationMode) Valid() bool {
	_, ok := rotationNames[m]
	return ok
}

func ParseRotationMode(s string) (RotationMode, error) {
	for m, name := range rotationNames {
		if name == s {
			return m, nil
		}
	}
	return DefaultRotation, fmt.Errorf("%w: %q", ErrUnknownRotation, s)
}

func (m RotationMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRotation, int(m))
	}
	return []byte(m.String()), nil
}

func (m *RotationMode) UnmarshalText(b []byte) error {
	v, err := ParseRotationMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Transposes reports whether frames rendered with the given rotation have
// their width and height swapped. Only the 90 degree family does.
func Transposes(m RotationMode) bool {
	switch m {
	case Rotation90CW, Rotation90CWHFlip, Rotation90CWVFlip, Rotation90CCW:
		return true
	default:
		return false
	}
}

// DeinterlaceMode selects how interlaced frames are made progressive.
// Progressive input passes through unchanged regardless of mode.
type DeinterlaceMode int

const (
	DeinterlaceNone DeinterlaceMode = iota
	DeinterlaceSlowMotion
	DeinterlaceFastMotion

	DefaultDeinterlace = DeinterlaceNone
)

var deinterlaceNames = map[DeinterlaceMode]string{
	DeinterlaceNone:       "none",
	DeinterlaceSlowMotion: "slow-motion",
	DeinterlaceFastMotion: "fast-motion",
}

func DeinterlaceModes() []DeinterlaceMode {
	return []DeinterlaceMode{DeinterlaceNone, DeinterlaceSlowMotion, DeinterlaceFastMotion}
}

func (m DeinterlaceMode) String() string {
	if s, ok := deinterlaceNames[m]; ok {
		return s
	}
	return fmt.Sprintf("DeinterlaceMode(%d)", int(m))
}

func (m DeinterlaceMode) Valid() bool {
	_, ok := deinterlaceNames[m]
	return ok
}

func ParseDeinterlaceMode(s string) (DeinterlaceMode, error) {
	for m, name := range deinterlaceNames {
		if name == s {
			return m, nil
		}
	}
	return DefaultDeinterlace, fmt.Errorf("%w: %q", ErrUnknownDeinterlace, s)
}

func (m DeinterlaceMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDeinterlace, int(m))
	}
	return []byte(m.String()), nil
}

func (m *DeinterlaceMode) UnmarshalText(b []byte) error {
	v, err := ParseDeinterlaceMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
