package blitter

import (
	"errors"
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestGoCVRotationGeometry(t *testing.T) {
	b, err := NewGoCV(GoCVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	src := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer src.Close()

	for _, m := range RotationModes() {
		b.SetOutputRotationMode(m)
		out, err := b.Blit(src, false)
		if err != nil {
			t.Fatalf("Blit with %v: %v", m, err)
		}
		wantW, wantH := 64, 48
		if Transposes(m) {
			wantW, wantH = 48, 64
		}
		if out.Cols() != wantW || out.Rows() != wantH {
			t.Errorf("%v: got %dx%d, want %dx%d", m, out.Cols(), out.Rows(), wantW, wantH)
		}
	}
}

func TestGoCVDeinterlaceKeepsSize(t *testing.T) {
	b, err := NewGoCV(GoCVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	src := gocv.NewMatWithSize(31, 40, gocv.MatTypeCV8UC3)
	defer src.Close()

	for _, m := range DeinterlaceModes() {
		b.SetDeinterlaceMode(m)
		out, err := b.Blit(src, true)
		if err != nil {
			t.Fatalf("Blit with %v: %v", m, err)
		}
		if out.Cols() != 40 || out.Rows() != 31 {
			t.Errorf("%v: got %dx%d", m, out.Cols(), out.Rows())
		}
	}
}

func TestGoCVRejectsBadInput(t *testing.T) {
	if _, err := NewGoCV(GoCVOptions{MaxSize: image.Point{X: -1}}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}

	b, err := NewGoCV(GoCVOptions{MaxSize: image.Point{X: 32, Y: 32}})
	if err != nil {
		t.Fatal(err)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := b.Blit(empty, false); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}

	big := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	defer big.Close()
	if _, err := b.Blit(big, false); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}

	b.Close()
	small := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer small.Close()
	if _, err := b.Blit(small, false); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
