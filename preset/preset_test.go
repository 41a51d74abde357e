package preset

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"

	"ipusink/video/blitter"
	"ipusink/video/sink"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Shared cache keeps every pooled connection on the same database.
	s, err := Open(sqlite.Open("file:" + t.Name() + "?mode=memory&cache=shared"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)

	portrait := sink.Properties{OutputRotation: blitter.Rotation90CW, DeinterlaceMode: blitter.DeinterlaceFastMotion}
	if err := s.Save("portrait", portrait); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load("portrait")
	if err != nil {
		t.Fatal(err)
	}
	if got != portrait {
		t.Errorf("Load = %+v, want %+v", got, portrait)
	}

	// Saving again replaces.
	flipped := sink.Properties{OutputRotation: blitter.Rotation180}
	if err := s.Save("portrait", flipped); err != nil {
		t.Fatal(err)
	}
	got, err = s.Load("portrait")
	if err != nil {
		t.Fatal(err)
	}
	if got != flipped {
		t.Errorf("Load after overwrite = %+v", got)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"b", "a", "c"} {
		if err := s.Save(name, sink.DefaultProperties()); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Name != "a" || rows[2].Name != "c" {
		t.Fatalf("List = %+v", rows)
	}

	if err := s.Delete("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save("", sink.DefaultProperties()); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if err := s.Save("x", sink.Properties{DeinterlaceMode: 7}); !errors.Is(err, blitter.ErrUnknownDeinterlace) {
		t.Errorf("expected ErrUnknownDeinterlace, got %v", err)
	}
}
