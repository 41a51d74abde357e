package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ipusink/video/blitter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"URI": "0", "OutputRotation": "rotate-90cw", "DeinterlaceMode": "slow-motion"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	if err := Load(ctx, path, func(c *Config) { changes <- c }); err != nil {
		t.Fatal(err)
	}

	c := Get()
	if c.URI != "0" || c.OutputRotation != blitter.Rotation90CW || c.DeinterlaceMode != blitter.DeinterlaceSlowMotion {
		t.Fatalf("unexpected config %+v", c)
	}

	// Give the watcher time to attach.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, path, `{"URI": "0", "OutputRotation": "vertical-flip"}`)

	select {
	case c := <-changes:
		if c.OutputRotation != blitter.RotationVFlip || c.DeinterlaceMode != blitter.DeinterlaceNone {
			t.Errorf("reloaded config %+v", c)
		}
		if Get() != c {
			t.Errorf("Get does not return the reloaded config")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file change")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"badrotation.json": `{"OutputRotation": "rotate-45"}`,
		"unknown.json":     `{"Brightness": 3}`,
		"syntax.json":      `{`,
	} {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		if err := Load(context.Background(), path, nil); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if err := Load(context.Background(), filepath.Join(dir, "missing.json"), nil); err == nil {
		t.Errorf("expected error for missing file")
	}
}
