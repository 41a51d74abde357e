package serve

import (
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"ipusink/preset"
	"ipusink/video/sink"
)

type PresetStore interface {
	Save(name string, p sink.Properties) error
	Load(name string) (sink.Properties, error)
	List() ([]preset.Preset, error)
	Delete(name string) error
}

type PresetSink interface {
	Properties() sink.Properties
	ApplyProperties(p sink.Properties) error
}

// PresetServer manages property presets.
//
//	GET  /presets                             list as JSON
//	POST /presets?name=N&action=save|apply|delete
type PresetServer struct {
	Store PresetStore
	Sink  PresetSink
}

func (s *PresetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		presets, err := s.Store.List()
		if err != nil {
			log.Errorf("Failed to list presets: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, presets)
		return
	case http.MethodPost:
	default:
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.Form.Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	var err error
	switch action := r.Form.Get("action"); action {
	case "save":
		err = s.Store.Save(name, s.Sink.Properties())
	case "apply":
		var p sink.Properties
		if p, err = s.Store.Load(name); err == nil {
			err = s.Sink.ApplyProperties(p)
		}
	case "delete":
		err = s.Store.Delete(name)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusBadRequest)
		return
	}
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, preset.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, preset.ErrInvalidName):
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	log.WithField("addr", r.RemoteAddr).Infof("Preset %v: %v", name, r.Form.Get("action"))
	writeJSON(w, s.Sink.Properties())
}
