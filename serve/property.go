package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"ipusink/video/blitter"
	"ipusink/video/sink"
)

// PropertySink is the property surface of a sink.
type PropertySink interface {
	SetProperty(name, value string) error
	Property(name string) (string, error)
	Properties() sink.Properties
}

// PropertyServer exposes sink properties over HTTP.
//
//	GET  /property             all properties as JSON
//	GET  /property?name=N      value of N
//	POST /property?name=N&value=V
type PropertyServer struct {
	Sink PropertySink
}

func (s *PropertyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.Form.Get("name")

	switch r.Method {
	case http.MethodGet:
		if name == "" {
			writeJSON(w, s.Sink.Properties())
			return
		}
		v, err := s.Sink.Property(name)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Add("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, v)

	case http.MethodPost:
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}
		value := r.Form.Get("value")
		if err := s.Sink.SetProperty(name, value); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		log.WithField("addr", r.RemoteAddr).Infof("Property %v set to %v", name, value)
		w.Header().Add("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")

	default:
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sink.ErrInvalidProperty):
		return http.StatusNotFound
	case errors.Is(err, blitter.ErrUnknownRotation), errors.Is(err, blitter.ErrUnknownDeinterlace):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}
