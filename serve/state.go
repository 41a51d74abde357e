package serve

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Lifecycle interface {
	Start() error
	Stop() error
	Running() bool
}

// StateServer starts and stops a sink.
//
//	GET  /state                 "running" or "stopped"
//	POST /state?action=start|stop
type StateServer struct {
	Sink Lifecycle
}

func (s *StateServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain; charset=utf-8")
	switch r.Method {
	case http.MethodGet:
		fmt.Fprintln(w, stateString(s.Sink.Running()))
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
	clog := log.WithField("addr", r.RemoteAddr)

	switch action := r.Form.Get("action"); action {
	case "start":
		if err := s.Sink.Start(); err != nil {
			clog.Errorf("Start requested but failed: %v", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	case "stop":
		// Stop cannot fail.
		s.Sink.Stop()
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusBadRequest)
		return
	}
	fmt.Fprintln(w, stateString(s.Sink.Running()))
}

func stateString(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}
