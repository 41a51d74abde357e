package serve

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"ipusink/video/sink"
)

const (
	// Time allowed to write message to the client
	writeWait  = 10 * time.Second
	pingPeriod = 10 * time.Second
)

// PropertyUpdate is the message pushed to websocket clients.
type PropertyUpdate struct {
	Sink       string          `json:"sink"`
	Properties sink.Properties `json:"properties"`
}

// PropertyUpdater pushes property changes to websocket clients. New clients
// receive the latest update on connect.
type PropertyUpdater struct {
	upgrader websocket.Upgrader
	cs       map[chan []byte]bool
	addc     chan chan []byte
	delc     chan chan []byte
	notify   chan []byte
	done     chan struct{}
}

func NewPropertyUpdater() *PropertyUpdater {
	m := &PropertyUpdater{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		cs:     make(map[chan []byte]bool),
		addc:   make(chan chan []byte),
		delc:   make(chan chan []byte),
		notify: make(chan []byte),
		done:   make(chan struct{}),
	}
	go func() {
		var last []byte
		for {
			select {
			case c := <-m.addc:
				m.cs[c] = true
				if last != nil {
					c <- last
				}
			case c := <-m.delc:
				delete(m.cs, c)
			case msg := <-m.notify:
				last = msg
				for c := range m.cs {
					select {
					case c <- msg:
					default:
						// Client is behind; it will catch up on the next update.
					}
				}
			case <-m.done:
				return
			}
		}
	}()
	return m
}

// PropertiesChanged implements sink.PropertyListener.
func (m *PropertyUpdater) PropertiesChanged(name string, p sink.Properties) {
	msg, err := json.Marshal(PropertyUpdate{Sink: name, Properties: p})
	if err != nil {
		log.Errorf("Failed to encode property update: %v", err)
		return
	}
	select {
	case m.notify <- msg:
	case <-m.done:
	}
}

func (m *PropertyUpdater) Close() {
	close(m.done)
}

func (m *PropertyUpdater) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.WithField("addr", r.RemoteAddr).Errorf("Websocket handshake failed for property stream: %v", err)
		}
		return
	}
	go m.serve(ws)
}

func (m *PropertyUpdater) serve(ws *websocket.Conn) {
	clog := log.WithField("addr", ws.RemoteAddr())
	clog.Info("connected to property update socket")
	defer func() {
		ws.Close()
		clog.Info("disconnected from property update socket")
	}()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	updates := make(chan []byte, 1)
	select {
	case m.addc <- updates:
	case <-m.done:
		return
	}
	defer func() {
		select {
		case m.delc <- updates:
		case <-m.done:
		}
	}()

	// Even though we don't care about incoming messages, we need to read from
	// the socket in order to process control messages.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-updates:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-pingTicker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-closed:
			return
		case <-m.done:
			return
		}
	}
}
