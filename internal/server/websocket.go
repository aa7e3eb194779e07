package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// handleRoomSocket upgrades a viewer connection and wires it to the
// room's store subscription: the full document arrives once on connect
// and again after every write, most recent write wins.
func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	code, ok := parseRoomSocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, exists := s.store.Get(code); !exists {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room_code=%s remote=%s", code, r.RemoteAddr)

	var writeMu sync.Mutex
	unsubscribe, ok := s.store.Subscribe(code, func(doc map[string]any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(doc); err != nil {
			_ = conn.Close()
		}
	})
	if !ok {
		_ = conn.Close()
		return
	}
	go s.readRoomSocket(code, conn, unsubscribe)
}

func (s *Server) readRoomSocket(code string, conn *websocket.Conn, unsubscribe func()) {
	defer func() {
		unsubscribe()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected room_code=%s error=%v", code, err)
			return
		}
	}
}
