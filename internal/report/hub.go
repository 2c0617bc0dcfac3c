// Package report adapts the teacher's gin/websocket API layer
// (internal/api/{websocket,auth,ratelimit,routes}.go) into the Report
// Service of SPEC_FULL.md §4.9: a live progress feed over websockets
// plus a REST endpoint serving the -report coverage table.
package report

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboard only
	},
}

// ProgressEvent is one broadcast frame: a phase name ("pairwise" or
// "corruption"), how many units of work are done, and the total.
type ProgressEvent struct {
	Phase string `json:"phase"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// Hub maintains the set of active websocket clients and broadcasts
// progress events, grounded on the teacher's Hub shape.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewHub allocates an idle Hub. Run must be started in its own
// goroutine before any client connects.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel and fans each message out to every
// connected client, dropping clients whose write fails or times out.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades an HTTP request to a websocket connection and
// registers it as a broadcast recipient.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
	log.Printf("new report client connected, total: %d", len(h.clients))

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("report client disconnected, total: %d", len(h.clients))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				break
			}
		}
	}()
}

// Broadcast sends data to every connected client.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// BroadcastProgress is the engine.ProgressFunc adapter: it JSON-encodes
// a ProgressEvent and broadcasts it.
func (h *Hub) BroadcastProgress(phase string, done, total int) {
	b, err := json.Marshal(ProgressEvent{Phase: phase, Done: done, Total: total})
	if err != nil {
		log.Printf("failed to encode progress event: %v", err)
		return
	}
	h.Broadcast(b)
}
