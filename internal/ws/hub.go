package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// SyncEvent is broadcast to connected dashboards after a sync pass lands.
type SyncEvent struct {
	Type      string `json:"type"` // always "sync"
	Kind      string `json:"kind"` // "slots" or "sales"
	MachineID int    `json:"machineId"`
	Records   int    `json:"records"`
	PassID    string `json:"passId"`
}

// Hub fans sync events out to websocket clients.
type Hub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	broadcast  chan []byte

	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*websocket.Conn]bool),
		log:        log,
	}
}

// Publish queues a sync event without blocking the sync path. Events are
// dropped when the hub is saturated; they are advisory, not durable.
func (h *Hub) Publish(ev SyncEvent) {
	ev.Type = "sync"
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws hub saturated, dropping sync event")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
