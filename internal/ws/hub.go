package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

const (
	EventInventoryCountRecorded = "inventory_count_recorded"
	EventReportInvalidated      = "report_invalidated"
)

// Event is the envelope pushed to every connected dashboard.
type Event struct {
	Type    string    `json:"type"`
	StoreID string    `json:"store_id,omitempty"`
	Payload any       `json:"payload,omitempty"`
	Message string    `json:"message,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

// Publish queues an event for every client without blocking the caller.
func (h *Hub) Publish(e Event) {
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}
	msg, err := json.Marshal(e)
	if err != nil {
		logger.LogError(logger.GetLogger(), "hub.go", "Publish", "Marshal event", e.Type, err)
		return
	}
	go func() { h.Broadcast <- msg }()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Run() {
	log := logger.GetLogger()
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
