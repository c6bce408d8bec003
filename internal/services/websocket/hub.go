package websocket

import (
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"cap-inspect/internal/logger"
)

// frameMessage is the payload pushed to live-view clients.
type frameMessage struct {
	Image string `json:"image"`
}

// HubService fans camera frames out to connected live-view clients.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

// NewHubService creates an empty hub. Run must be started for the hub
// to process registrations and broadcasts.
func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

// Run is the hub event loop. Meant to be started as a goroutine.
func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", h.ClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending frame to viewer: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a live-view client.
func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

// Unregister removes a live-view client.
func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// BroadcastFrame pushes one JPEG frame to every connected viewer.
// Frames are dropped when the hub cannot keep up; the stream loop must
// never block on slow viewers.
func (h *HubService) BroadcastFrame(frame []byte) {
	if h.ClientCount() == 0 {
		return
	}

	msg, err := json.Marshal(frameMessage{Image: base64.StdEncoding.EncodeToString(frame)})
	if err != nil {
		h.logger.Error("Error encoding frame message: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
	}
}

// ClientCount returns the number of connected viewers.
func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
