package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types for the progress protocol
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypePong           = "pong"
	MsgTypeBatchProgress  = "batch:progress"
	MsgTypeBatchComplete  = "batch:complete"
	MsgTypeBatchError     = "batch:error"
	MsgTypeSessionExpired = "session:expired"
)

// WSMessage is the envelope for every message on the wire
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// BatchProgressPayload reports one settled submission in a running batch
type BatchProgressPayload struct {
	Done     int    `json:"done"`
	Total    int    `json:"total"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// BatchCompletePayload announces a fully successful batch
type BatchCompletePayload struct {
	Count int `json:"count"`
}

// BatchErrorPayload announces a failed batch
type BatchErrorPayload struct {
	Message string `json:"message"`
}

// Hub fans server events out to every connected WebSocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (hub *Hub) add(ws *websocket.Conn) {
	hub.mu.Lock()
	hub.clients[ws] = &sync.Mutex{}
	hub.mu.Unlock()
}

func (hub *Hub) remove(ws *websocket.Conn) {
	hub.mu.Lock()
	delete(hub.clients, ws)
	hub.mu.Unlock()
}

// broadcast sends one message to every client. Writes are serialized per
// connection; gorilla/websocket allows only one concurrent writer.
func (hub *Hub) broadcast(msgType string, payload interface{}) {
	msg := WSMessage{
		Type:      msgType,
		Payload:   mustJSON(payload),
		Timestamp: time.Now().UnixMilli(),
	}

	hub.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(hub.clients))
	for ws, mu := range hub.clients {
		conns[ws] = mu
	}
	hub.mu.RUnlock()

	for ws, mu := range conns {
		mu.Lock()
		if err := ws.WriteJSON(msg); err != nil {
			fmt.Printf("[WebSocket] Failed to send %s: %v\n", msgType, err)
		}
		mu.Unlock()
	}
}

// BroadcastProgress pushes one batch progress tick.
func (hub *Hub) BroadcastProgress(done, total int, filename string, err error) {
	payload := BatchProgressPayload{Done: done, Total: total, Filename: filename}
	if err != nil {
		payload.Error = err.Error()
	}
	hub.broadcast(MsgTypeBatchProgress, payload)
}

// BroadcastBatchComplete announces a successful batch.
func (hub *Hub) BroadcastBatchComplete(count int) {
	hub.broadcast(MsgTypeBatchComplete, BatchCompletePayload{Count: count})
}

// BroadcastBatchError announces a failed batch.
func (hub *Hub) BroadcastBatchError(message string) {
	hub.broadcast(MsgTypeBatchError, BatchErrorPayload{Message: message})
}

// BroadcastSessionExpired tells every client to drop to the login screen.
func (hub *Hub) BroadcastSessionExpired() {
	hub.broadcast(MsgTypeSessionExpired, nil)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from dev server
		return true
	},
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
}

// HandleWebSocket upgrades the connection and keeps it registered with
// the hub until the client disconnects. Inbound traffic is ping only.
func (h *Handler) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Println("[WebSocket] Client connected")
	h.hub.add(ws)
	defer h.hub.remove(ws)

	for {
		var msg WSMessage
		err := ws.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			h.hub.mu.RLock()
			mu, ok := h.hub.clients[ws]
			h.hub.mu.RUnlock()
			if !ok {
				break
			}
			mu.Lock()
			ws.WriteJSON(WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
			mu.Unlock()
		}
	}

	fmt.Println("[WebSocket] Client disconnected")
	return nil
}

func mustJSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
