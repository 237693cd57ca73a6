package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	sendChannelSize = 64
)

// Event is the wire format for websocket updates.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts engine events to connected websocket clients. Slow clients
// are dropped rather than allowed to block the broadcast.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	done    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
		done:    make(chan struct{}),
	}
}

func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Serve upgrades the request and pumps events to the client until it
// disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendChannelSize)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) readPump(c *wsClient) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-h.done:
			return
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(eventType string, data any) {
	raw, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now()})
	if err != nil {
		logger.Error("failed to marshal websocket event", err, "type", eventType)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
			// slow client, disconnect it
			delete(h.clients, c)
			close(c.send)
			c.conn.Close()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// The hub itself is a Notifier: every engine event becomes a broadcast.

func (h *Hub) LightChanged(room string, state domain.LightState) {
	h.Broadcast("light_update", map[string]any{"room": room, "state": state})
}

func (h *Hub) ScheduleExecuted(room, action string, brightness int) {
	h.Broadcast("schedule_executed", map[string]any{
		"room":       room,
		"action":     action,
		"brightness": brightness,
	})
}

func (h *Hub) AIModeChanged(enabled bool) {
	h.Broadcast("ai_mode", map[string]bool{"enabled": enabled})
}

func (h *Hub) Prediction(room string, probability float64, occupied bool) {
	h.Broadcast("ai_prediction", map[string]any{
		"room":        room,
		"probability": probability,
		"occupied":    occupied,
	})
}

func (h *Hub) ActivityLogged(entry domain.ActivityLog) {
	h.Broadcast("activity", entry)
}
