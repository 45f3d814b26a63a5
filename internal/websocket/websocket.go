package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/metrics"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/services"
)

// Message types pushed to scoreboards
const (
	TypeAttemptUpdated = "attempt_updated"
	TypeResultsUpdated = "results_updated"
	TypeCurrentLifter  = "current_lifter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // scoreboards are served from any LAN address
	},
}

// CurrentLifterSource looks up who is on the platform for a contest
type CurrentLifterSource interface {
	GetCurrentLifter(ctx context.Context, contestID string) (*models.CurrentLifter, error)
}

// envelope is a message addressed to the clients of one contest
type envelope struct {
	contestID string
	message   models.WSMessage
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	lifters    CurrentLifterSource
}

// Client is a middleman between the websocket connection and the hub.
// A client with an empty contestID receives every contest's messages.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan models.WSMessage
	contestID string
}

// Ensure Hub implements services.Broadcaster
var _ services.Broadcaster = (*Hub)(nil)

// New creates a new Hub. lifters may be nil, in which case new clients are
// not told who is on the platform.
func New(log logger.Logger, lifters CurrentLifterSource) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		lifters:    lifters,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			metrics.SetWebsocketClients(total)
			h.log.Debug("Client connected", "contest_id", client.contestID, "total_clients", total)

			if client.contestID != "" && h.lifters != nil {
				go h.sendCurrentLifter(client)
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			metrics.SetWebsocketClients(total)
			h.log.Debug("Client disconnected", "total_clients", total)

		case env := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.contestID != "" && client.contestID != env.contestID {
					continue
				}
				select {
				case client.send <- env.message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// sendCurrentLifter tells a newly connected scoreboard who is on the platform
func (h *Hub) sendCurrentLifter(client *Client) {
	lifter, err := h.lifters.GetCurrentLifter(context.Background(), client.contestID)
	if err != nil {
		return
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- models.WSMessage{Type: TypeCurrentLifter, Payload: lifter}:
	default:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastMessage sends a message to every client watching the contest
func (h *Hub) BroadcastMessage(contestID, msgType string, payload interface{}) {
	metrics.RecordBroadcast(msgType)
	h.broadcast <- envelope{
		contestID: contestID,
		message:   models.WSMessage{Type: msgType, Payload: payload},
	}
}

// BroadcastAttemptUpdated implements services.Broadcaster
func (h *Hub) BroadcastAttemptUpdated(contestID string, attempt models.Attempt) {
	h.BroadcastMessage(contestID, TypeAttemptUpdated, map[string]interface{}{
		"contest_id": contestID,
		"attempt":    attempt,
	})
}

// BroadcastResultsUpdated implements services.Broadcaster
func (h *Hub) BroadcastResultsUpdated(contestID, calculatedAt string) {
	h.BroadcastMessage(contestID, TypeResultsUpdated, map[string]interface{}{
		"contest_id":    contestID,
		"calculated_at": calculatedAt,
	})
}

// BroadcastCurrentLifter implements services.Broadcaster
func (h *Hub) BroadcastCurrentLifter(lifter models.CurrentLifter) {
	h.BroadcastMessage(lifter.ContestID, TypeCurrentLifter, lifter)
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Scoreboards are read-only; anything they send is only logged
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients. The optional contest
// query parameter limits the client to one contest's messages.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan models.WSMessage, sendBuffer),
		contestID: r.URL.Query().Get("contest"),
	}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
