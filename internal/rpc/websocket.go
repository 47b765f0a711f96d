package rpc

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/definix-labs/definix/pkg/logging"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = wsPongWait / 2
	wsMaxMessageSize = 4096
	wsSendQueue      = 256
	wsBroadcastQueue = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API listens on loopback; browser dashboards connect from any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// EventType represents the type of WebSocket event.
type EventType string

const (
	// EventStateChanged carries a StateResult after every connection state change.
	EventStateChanged EventType = "state_changed"

	// EventDashboard carries a DashboardResult after every poller refresh.
	EventDashboard EventType = "dashboard"
)

// knownEvents lists the event types a client may subscribe to.
var knownEvents = map[EventType]bool{
	EventStateChanged: true,
	EventDashboard:    true,
}

// WSEvent is a WebSocket event message.
type WSEvent struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// WSSubscription is a client request to change its event filter.
type WSSubscription struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Events []string `json:"events"`
}

// WSClient is one connected WebSocket peer.
type WSClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub

	mu     sync.RWMutex
	filter map[EventType]struct{}
}

func newWSClient(hub *WSHub, conn *websocket.Conn) *WSClient {
	return &WSClient{
		conn:   conn,
		send:   make(chan []byte, wsSendQueue),
		hub:    hub,
		filter: make(map[EventType]struct{}),
	}
}

// WSHub fans state and dashboard events out to connected clients.
type WSHub struct {
	broadcast  chan *WSEvent
	register   chan *WSClient
	unregister chan *WSClient
	done       chan struct{}
	stopOnce   sync.Once
	log        *logging.Logger

	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		broadcast:  make(chan *WSEvent, wsBroadcastQueue),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
		log:        logging.GetDefault().Component("ws"),
		clients:    make(map[*WSClient]struct{}),
	}
}

// Run starts the hub event loop. It returns after Stop and closes every
// client connection.
func (h *WSHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				h.dropLocked(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("WebSocket client connected", "clients", n)

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("WebSocket client disconnected", "clients", n)

		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

// fanOut queues event on every interested client. Clients whose queue is
// full are disconnected after the walk.
func (h *WSHub) fanOut(event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}

	var slow []*WSClient
	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(event.Type) {
			continue
		}
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range slow {
		h.dropLocked(client)
	}
	h.mu.Unlock()
	h.log.Warn("Dropped slow WebSocket clients", "count", len(slow), "type", event.Type)
}

// dropLocked removes client and closes its send queue. h.mu must be held.
func (h *WSHub) dropLocked(client *WSClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

// Stop ends the event loop.
func (h *WSHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast sends an event to all subscribed clients. It never blocks; when
// the hub is backlogged the event is dropped.
func (h *WSHub) Broadcast(eventType EventType, data interface{}) {
	event := &WSEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("Broadcast channel full, dropping event", "type", eventType)
	}
}

// ClientCount returns the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleWS upgrades the request and attaches the client to the hub.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(s.wsHub, conn)
	select {
	case s.wsHub.register <- client:
	case <-s.wsHub.done:
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

// readLoop applies subscription requests until the peer goes away.
func (c *WSClient) readLoop() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(wsMaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket read error", "error", err)
			}
			return
		}

		var sub WSSubscription
		if err := json.Unmarshal(message, &sub); err != nil {
			c.hub.log.Debug("Ignoring malformed WebSocket message", "error", err)
			continue
		}
		c.applySubscription(&sub)
	}
}

// writeLoop drains the send queue, batching queued events into one frame
// separated by newlines, and pings the peer while idle.
func (c *WSClient) writeLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeBatch(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) writeBatch(first []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)
	for n := len(c.send); n > 0; n-- {
		next, ok := <-c.send
		if !ok {
			break
		}
		w.Write([]byte{'\n'})
		w.Write(next)
	}
	return w.Close()
}

// wants reports whether the client receives events of type t. A client with
// an empty filter receives everything.
func (c *WSClient) wants(t EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.filter) == 0 {
		return true
	}
	_, ok := c.filter[t]
	return ok
}

// applySubscription updates the filter. Unknown actions and event types are
// ignored.
func (c *WSClient) applySubscription(sub *WSSubscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range sub.Events {
		t := EventType(name)
		if !knownEvents[t] {
			continue
		}
		switch sub.Action {
		case "subscribe":
			c.filter[t] = struct{}{}
		case "unsubscribe":
			delete(c.filter, t)
		}
	}
}
