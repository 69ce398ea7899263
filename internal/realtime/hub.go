// Package realtime pushes live tally updates to websocket subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voting-api/internal/database"
	"voting-api/pkg/config"
	"voting-api/pkg/logger"
)

// Message types sent to subscribers
const (
	TypeTally = "tally_update"
	TypePong  = "pong"
)

const (
	sendBuffer      = 16
	broadcastBuffer = 64
	maxMessageSize  = 512
)

// ErrHubStopped is returned when subscribing after the hub shut down
var ErrHubStopped = errors.New("realtime hub stopped")

// Message represents a message sent over the websocket. Seq increases
// with every broadcast tally; clients can discard anything older than the
// last one they applied.
type Message struct {
	Type      string      `json:"type"`
	Seq       uint64      `json:"seq,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// NewMessage stamps a message with the current time
func NewMessage(msgType string, data interface{}) Message {
	return Message{Type: msgType, Data: data, Timestamp: time.Now().Unix()}
}

// Hub fans tally updates out to every connected client
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}
	seq     uint64

	pingInterval time.Duration
	writeTimeout time.Duration
	logger       *logger.Logger
}

// NewHub creates a hub; call Run to start dispatching
func NewHub(cfg config.RealtimeConfig, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNopLogger()
	}
	ping := cfg.PingInterval
	if ping <= 0 {
		ping = 30 * time.Second
	}
	write := cfg.WriteTimeout
	if write <= 0 {
		write = 10 * time.Second
	}
	return &Hub{
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan Message, broadcastBuffer),
		done:         make(chan struct{}),
		clients:      make(map[*Client]struct{}),
		pingInterval: ping,
		writeTimeout: write,
		logger:       log.WithComponent("realtime"),
	}
}

// Run dispatches registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			h.logger.Info("Realtime hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow subscriber
					close(c.send)
					delete(h.clients, c)
					h.logger.Warning("Dropping slow websocket client", "remote_addr", c.remoteAddr)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// PublishTally queues a tally update for every subscriber. It never blocks
// the caller; updates are dropped when the queue is full.
func (h *Hub) PublishTally(tally []database.TallyEntry) {
	msg := NewMessage(TypeTally, tally)
	msg.Seq = atomic.AddUint64(&h.seq, 1)
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warning("Tally broadcast queue full, update dropped")
	}
}

// ConnectionCount returns the number of live subscribers
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve attaches an upgraded connection, sends the initial message and
// blocks until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn, initial Message) error {
	c := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan Message, sendBuffer),
		pong:       make(chan struct{}, 1),
		remoteAddr: conn.RemoteAddr().String(),
	}
	c.send <- initial

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	h.logger.Info("Websocket client connected", "remote_addr", c.remoteAddr)
	go c.writePump()
	c.readPump()
	h.logger.Info("Websocket client disconnected", "remote_addr", c.remoteAddr)
	return nil
}

// Client is one websocket subscriber
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan Message
	pong       chan struct{}
	remoteAddr string
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	pongWait := 2 * c.hub.pingInterval
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warning("Websocket read error", "error", err, "remote_addr", c.remoteAddr)
			}
			return
		}
		if messageType == websocket.TextMessage {
			c.handle(payload)
		}
	}
}

// handle answers application-level pings; anything else is ignored
func (c *Client) handle(payload []byte) {
	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return
	}
	if msg.Type == "ping" {
		select {
		case c.pong <- struct{}{}:
		default:
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-c.pong:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if err := c.conn.WriteJSON(NewMessage(TypePong, nil)); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
