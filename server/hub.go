package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/durak/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 16
)

// client is one player's websocket connection to a room
type client struct {
	roomID   string
	playerID string
	conn     *websocket.Conn
	send     chan []byte
}

// Hub tracks the open connections of every room
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
	log   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{rooms: map[string]map[*client]struct{}{}, log: logger}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[c.roomID] == nil {
		h.rooms[c.roomID] = map[*client]struct{}{}
	}
	h.rooms[c.roomID][c] = struct{}{}
	h.log.Debug("ws client registered", zap.String("room", c.roomID), zap.String("player", c.playerID))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.roomID)
	}
	h.log.Debug("ws client unregistered", zap.String("room", c.roomID), zap.String("player", c.playerID))
}

// Connected lists the players with an open connection to the room
func (h *Hub) Connected(roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := []string{}
	for c := range h.rooms[roomID] {
		ids = append(ids, c.playerID)
	}
	return ids
}

// Broadcast sends each connected player of the room the message build
// makes for them. build returning false skips that player.
func (h *Hub) Broadcast(roomID string, build func(playerID string) (protocol.OutboundMessage, bool)) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		msg, ok := build(c.playerID)
		if !ok {
			continue
		}
		h.Send(c, msg)
	}
}

// Send queues a message for one connection without blocking
func (h *Hub) Send(c *client, msg protocol.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("could not encode ws message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[c.roomID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.log.Warn("ws subscriber channel full", zap.String("room", c.roomID), zap.String("player", c.playerID))
	}
}

// readPump forwards inbound messages to handle until the connection closes
func (h *Hub) readPump(c *client, handle func(c *client, msg protocol.InboundMessage), onPong func()) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		onPong()
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Info("ws closed unexpectedly", zap.String("player", c.playerID), zap.Error(err))
			}
			return
		}

		var msg protocol.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.Send(c, protocol.OutboundMessage{
				PlayerID: c.playerID,
				Command:  protocol.Error,
				Message:  "could not read message: " + err.Error(),
			})
			continue
		}
		msg.PlayerID = c.playerID
		handle(c, msg)
	}
}

func (h *Hub) writePump(c *client) {
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
				// The hub closed the channel.
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
		}
	}
}
