package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket subscriber of a game room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID int

	mu     sync.Mutex
	closed bool
}

// Hub tracks score-sheet subscribers per game and fans out updates.
// Rooms are created on first subscribe and dropped when empty.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[int]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[int]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.gameID]; !ok {
				h.rooms[client.gameID] = make(map[*Client]bool)
			}
			h.rooms[client.gameID][client] = true
			h.logger.Debug("websocket client joined game room",
				"game_id", client.gameID, "clients", len(h.rooms[client.gameID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.gameID]; ok {
				if room[client] {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.gameID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToGame delivers a message to every subscriber of the game's
// room. Slow clients are skipped rather than blocked on.
func (h *Hub) BroadcastToGame(gameID int, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[gameID]
	if !ok {
		return
	}
	for client := range room {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- message:
		default:
			h.logger.Warn("dropping score update for slow websocket client", "game_id", gameID)
		}
		client.mu.Unlock()
	}
}

// Subscribe attaches an upgraded connection to a game room and starts its
// read and write pumps.
func (h *Hub) Subscribe(conn *websocket.Conn, gameID int) {
	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		gameID: gameID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// readPump discards inbound messages; the score-sheet stream is one-way.
// It exists to process control frames and detect disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "game_id", c.gameID, "error", err)
			}
			return
		}
	}
}

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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
