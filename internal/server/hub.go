package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/room"
)

const writeTimeout = 5 * time.Second

// client is one attached websocket. Frames are serialized through send
// so the write pump is the only goroutine touching the connection for
// output.
type client struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	closed   chan struct{}
	once     sync.Once
}

func newClient(playerID uuid.UUID, conn *websocket.Conn) *client {
	return &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, 32),
		closed:   make(chan struct{}),
	}
}

func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	case <-c.closed:
	default:
		// Slow consumer; drop the frame rather than stall the room.
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.closed) })
}

func (c *client) writePump() {
	for {
		select {
		case <-c.closed:
			return
		case frame := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				c.close()
				return
			}
		}
	}
}

// hub fans the room's outbound signals out to the attached clients. It
// implements room.Sink.
type hub struct {
	log *logrus.Entry

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

func newHub(log *logrus.Entry) *hub {
	return &hub{log: log, clients: make(map[uuid.UUID]*client)}
}

// attach registers a client, displacing any previous connection for the
// same player.
func (h *hub) attach(c *client) {
	h.mu.Lock()
	prev := h.clients[c.playerID]
	h.clients[c.playerID] = c
	h.mu.Unlock()
	if prev != nil {
		prev.close()
	}
}

// detach removes the client if it is still the player's current one.
func (h *hub) detach(c *client) {
	h.mu.Lock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
	h.mu.Unlock()
	c.close()
}

// current returns the player's active client, or nil.
func (h *hub) current(playerID uuid.UUID) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[playerID]
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

func (h *hub) sendTo(playerID uuid.UUID, msg serverMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("marshal outbound frame")
		return
	}
	h.mu.RLock()
	c := h.clients[playerID]
	h.mu.RUnlock()
	if c != nil {
		c.enqueue(frame)
	}
}

func (h *hub) sendAll(msg serverMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("marshal outbound frame")
		return
	}
	h.mu.RLock()
	for _, c := range h.clients {
		c.enqueue(frame)
	}
	h.mu.RUnlock()
}

// Public implements room.Sink.
func (h *hub) Public(msg room.Message) {
	h.sendAll(serverMessage{Type: msg.Type, Payload: msg.Payload})
}

// Private implements room.Sink.
func (h *hub) Private(playerID uuid.UUID, msg room.Message) {
	h.sendTo(playerID, serverMessage{Type: msg.Type, Payload: msg.Payload})
}

// Reject implements room.Sink.
func (h *hub) Reject(playerID uuid.UUID, reason string) {
	h.sendTo(playerID, serverMessage{Type: "action_rejected", Payload: map[string]interface{}{"reason": reason}})
}

// State implements room.Sink. Each player gets their own projection.
func (h *hub) State(views map[uuid.UUID]game.PlayerView) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		view, ok := views[c.playerID]
		if !ok {
			continue
		}
		frame, err := json.Marshal(serverMessage{Type: "game_state", Payload: view})
		if err != nil {
			h.log.WithError(err).Error("marshal state frame")
			continue
		}
		c.enqueue(frame)
	}
}

// GameOver implements room.Sink.
func (h *hub) GameOver(result *game.RoundResult) {
	h.sendAll(serverMessage{Type: "game_over", Payload: result})
}
