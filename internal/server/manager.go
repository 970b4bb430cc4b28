package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/room"
)

var ErrRoomNotFound = errors.New("server: room not found")

// managedRoom bundles a running room loop with its fan-out hub.
type managedRoom struct {
	id   uuid.UUID
	room *room.Room
	hub  *hub
}

// RoomManager creates and tracks the live rooms in this process.
type RoomManager struct {
	log     *logrus.Logger
	gameCfg game.Config

	mu    sync.RWMutex
	rooms map[uuid.UUID]*managedRoom
}

func NewRoomManager(log *logrus.Logger, gameCfg game.Config) *RoomManager {
	return &RoomManager{
		log:     log,
		gameCfg: gameCfg,
		rooms:   make(map[uuid.UUID]*managedRoom),
	}
}

// Create spins up a new room with its own event loop goroutine.
func (m *RoomManager) Create() *managedRoom {
	id := uuid.New()
	g := game.NewGame(id, m.gameCfg, time.Now().UnixNano())
	h := newHub(m.log.WithField("room", id))
	r := room.New(g, h, m.log)

	m.mu.Lock()
	mr := &managedRoom{id: id, room: r, hub: h}
	m.rooms[id] = mr
	m.mu.Unlock()

	go r.Run()
	m.log.WithField("room", id).Info("room created")
	return mr
}

func (m *RoomManager) Get(id uuid.UUID) (*managedRoom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mr, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return mr, nil
}

// List returns the IDs of all live rooms.
func (m *RoomManager) List() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown stops every room loop and closes all client connections.
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, mr := range m.rooms {
		mr.room.Close()
		mr.hub.closeAll()
		delete(m.rooms, id)
	}
}
