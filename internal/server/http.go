// Package server exposes the HTTP and websocket surface of the game
// service: room lifecycle over REST, gameplay over a per-room socket.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/auth"
	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
)

// Server wires the router, the room manager and session auth together.
type Server struct {
	log    *logrus.Logger
	rooms  *RoomManager
	signer *auth.Signer
}

func New(log *logrus.Logger, rooms *RoomManager, signer *auth.Signer) *Server {
	return &Server{log: log, rooms: rooms, signer: signer}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/rooms", s.handleCreateRoom)
	r.GET("/rooms", s.handleListRooms)
	r.POST("/rooms/:id/join", s.handleJoinRoom)
	r.GET("/rooms/:id/ws", s.handleWebsocket)

	return r
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	mr := s.rooms.Create()
	c.JSON(http.StatusCreated, gin.H{"roomId": mr.id})
}

func (s *Server) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.rooms.List()})
}

type joinRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	mr, err := s.rooms.Get(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	playerID := uuid.New()
	if err := mr.room.Submit(game.ActionJoin{PlayerID: playerID, Name: req.Name}); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "room is closed"})
		return
	}
	token, err := s.signer.CreateSession(roomID, playerID)
	if err != nil {
		s.log.WithError(err).Error("create session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roomId":   roomID,
		"playerId": playerID,
		"token":    token,
	})
}

// handleWebsocket upgrades the connection, authenticates the session
// token, and runs the read loop until the client goes away. Connection
// loss is reported to the room as a disconnect event.
func (s *Server) handleWebsocket(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	mr, err := s.rooms.Get(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	claims, err := s.signer.ParseSession(c.Query("token"))
	if err != nil || claims.RoomID != roomID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	s.servePlayer(c.Request.Context(), mr, claims.PlayerID, conn)
}

func (s *Server) servePlayer(ctx context.Context, mr *managedRoom, playerID uuid.UUID, conn *websocket.Conn) {
	cl := newClient(playerID, conn)
	mr.hub.attach(cl)
	go cl.writePump()

	sessionID := uuid.NewString()
	if err := mr.room.Submit(game.EventPlayerReconnected{PlayerID: playerID, SessionID: sessionID}); err != nil {
		mr.hub.detach(cl)
		conn.Close(websocket.StatusGoingAway, "room closed")
		return
	}
	log := s.log.WithFields(logrus.Fields{"room": mr.id, "player": playerID})
	log.Info("player socket attached")

	defer func() {
		mr.hub.detach(cl)
		conn.Close(websocket.StatusNormalClosure, "")
		// Only the player's current session generates a disconnect;
		// a displaced socket must not knock out its replacement.
		if mr.hub.current(playerID) == nil {
			if err := mr.room.Submit(game.EventPlayerDisconnected{PlayerID: playerID}); err == nil {
				log.Info("player socket detached")
			}
		}
	}()

	for {
		select {
		case <-cl.closed:
			return
		default:
		}
		_, raw, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.WithError(err).Debug("socket read failed")
			}
			return
		}
		ev, err := decodeAction(playerID, raw)
		if err != nil {
			mr.hub.Reject(playerID, err.Error())
			continue
		}
		if err := mr.room.Submit(ev); err != nil {
			return
		}
	}
}
