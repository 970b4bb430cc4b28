// Package room owns the per-room event loop. Exactly one goroutine per
// room consumes events and applies them to the game; timers and the
// transport layer only ever inject events into that stream, so the game
// context is never touched concurrently.
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
)

// Message is one outbound structured log event for players.
type Message struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Sink receives the room's outbound signals. The websocket layer
// implements it; tests use a recording fake.
type Sink interface {
	Public(msg Message)
	Private(playerID uuid.UUID, msg Message)
	Reject(playerID uuid.UUID, reason string)
	State(views map[uuid.UUID]game.PlayerView)
	GameOver(result *game.RoundResult)
}

// ErrClosed is returned by Submit after the room has shut down.
var ErrClosed = errors.New("room: closed")

type timerKey struct {
	Kind     game.TimerKind
	PlayerID uuid.UUID
}

// Room drives one game. All game mutations happen on the Run goroutine.
type Room struct {
	ID uuid.UUID

	game *game.Game
	sink Sink
	log  *logrus.Entry

	events chan game.Event
	done   chan struct{}
	once   sync.Once

	// timers is touched only from the Run goroutine; expiries do not
	// mutate game state directly, they re-enter through the channel.
	timers map[timerKey]*time.Timer
}

// New creates a room around an existing game context.
func New(g *game.Game, sink Sink, logger *logrus.Logger) *Room {
	return &Room{
		ID:     g.ID,
		game:   g,
		sink:   sink,
		log:    logger.WithField("room", g.ID),
		events: make(chan game.Event, 64),
		done:   make(chan struct{}),
		timers: make(map[timerKey]*time.Timer),
	}
}

// Submit queues one event for serialized processing.
func (r *Room) Submit(ev game.Event) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.events <- ev:
		return nil
	case <-r.done:
		return ErrClosed
	}
}

// Close stops the loop and releases all outstanding timers.
func (r *Room) Close() {
	r.once.Do(func() { close(r.done) })
}

// Run consumes events until the room closes. Each event is fully
// processed in full (validation, mutation, effect execution) before the next.
func (r *Room) Run() {
	defer func() {
		for k, t := range r.timers {
			t.Stop()
			delete(r.timers, k)
		}
	}()
	for {
		select {
		case <-r.done:
			return
		case ev := <-r.events:
			r.dispatch(ev)
		}
	}
}

func (r *Room) dispatch(ev game.Event) {
	effects := r.game.Apply(ev)
	for _, eff := range effects {
		r.execute(eff)
	}
}

func (r *Room) execute(eff game.Effect) {
	switch e := eff.(type) {
	case game.EffectLogPublic:
		r.log.WithField("event", e.Type).Debug("public game event")
		r.sink.Public(Message{Type: e.Type, Payload: e.Payload})
	case game.EffectLogPrivate:
		r.log.WithFields(logrus.Fields{"event": e.Type, "player": e.PlayerID}).Debug("private game event")
		r.sink.Private(e.PlayerID, Message{Type: e.Type, Payload: e.Payload})
	case game.EffectReject:
		r.log.WithFields(logrus.Fields{"player": e.PlayerID, "reason": e.Reason}).Debug("action rejected")
		r.sink.Reject(e.PlayerID, e.Reason)
	case game.EffectBroadcastState:
		r.broadcastState()
	case game.EffectStartTimer:
		r.startTimer(e)
	case game.EffectCancelTimer:
		r.stopTimer(timerKey{Kind: e.Kind, PlayerID: e.PlayerID})
	case game.EffectGameOver:
		r.log.WithField("winner", e.Result.WinnerID).Info("round over")
		r.sink.GameOver(e.Result)
	}
}

func (r *Room) broadcastState() {
	now := time.Now()
	r.game.PruneReveals(now)
	views := make(map[uuid.UUID]game.PlayerView, len(r.game.Players))
	for id := range r.game.Players {
		views[id] = r.game.ViewFor(id, now)
	}
	r.sink.State(views)
}

// startTimer schedules the delayed task. The generation token travels
// with the expiry event; the game ignores a firing whose token was
// superseded, so replacing the map entry here is just housekeeping.
func (r *Room) startTimer(e game.EffectStartTimer) {
	k := timerKey{Kind: e.Kind, PlayerID: e.PlayerID}
	r.stopTimer(k)
	fired := game.EventTimerFired{Kind: e.Kind, PlayerID: e.PlayerID, Generation: e.Generation}
	r.timers[k] = time.AfterFunc(e.Duration, func() {
		if err := r.Submit(fired); err != nil && !errors.Is(err, ErrClosed) {
			r.log.WithError(err).Warn("timer event dropped")
		}
	})
}

func (r *Room) stopTimer(k timerKey) {
	if t, ok := r.timers[k]; ok {
		t.Stop()
		delete(r.timers, k)
	}
}
