package game

import (
	"time"

	"github.com/google/uuid"
)

// Effect is the tagged union of side effects the reducer requests. The
// reducer never performs I/O itself; the room loop executes effects in
// order after each Apply.
type Effect interface {
	effect()
}

// EffectLogPublic is a structured log record addressed to every player.
type EffectLogPublic struct {
	Type    string
	Payload map[string]interface{}
}

// EffectLogPrivate is a structured log record addressed to one player.
type EffectLogPrivate struct {
	PlayerID uuid.UUID
	Type     string
	Payload  map[string]interface{}
}

// EffectReject surfaces a guard failure to the acting player. No state
// was mutated.
type EffectReject struct {
	PlayerID uuid.UUID
	Reason   string
}

// EffectBroadcastState asks the transport to re-project and deliver the
// state to every player.
type EffectBroadcastState struct{}

// EffectStartTimer schedules a delayed task. Any prior timer for the
// same (kind, player) pair is superseded: its generation token no longer
// matches, so a late firing is a no-op.
type EffectStartTimer struct {
	Kind       TimerKind
	PlayerID   uuid.UUID
	Generation uint64
	Duration   time.Duration
}

// EffectCancelTimer releases the scheduled task for (kind, player), if any.
type EffectCancelTimer struct {
	Kind     TimerKind
	PlayerID uuid.UUID
}

// EffectGameOver carries the scoring engine's output for the round.
type EffectGameOver struct {
	Result *RoundResult
}

func (EffectLogPublic) effect()      {}
func (EffectLogPrivate) effect()     {}
func (EffectReject) effect()         {}
func (EffectBroadcastState) effect() {}
func (EffectStartTimer) effect()     {}
func (EffectCancelTimer) effect()    {}
func (EffectGameOver) effect()       {}
