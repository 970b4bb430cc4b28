package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// MaxPlayers bounds the number of seats in one room.
const MaxPlayers = 6

// MinPlayers is the minimum needed to start a round.
const MinPlayers = 2

// HandSize is the number of cards dealt to each player.
const HandSize = 4

// InitialPeekCount is how many of their own cards a player sees during
// the initial peek (hand indices 0..InitialPeekCount-1).
const InitialPeekCount = 2

// CheckPenalty is the fixed score added to a checker who did not win.
const CheckPenalty = 10

// MaxDisconnects is the per-round cap on disconnect events for one
// player before the game enters the failed state.
const MaxDisconnects = 3

// AbilitySource orders simultaneously created ability obligations:
// stack (matcher's card) resolves before stackSecondOfPair (the original
// discarder's card); discard tags a lone discarder ability.
type AbilitySource string

const (
	SourceStack             AbilitySource = "stack"
	SourceStackSecondOfPair AbilitySource = "stackSecondOfPair"
	SourceDiscard           AbilitySource = "discard"
)

// AbilityStage is the per-entry sub-protocol position.
type AbilityStage string

const (
	AbilityStagePeek AbilityStage = "peek"
	AbilityStageSwap AbilityStage = "swap"
)

// PendingAbility is one queued special-ability obligation.
type PendingAbility struct {
	PlayerID uuid.UUID     `json:"playerId"`
	Card     Card          `json:"card"`
	Source   AbilitySource `json:"source"`
	Stage    AbilityStage  `json:"stage"`
}

// MatchingOpportunity tracks an open matching window after a discard.
type MatchingOpportunity struct {
	CardToMatch      Card
	OriginalPlayerID uuid.UUID
	// PotentialMatchers holds players who have not yet acted on this
	// opportunity; acting (match or pass) removes them.
	PotentialMatchers []uuid.UUID
}

// Reveal grants one player temporary sight of one card cell.
type Reveal struct {
	ViewerID  uuid.UUID
	Target    CardRef
	Card      Card
	ExpiresAt time.Time
}

// LogRecord is one entry of the in-memory action log.
type LogRecord struct {
	Index     int                    `json:"index"`
	ActorID   uuid.UUID              `json:"actorId"`
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Config carries the tunable durations of a game. All stages that are
// time-bounded take their budget from here.
type Config struct {
	TurnTimeout        time.Duration
	MatchingTimeout    time.Duration
	InitialPeekTimeout time.Duration
	DisconnectGrace    time.Duration
	PeekRevealDuration time.Duration
}

// DefaultConfig mirrors the standard table settings.
func DefaultConfig() Config {
	return Config{
		TurnTimeout:        30 * time.Second,
		MatchingTimeout:    10 * time.Second,
		InitialPeekTimeout: 15 * time.Second,
		DisconnectGrace:    60 * time.Second,
		PeekRevealDuration: 10 * time.Second,
	}
}

type timerKey struct {
	Kind     TimerKind
	PlayerID uuid.UUID
}

// RoundResult is the scoring engine's output snapshot.
type RoundResult struct {
	// WinnerID is uuid.Nil when the round is a draw.
	WinnerID  uuid.UUID                      `json:"winnerId"`
	PerPlayer map[uuid.UUID]PlayerRoundScore `json:"perPlayer"`
}

// PlayerRoundScore is one player's line in the round result.
type PlayerRoundScore struct {
	HandValue       int `json:"handValue"`
	CumulativeScore int `json:"cumulativeScore"`
}

// Game is the single source of truth for one room. It is owned by
// exactly one room loop; every mutation happens inside Apply, which runs
// one event to completion before the next is accepted.
type Game struct {
	ID     uuid.UUID
	Config Config

	Players   map[uuid.UUID]*PlayerState
	TurnOrder []uuid.UUID

	// Deck pops from the end; DiscardPile keeps its most recent card at
	// index 0.
	Deck          []Card
	DiscardPile   []Card
	DiscardSealed bool

	Phase           Phase
	CurrentPlayerID uuid.UUID

	Matching         *MatchingOpportunity
	PendingAbilities []PendingAbility

	// CheckCallerID, once set, is never overwritten within a round.
	CheckCallerID   uuid.UUID
	FinalTurnsTaken int
	finalLapStarted bool

	GameMasterID uuid.UUID
	Result       *RoundResult

	reveals   []Reveal
	ActionLog []LogRecord

	timerGens map[timerKey]uint64
	rng       *rand.Rand
	now       func() time.Time
}

// NewGame creates an empty game context for a freshly created room.
func NewGame(id uuid.UUID, cfg Config, seed int64) *Game {
	return &Game{
		ID:        id,
		Config:    cfg,
		Players:   make(map[uuid.UUID]*PlayerState),
		Phase:     PhaseAwaitingPlayers{},
		timerGens: make(map[timerKey]uint64),
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
	}
}

// player returns the registered player or nil.
func (g *Game) player(id uuid.UUID) *PlayerState {
	return g.Players[id]
}

// appendLog records an action in the in-memory log.
func (g *Game) appendLog(actorID uuid.UUID, typ string, payload map[string]interface{}) {
	g.ActionLog = append(g.ActionLog, LogRecord{
		Index:     len(g.ActionLog) + 1,
		ActorID:   actorID,
		Type:      typ,
		Payload:   payload,
		Timestamp: g.now().UnixMilli(),
	})
}

// nextTimerGen supersedes any outstanding timer for (kind, player) and
// returns the fresh generation token.
func (g *Game) nextTimerGen(kind TimerKind, playerID uuid.UUID) uint64 {
	k := timerKey{Kind: kind, PlayerID: playerID}
	g.timerGens[k]++
	return g.timerGens[k]
}

// timerGenCurrent reports whether gen is the live token for (kind, player).
func (g *Game) timerGenCurrent(kind TimerKind, playerID uuid.UUID, gen uint64) bool {
	return g.timerGens[timerKey{Kind: kind, PlayerID: playerID}] == gen
}

// startTimer builds the effect for a fresh timer of the given kind.
func (g *Game) startTimer(kind TimerKind, playerID uuid.UUID, d time.Duration) Effect {
	return EffectStartTimer{
		Kind:       kind,
		PlayerID:   playerID,
		Generation: g.nextTimerGen(kind, playerID),
		Duration:   d,
	}
}

// cancelTimer invalidates the live timer of the given kind and builds
// the corresponding effect.
func (g *Game) cancelTimer(kind TimerKind, playerID uuid.UUID) Effect {
	g.nextTimerGen(kind, playerID)
	return EffectCancelTimer{Kind: kind, PlayerID: playerID}
}

// activePlayerCount counts players still in the turn rotation.
func (g *Game) activePlayerCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Forfeited {
			n++
		}
	}
	return n
}
