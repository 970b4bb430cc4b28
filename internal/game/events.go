package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Event is the tagged union of everything the orchestrator consumes:
// player actions submitted by the transport layer, plus synthetic system
// events (timer expiries, connectivity changes, deck recovery).
type Event interface {
	event()
}

// CardRef addresses one card cell inside some player's hand.
type CardRef struct {
	PlayerID  uuid.UUID `json:"playerId"`
	CardIndex int       `json:"cardIndex"`
}

// ---------------------------------------------------------------------------
// Player actions
// ---------------------------------------------------------------------------

// ActionJoin registers a new player while the room is awaiting players.
type ActionJoin struct {
	PlayerID uuid.UUID
	Name     string
}

// ActionStartGame lets the game master begin the round before everyone
// has declared ready.
type ActionStartGame struct {
	PlayerID uuid.UUID
}

// ActionDeclareReady marks a player ready for the initial peek.
type ActionDeclareReady struct {
	PlayerID uuid.UUID
}

// ActionAcknowledgePeek marks a player done with the initial peek.
type ActionAcknowledgePeek struct {
	PlayerID uuid.UUID
}

// ActionDrawFromDeck draws the top card of the deck.
type ActionDrawFromDeck struct {
	PlayerID uuid.UUID
}

// ActionDrawFromDiscard draws the top card of the discard pile.
type ActionDrawFromDiscard struct {
	PlayerID uuid.UUID
}

// ActionSwapAndDiscard swaps the pending drawn card into the hand at
// HandIndex and discards the card previously there.
type ActionSwapAndDiscard struct {
	PlayerID  uuid.UUID
	HandIndex int
}

// ActionDiscardDrawnCard discards the pending drawn card as-is.
type ActionDiscardDrawnCard struct {
	PlayerID uuid.UUID
}

// ActionCallCheck ends the caller's participation and starts the final lap.
type ActionCallCheck struct {
	PlayerID uuid.UUID
}

// ActionAttemptMatch plays the hand card at HandIndex against the open
// matching opportunity.
type ActionAttemptMatch struct {
	PlayerID  uuid.UUID
	HandIndex int
}

// ActionPassOnMatch declines the open matching opportunity.
type ActionPassOnMatch struct {
	PlayerID uuid.UUID
}

// ActionResolveAbility advances or skips the head pending ability.
type ActionResolveAbility struct {
	PlayerID   uuid.UUID
	Resolution AbilityResolution
}

// ActionResetRound lets the game master reset the round from scoring or
// from the failed state.
type ActionResetRound struct {
	PlayerID uuid.UUID
}

// ---------------------------------------------------------------------------
// System events
// ---------------------------------------------------------------------------

// TimerKind distinguishes the independently scheduled delayed tasks.
type TimerKind string

const (
	TimerTurn            TimerKind = "turn"
	TimerMatching        TimerKind = "matching"
	TimerInitialPeek     TimerKind = "initialPeek"
	TimerDisconnectGrace TimerKind = "disconnectGrace"
)

// EventTimerFired is injected by the timer subsystem when a delayed task
// expires. Generation must match the game's current token for the
// (kind, player) pair or the event is a no-op.
type EventTimerFired struct {
	Kind       TimerKind
	PlayerID   uuid.UUID
	Generation uint64
}

// EventPlayerDisconnected signals the transport lost a player's connection.
type EventPlayerDisconnected struct {
	PlayerID uuid.UUID
}

// EventPlayerReconnected signals a player re-attached with a new session.
type EventPlayerReconnected struct {
	PlayerID  uuid.UUID
	SessionID string
}

// EventRecoverDeck requests recovery from the deck-empty error state by
// reshuffling the discard pile (minus its top card) into the deck.
type EventRecoverDeck struct{}

func (ActionJoin) event()              {}
func (ActionStartGame) event()         {}
func (ActionDeclareReady) event()      {}
func (ActionAcknowledgePeek) event()   {}
func (ActionDrawFromDeck) event()      {}
func (ActionDrawFromDiscard) event()   {}
func (ActionSwapAndDiscard) event()    {}
func (ActionDiscardDrawnCard) event()  {}
func (ActionCallCheck) event()         {}
func (ActionAttemptMatch) event()      {}
func (ActionPassOnMatch) event()       {}
func (ActionResolveAbility) event()    {}
func (ActionResetRound) event()        {}
func (EventTimerFired) event()         {}
func (EventPlayerDisconnected) event() {}
func (EventPlayerReconnected) event()  {}
func (EventRecoverDeck) event()        {}

// ---------------------------------------------------------------------------
// Ability resolution payloads
// ---------------------------------------------------------------------------

// ResolutionType enumerates the ways an ability entry can be advanced.
type ResolutionType string

const (
	ResolutionPeek     ResolutionType = "peek"
	ResolutionSkipPeek ResolutionType = "skipPeek"
	ResolutionSwap     ResolutionType = "swap"
	ResolutionSkipSwap ResolutionType = "skipSwap"
)

// AbilityResolution carries the arguments for ActionResolveAbility.
// Validate enforces the field shape before the payload reaches the
// reducer; target legality (bounds, locks) is checked against game state
// by the reducer itself.
type AbilityResolution struct {
	Type        ResolutionType `json:"type"`
	PeekTargets []CardRef      `json:"peekTargets,omitempty"`
	SwapTargets []CardRef      `json:"swapTargets,omitempty"`
}

// Validate checks structural requirements of the resolution payload.
func (r AbilityResolution) Validate() error {
	switch r.Type {
	case ResolutionPeek:
		if len(r.PeekTargets) == 0 {
			return fmt.Errorf("peek resolution requires peek targets")
		}
		if len(r.SwapTargets) != 0 {
			return fmt.Errorf("peek resolution must not carry swap targets")
		}
	case ResolutionSwap:
		if len(r.SwapTargets) != 2 {
			return fmt.Errorf("swap resolution requires exactly 2 targets, got %d", len(r.SwapTargets))
		}
		if r.SwapTargets[0] == r.SwapTargets[1] {
			return fmt.Errorf("swap targets must be distinct")
		}
	case ResolutionSkipPeek, ResolutionSkipSwap:
		if len(r.PeekTargets) != 0 || len(r.SwapTargets) != 0 {
			return fmt.Errorf("skip resolution must not carry targets")
		}
	default:
		return fmt.Errorf("unknown resolution type %q", r.Type)
	}
	return nil
}
