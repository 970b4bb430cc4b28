package game

import "github.com/google/uuid"

// DrawSource tags where a pending drawn card came from.
type DrawSource string

const (
	DrawFromDeckSource    DrawSource = "deck"
	DrawFromDiscardSource DrawSource = "discard"
)

// PendingDraw is the single card a player may hold between drawing and
// resolving (discard or swap).
type PendingDraw struct {
	Card   Card
	Source DrawSource
}

// PlayerState is the per-player mutable record inside a game.
type PlayerState struct {
	ID   uuid.UUID
	Name string

	// Hand order matters: swap and match operations are index-addressed.
	Hand         []Card
	PendingDrawn *PendingDraw

	IsReadyForInitialPeek   bool
	HasCompletedInitialPeek bool
	HasCalledCheck          bool

	// IsLocked is monotonic within a round: set on calling check or
	// emptying the hand, cleared only by a round reset.
	IsLocked bool

	IsConnected bool
	Forfeited   bool
	SessionID   string

	// Score accumulates across rounds.
	Score        int
	NumMatches   int
	NumPenalties int

	// disconnects counts disconnect events this round, against the
	// flapping cap.
	disconnects int
}

// HandValue sums the point values of the player's hand.
func (p *PlayerState) HandValue() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Value()
	}
	return total
}

// CanAct reports whether the player may take normal actions at all.
func (p *PlayerState) CanAct() bool {
	return !p.IsLocked && !p.Forfeited
}
