package game

import (
	"time"

	"github.com/google/uuid"
)

// ViewCard is a card as shown to one observer. Cards the observer may
// not see keep their stable ID but carry no rank, suit, or value.
type ViewCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"`
	Rank  Rank      `json:"rank,omitempty"`
	Suit  Suit      `json:"suit,omitempty"`
	Value int       `json:"value,omitempty"`
}

// ViewPlayer is one player's seat as shown to the observer.
type ViewPlayer struct {
	PlayerID       uuid.UUID  `json:"playerId"`
	Name           string     `json:"name"`
	Hand           []ViewCard `json:"hand"`
	PendingDrawn   *ViewCard  `json:"pendingDrawn,omitempty"`
	HasCalledCheck bool       `json:"hasCalledCheck"`
	IsLocked       bool       `json:"isLocked"`
	IsConnected    bool       `json:"isConnected"`
	Forfeited      bool       `json:"forfeited"`
	Score          int        `json:"score"`
	NumMatches     int        `json:"numMatches"`
	NumPenalties   int        `json:"numPenalties"`
	IsCurrentTurn  bool       `json:"isCurrentTurn"`
}

// ViewMatching is the public shape of an open matching opportunity.
type ViewMatching struct {
	CardToMatch       Card        `json:"cardToMatch"`
	OriginalPlayerID  uuid.UUID   `json:"originalPlayerId"`
	PotentialMatchers []uuid.UUID `json:"potentialMatchers"`
}

// PlayerView is the full state projection for one observer. It never
// contains another player's card faces; ability peeks surface through
// the observer's own hand/target cells while their reveal is live.
type PlayerView struct {
	GameID          uuid.UUID        `json:"gameId"`
	Phase           string           `json:"phase"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	GameMasterID    uuid.UUID        `json:"gameMasterId"`
	DeckSize        int              `json:"deckSize"`
	DiscardSize     int              `json:"discardSize"`
	DiscardTop      *Card            `json:"discardTop,omitempty"`
	DiscardSealed   bool             `json:"discardSealed"`
	Players         []ViewPlayer     `json:"players"`
	Matching        *ViewMatching    `json:"matching,omitempty"`
	PendingAbility  *PendingAbility  `json:"pendingAbility,omitempty"`
	CheckCallerID   uuid.UUID        `json:"checkCallerId,omitempty"`
	FinalTurnsTaken int              `json:"finalTurnsTaken"`
	Result          *RoundResult     `json:"result,omitempty"`
}

// ViewFor builds the projection for one observer at the given time.
// Hidden information rules: other players' hands become opaque
// placeholders, a pending drawn card is shown only to its holder, the
// deck is reduced to a count, and peek reveals are visible only to the
// peeking player until their expiry.
func (g *Game) ViewFor(observerID uuid.UUID, now time.Time) PlayerView {
	v := PlayerView{
		GameID:          g.ID,
		Phase:           g.Phase.Name(),
		CurrentPlayerID: g.CurrentPlayerID,
		GameMasterID:    g.GameMasterID,
		DeckSize:        len(g.Deck),
		DiscardSize:     len(g.DiscardPile),
		DiscardSealed:   g.DiscardSealed,
		CheckCallerID:   g.CheckCallerID,
		FinalTurnsTaken: g.FinalTurnsTaken,
		Result:          g.Result,
	}
	if len(g.DiscardPile) > 0 {
		top := g.DiscardPile[0]
		v.DiscardTop = &top
	}
	if g.Matching != nil {
		m := ViewMatching{
			CardToMatch:       g.Matching.CardToMatch,
			OriginalPlayerID:  g.Matching.OriginalPlayerID,
			PotentialMatchers: append([]uuid.UUID(nil), g.Matching.PotentialMatchers...),
		}
		v.Matching = &m
	}
	if len(g.PendingAbilities) > 0 {
		head := g.PendingAbilities[0]
		v.PendingAbility = &head
	}

	// Forfeited players keep their rotation slot and stay visible.
	v.Players = make([]ViewPlayer, 0, len(g.TurnOrder))
	for _, id := range g.TurnOrder {
		if p := g.Players[id]; p != nil {
			v.Players = append(v.Players, g.viewPlayer(p, observerID, now))
		}
	}
	return v
}

func (g *Game) viewPlayer(p *PlayerState, observerID uuid.UUID, now time.Time) ViewPlayer {
	isSelf := p.ID == observerID
	vp := ViewPlayer{
		PlayerID:       p.ID,
		Name:           p.Name,
		HasCalledCheck: p.HasCalledCheck,
		IsLocked:       p.IsLocked,
		IsConnected:    p.IsConnected,
		Forfeited:      p.Forfeited,
		Score:          p.Score,
		NumMatches:     p.NumMatches,
		NumPenalties:   p.NumPenalties,
		IsCurrentTurn:  p.ID == g.CurrentPlayerID,
	}

	// Own cards are face-down too: this is a memory game. Only a live
	// reveal (initial peek or ability peek) shows a face.
	vp.Hand = make([]ViewCard, len(p.Hand))
	for i, c := range p.Hand {
		if g.revealLive(observerID, CardRef{PlayerID: p.ID, CardIndex: i}, now) {
			vp.Hand[i] = ViewCard{ID: c.ID, Known: true, Rank: c.Rank, Suit: c.Suit, Value: c.Value()}
		} else {
			vp.Hand[i] = ViewCard{ID: c.ID}
		}
	}

	if p.PendingDrawn != nil {
		if isSelf {
			c := p.PendingDrawn.Card
			vp.PendingDrawn = &ViewCard{ID: c.ID, Known: true, Rank: c.Rank, Suit: c.Suit, Value: c.Value()}
		} else {
			vp.PendingDrawn = &ViewCard{ID: p.PendingDrawn.Card.ID}
		}
	}
	return vp
}

// revealLive reports whether the observer holds an unexpired reveal for
// the given cell.
func (g *Game) revealLive(observerID uuid.UUID, target CardRef, now time.Time) bool {
	for _, r := range g.reveals {
		if r.ViewerID == observerID && r.Target == target && now.Before(r.ExpiresAt) {
			return true
		}
	}
	return false
}

// dropRevealsAt discards reveals addressed to cells whose occupant
// changed; a stale reveal would expose a card its viewer never saw.
func (g *Game) dropRevealsAt(refs ...CardRef) {
	kept := g.reveals[:0]
	for _, r := range g.reveals {
		hit := false
		for _, ref := range refs {
			if r.Target == ref {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, r)
		}
	}
	g.reveals = kept
}

// dropRevealsFrom discards reveals into playerID's hand at or beyond
// index; removing a card shifts every later cell down.
func (g *Game) dropRevealsFrom(playerID uuid.UUID, index int) {
	kept := g.reveals[:0]
	for _, r := range g.reveals {
		if r.Target.PlayerID == playerID && r.Target.CardIndex >= index {
			continue
		}
		kept = append(kept, r)
	}
	g.reveals = kept
}

// PruneReveals drops expired reveals. The room loop calls this
// periodically so stale sight does not linger in memory.
func (g *Game) PruneReveals(now time.Time) {
	kept := g.reveals[:0]
	for _, r := range g.reveals {
		if now.Before(r.ExpiresAt) {
			kept = append(kept, r)
		}
	}
	g.reveals = kept
}
