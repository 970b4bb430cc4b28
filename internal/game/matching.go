package game

import "github.com/google/uuid"

// eligibleMatchers lists every player allowed to act on a fresh matching
// opportunity: connected, not locked, no check called, and not the
// discarder themselves. The check caller is locked by definition, so
// the final-turns exclusion falls out of the lock rule.
func (g *Game) eligibleMatchers(discarderID uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for _, id := range g.TurnOrder {
		p := g.Players[id]
		if id == discarderID {
			continue
		}
		if p == nil || p.IsLocked || p.HasCalledCheck || p.Forfeited || !p.IsConnected {
			continue
		}
		out = append(out, id)
	}
	return out
}

// removeMatcher marks a player's participation in the open opportunity
// as concluded. Returns false if the player was not an undecided matcher.
func (g *Game) removeMatcher(playerID uuid.UUID) bool {
	if g.Matching == nil {
		return false
	}
	for i, id := range g.Matching.PotentialMatchers {
		if id == playerID {
			g.Matching.PotentialMatchers = append(
				g.Matching.PotentialMatchers[:i],
				g.Matching.PotentialMatchers[i+1:]...,
			)
			return true
		}
	}
	return false
}

func (g *Game) applyAttemptMatch(a ActionAttemptMatch) []Effect {
	if _, ok := g.Phase.(PhaseMatching); !ok {
		return g.reject(a.PlayerID, "no matching opportunity open")
	}
	p := g.player(a.PlayerID)
	if p == nil || p.IsLocked || p.Forfeited {
		return g.reject(a.PlayerID, "player may not match")
	}
	if !g.matcherPending(a.PlayerID) {
		return g.reject(a.PlayerID, "you have already acted on this opportunity")
	}
	if a.HandIndex < 0 || a.HandIndex >= len(p.Hand) {
		return g.reject(a.PlayerID, "hand index out of bounds")
	}

	attempted := p.Hand[a.HandIndex]
	g.removeMatcher(a.PlayerID)

	if attempted.Rank != g.Matching.CardToMatch.Rank {
		return g.failMatch(p, attempted)
	}
	return g.succeedMatch(p, a.HandIndex, attempted)
}

func (g *Game) matcherPending(playerID uuid.UUID) bool {
	if g.Matching == nil {
		return false
	}
	for _, id := range g.Matching.PotentialMatchers {
		if id == playerID {
			return true
		}
	}
	return false
}

// succeedMatch moves the matched card onto the discard pile, seals the
// pile, and enqueues ability obligations when two special cards met:
// the matcher's resolves first, the original discarder's second.
func (g *Game) succeedMatch(p *PlayerState, handIndex int, matched Card) []Effect {
	original := g.Matching.CardToMatch
	originalPlayerID := g.Matching.OriginalPlayerID

	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	g.dropRevealsFrom(p.ID, handIndex)
	g.pushDiscard(matched)
	g.DiscardSealed = true
	p.NumMatches++
	g.appendLog(p.ID, "match_success", map[string]interface{}{"cardId": matched.ID})

	effects := []Effect{EffectLogPublic{Type: "match_success", Payload: map[string]interface{}{
		"playerId": p.ID, "card": matched,
	}}}

	if matched.Rank.IsSpecial() && original.Rank.IsSpecial() {
		g.enqueueAbility(p.ID, matched, SourceStack)
		g.enqueueAbility(originalPlayerID, original, SourceStackSecondOfPair)
	}

	// A match that empties the hand is an auto-check.
	if len(p.Hand) == 0 {
		p.IsLocked = true
		if g.CheckCallerID == uuid.Nil {
			p.HasCalledCheck = true
			g.CheckCallerID = p.ID
		}
		g.appendLog(p.ID, "auto_check", nil)
		effects = append(effects, EffectLogPublic{Type: "player_emptied_hand", Payload: map[string]interface{}{
			"playerId": p.ID,
		}})
	}

	if len(g.Matching.PotentialMatchers) == 0 {
		effects = append(effects, g.cancelTimer(TimerMatching, uuid.Nil))
		return append(effects, g.afterMatchingConcluded()...)
	}
	return append(effects, EffectBroadcastState{})
}

// failMatch charges the attempting player one penalty card from the
// deck (a no-op when the deck is empty) and ends their participation.
func (g *Game) failMatch(p *PlayerState, attempted Card) []Effect {
	p.NumPenalties++
	g.appendLog(p.ID, "match_fail", map[string]interface{}{"cardId": attempted.ID})

	effects := []Effect{EffectLogPublic{Type: "match_fail", Payload: map[string]interface{}{
		"playerId": p.ID,
	}}}
	if len(g.Deck) > 0 {
		penalty := g.popDeck()
		p.Hand = append(p.Hand, penalty)
		effects = append(effects,
			EffectLogPublic{Type: "match_penalty", Payload: map[string]interface{}{"playerId": p.ID}},
			EffectLogPrivate{PlayerID: p.ID, Type: "penalty_card", Payload: map[string]interface{}{
				"card": penalty,
			}},
		)
	}

	if len(g.Matching.PotentialMatchers) == 0 {
		effects = append(effects, g.cancelTimer(TimerMatching, uuid.Nil))
		return append(effects, g.afterMatchingConcluded()...)
	}
	return append(effects, EffectBroadcastState{})
}

func (g *Game) applyPassOnMatch(a ActionPassOnMatch) []Effect {
	if _, ok := g.Phase.(PhaseMatching); !ok {
		return g.reject(a.PlayerID, "no matching opportunity open")
	}
	if !g.matcherPending(a.PlayerID) {
		return g.reject(a.PlayerID, "you have already acted on this opportunity")
	}
	g.removeMatcher(a.PlayerID)
	g.appendLog(a.PlayerID, "match_pass", nil)

	effects := []Effect{EffectLogPublic{Type: "match_pass", Payload: map[string]interface{}{
		"playerId": a.PlayerID,
	}}}
	if len(g.Matching.PotentialMatchers) == 0 {
		effects = append(effects, g.cancelTimer(TimerMatching, uuid.Nil))
		return append(effects, g.afterMatchingConcluded()...)
	}
	return append(effects, EffectBroadcastState{})
}

// handleMatchingTimeout treats every undecided matcher as an implicit
// pass and concludes the stage.
func (g *Game) handleMatchingTimeout() []Effect {
	if _, ok := g.Phase.(PhaseMatching); !ok {
		return nil
	}
	g.appendLog(uuid.Nil, "matching_timeout", nil)
	g.Matching.PotentialMatchers = nil
	effects := []Effect{EffectLogPublic{Type: "matching_timeout", Payload: nil}}
	return append(effects, g.afterMatchingConcluded()...)
}

// afterMatchingConcluded routes out of the matching stage: into ability
// resolution when obligations are queued, otherwise onward in the turn
// rotation. A special card that nobody matched grants its discarder's
// lone ability here; a matched pair enqueued its two entries at match
// time instead.
func (g *Game) afterMatchingConcluded() []Effect {
	if m := g.Matching; m != nil {
		if !g.DiscardSealed && m.CardToMatch.Rank.IsSpecial() {
			g.enqueueAbility(m.OriginalPlayerID, m.CardToMatch, SourceDiscard)
		}
	}
	g.Matching = nil
	if len(g.PendingAbilities) > 0 {
		g.Phase = PhaseAbilityResolution{}
		return g.offerHeadAbility()
	}
	return g.advanceAfterTurn(g.CurrentPlayerID)
}
