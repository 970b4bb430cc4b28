package game

import (
	"fmt"

	"github.com/google/uuid"
)

// enqueueAbility appends one special-ability obligation. Callers append
// in priority order when a match creates two at once: the matcher's card
// (stack) before the original discarder's (stackSecondOfPair).
func (g *Game) enqueueAbility(playerID uuid.UUID, card Card, source AbilitySource) {
	stage := AbilityStageSwap
	if card.Rank.PeekTargetCount() > 0 {
		stage = AbilityStagePeek
	}
	g.PendingAbilities = append(g.PendingAbilities, PendingAbility{
		PlayerID: playerID,
		Card:     card,
		Source:   source,
		Stage:    stage,
	})
}

// offerHeadAbility announces the head obligation and arms its timer.
// Entries owned by players who can no longer act (locked mid-stage, or
// forfeited) are skipped outright.
func (g *Game) offerHeadAbility() []Effect {
	for len(g.PendingAbilities) > 0 {
		head := g.PendingAbilities[0]
		owner := g.player(head.PlayerID)
		if owner == nil || owner.IsLocked || owner.Forfeited {
			g.PendingAbilities = g.PendingAbilities[1:]
			g.appendLog(head.PlayerID, "ability_auto_skipped", nil)
			continue
		}
		g.appendLog(head.PlayerID, "ability_offered", map[string]interface{}{
			"rank": head.Card.Rank, "source": head.Source,
		})
		effects := []Effect{
			EffectLogPublic{Type: "ability_pending", Payload: map[string]interface{}{
				"playerId": head.PlayerID, "card": head.Card, "stage": head.Stage,
			}},
		}
		if !owner.IsConnected {
			g.Phase = PhaseRecovering{Reason: RecoveryPlayerDisconnected, Parked: g.Phase}
			return append(effects, EffectBroadcastState{})
		}
		return append(effects,
			g.startTimer(TimerTurn, uuid.Nil, g.Config.TurnTimeout),
			EffectBroadcastState{},
		)
	}
	// Queue drained.
	return g.advanceAfterTurn(g.CurrentPlayerID)
}

// dequeueAbility drops the head entry (resolved, skipped, or timed out)
// and moves to the next, or leaves the phase once the queue is empty.
func (g *Game) dequeueAbility() []Effect {
	g.PendingAbilities = g.PendingAbilities[1:]
	effects := []Effect{g.cancelTimer(TimerTurn, uuid.Nil)}
	if len(g.PendingAbilities) > 0 {
		return append(effects, g.offerHeadAbility()...)
	}
	return append(effects, g.advanceAfterTurn(g.CurrentPlayerID)...)
}

func (g *Game) applyResolveAbility(a ActionResolveAbility) []Effect {
	if _, ok := g.Phase.(PhaseAbilityResolution); !ok {
		return g.reject(a.PlayerID, "no ability awaiting resolution")
	}
	if len(g.PendingAbilities) == 0 {
		return g.reject(a.PlayerID, "no ability awaiting resolution")
	}
	head := &g.PendingAbilities[0]
	if head.PlayerID != a.PlayerID {
		return g.reject(a.PlayerID, "the pending ability is not yours")
	}
	if err := a.Resolution.Validate(); err != nil {
		return g.reject(a.PlayerID, err.Error())
	}

	switch a.Resolution.Type {
	case ResolutionPeek:
		return g.resolvePeek(head, a.Resolution.PeekTargets)
	case ResolutionSkipPeek:
		if head.Stage != AbilityStagePeek {
			return g.reject(a.PlayerID, "no peek stage to skip")
		}
		head.Stage = AbilityStageSwap
		g.appendLog(a.PlayerID, "ability_peek_skipped", nil)
		return []Effect{
			EffectLogPublic{Type: "ability_peek_skipped", Payload: map[string]interface{}{
				"playerId": a.PlayerID,
			}},
			EffectBroadcastState{},
		}
	case ResolutionSwap:
		return g.resolveSwap(head, a.Resolution.SwapTargets)
	case ResolutionSkipSwap:
		if head.Stage != AbilityStageSwap {
			return g.reject(a.PlayerID, "ability is still in its peek stage")
		}
		g.appendLog(a.PlayerID, "ability_swap_skipped", nil)
		effects := []Effect{EffectLogPublic{Type: "ability_skipped", Payload: map[string]interface{}{
			"playerId": a.PlayerID,
		}}}
		return append(effects, g.dequeueAbility()...)
	}
	return g.reject(a.PlayerID, "unknown resolution")
}

// targetCard validates a card reference against hands and lock state.
func (g *Game) targetCard(ref CardRef) (Card, error) {
	t := g.player(ref.PlayerID)
	if t == nil || t.Forfeited {
		return Card{}, fmt.Errorf("unknown target player")
	}
	if t.IsLocked {
		return Card{}, fmt.Errorf("cannot target a locked player's card")
	}
	if ref.CardIndex < 0 || ref.CardIndex >= len(t.Hand) {
		return Card{}, fmt.Errorf("target index out of bounds")
	}
	return t.Hand[ref.CardIndex], nil
}

// resolvePeek advances a King/Queen ability from its peek stage to its
// swap stage, revealing the targets to the acting player only.
func (g *Game) resolvePeek(head *PendingAbility, targets []CardRef) []Effect {
	if head.Stage != AbilityStagePeek {
		return g.reject(head.PlayerID, "ability has no peek stage")
	}
	want := head.Card.Rank.PeekTargetCount()
	if len(targets) != want {
		return g.reject(head.PlayerID, fmt.Sprintf("%s requires exactly %d peek targets", head.Card.Rank, want))
	}

	cards := make([]Card, len(targets))
	for i, ref := range targets {
		c, err := g.targetCard(ref)
		if err != nil {
			return g.reject(head.PlayerID, err.Error())
		}
		cards[i] = c
	}

	expiry := g.now().Add(g.Config.PeekRevealDuration)
	revealed := make([]map[string]interface{}, len(targets))
	for i, ref := range targets {
		g.reveals = append(g.reveals, Reveal{
			ViewerID:  head.PlayerID,
			Target:    ref,
			Card:      cards[i],
			ExpiresAt: expiry,
		})
		revealed[i] = map[string]interface{}{"target": ref, "card": cards[i]}
	}

	head.Stage = AbilityStageSwap
	g.appendLog(head.PlayerID, "ability_peek", map[string]interface{}{"targets": targets})

	return []Effect{
		EffectLogPublic{Type: "ability_peek", Payload: map[string]interface{}{
			"playerId": head.PlayerID, "targets": targets,
		}},
		EffectLogPrivate{PlayerID: head.PlayerID, Type: "ability_peek_result", Payload: map[string]interface{}{
			"revealed": revealed,
		}},
		EffectBroadcastState{},
	}
}

// resolveSwap performs the two-card swap and retires the obligation.
func (g *Game) resolveSwap(head *PendingAbility, targets []CardRef) []Effect {
	if head.Stage != AbilityStageSwap {
		return g.reject(head.PlayerID, "ability is still in its peek stage")
	}
	if _, err := g.targetCard(targets[0]); err != nil {
		return g.reject(head.PlayerID, err.Error())
	}
	if _, err := g.targetCard(targets[1]); err != nil {
		return g.reject(head.PlayerID, err.Error())
	}

	a := g.Players[targets[0].PlayerID]
	b := g.Players[targets[1].PlayerID]
	a.Hand[targets[0].CardIndex], b.Hand[targets[1].CardIndex] =
		b.Hand[targets[1].CardIndex], a.Hand[targets[0].CardIndex]
	g.dropRevealsAt(targets[0], targets[1])

	actorID := head.PlayerID
	g.appendLog(actorID, "ability_swap", map[string]interface{}{"targets": targets})

	effects := []Effect{EffectLogPublic{Type: "ability_swap", Payload: map[string]interface{}{
		"playerId": actorID, "targets": targets,
	}}}
	return append(effects, g.dequeueAbility()...)
}
