package game

import "github.com/google/uuid"

func (g *Game) applyDisconnected(e EventPlayerDisconnected) []Effect {
	p := g.player(e.PlayerID)
	if p == nil || p.Forfeited || !p.IsConnected {
		return nil
	}
	p.IsConnected = false
	p.SessionID = ""
	p.disconnects++
	g.appendLog(e.PlayerID, "player_disconnected", nil)

	if p.disconnects > MaxDisconnects {
		// Flapping past the cap is unrecoverable without a reset.
		g.Phase = PhaseFailed{}
		g.appendLog(e.PlayerID, "recovery_failed", nil)
		return []Effect{
			g.cancelTimer(TimerTurn, uuid.Nil),
			g.cancelTimer(TimerMatching, uuid.Nil),
			g.cancelTimer(TimerInitialPeek, uuid.Nil),
			EffectLogPublic{Type: "game_failed", Payload: map[string]interface{}{
				"playerId": e.PlayerID, "reason": "repeated disconnects",
			}},
			EffectBroadcastState{},
		}
	}

	effects := []Effect{
		EffectLogPublic{Type: "player_disconnected", Payload: map[string]interface{}{
			"playerId": e.PlayerID,
		}},
		g.startTimer(TimerDisconnectGrace, e.PlayerID, g.Config.DisconnectGrace),
	}

	// A player holding the live turn or the head ability obligation
	// cannot be skipped safely: park the machine until they return or
	// the grace period forfeits them.
	if g.holdsActiveObligation(e.PlayerID) {
		g.Phase = PhaseRecovering{Reason: RecoveryPlayerDisconnected, Parked: g.Phase}
		effects = append(effects,
			g.cancelTimer(TimerTurn, uuid.Nil),
			EffectLogPublic{Type: "game_recovering", Payload: map[string]interface{}{
				"playerId": e.PlayerID,
			}},
		)
	}

	return append(effects, EffectBroadcastState{})
}

// holdsActiveObligation reports whether the player is the one the
// machine is currently waiting on in a turn or ability stage.
func (g *Game) holdsActiveObligation(playerID uuid.UUID) bool {
	switch g.Phase.(type) {
	case PhasePlay, PhaseFinalTurns:
		return g.CurrentPlayerID == playerID
	case PhaseAbilityResolution:
		return len(g.PendingAbilities) > 0 && g.PendingAbilities[0].PlayerID == playerID
	}
	return false
}

func (g *Game) applyReconnected(e EventPlayerReconnected) []Effect {
	p := g.player(e.PlayerID)
	if p == nil {
		return nil
	}
	if p.Forfeited {
		// Too late: the grace period already removed them from the
		// rotation. They may still observe.
		p.IsConnected = true
		p.SessionID = e.SessionID
		g.appendLog(e.PlayerID, "player_reconnected_forfeited", nil)
		return []Effect{
			EffectLogPrivate{PlayerID: e.PlayerID, Type: "forfeited", Payload: map[string]interface{}{
				"reason": "disconnect grace period expired",
			}},
			EffectBroadcastState{},
		}
	}

	p.IsConnected = true
	p.SessionID = e.SessionID
	g.appendLog(e.PlayerID, "player_reconnected", nil)

	effects := []Effect{
		g.cancelTimer(TimerDisconnectGrace, e.PlayerID),
		EffectLogPublic{Type: "player_reconnected", Payload: map[string]interface{}{
			"playerId": e.PlayerID,
		}},
	}

	// Resume exactly where the machine was parked.
	if rec, ok := g.Phase.(PhaseRecovering); ok && rec.Reason == RecoveryPlayerDisconnected {
		g.Phase = rec.Parked
		if g.holdsActiveObligation(e.PlayerID) {
			effects = append(effects, g.startTimer(TimerTurn, uuid.Nil, g.Config.TurnTimeout))
		}
		effects = append(effects, EffectLogPublic{Type: "game_resumed", Payload: map[string]interface{}{
			"playerId": e.PlayerID,
		}})
	}

	return append(effects, EffectBroadcastState{})
}

// handleGraceExpiry forfeits a player whose disconnect grace ran out,
// auto-resolving whatever they owed with the same logic a timeout uses.
func (g *Game) handleGraceExpiry(playerID uuid.UUID) []Effect {
	p := g.player(playerID)
	if p == nil || p.Forfeited || p.IsConnected {
		return nil
	}
	p.Forfeited = true
	g.appendLog(playerID, "player_forfeited", nil)

	effects := []Effect{EffectLogPublic{Type: "player_forfeited", Payload: map[string]interface{}{
		"playerId": playerID,
	}}}

	// Unpark first so the resolution below runs against the real phase.
	if rec, ok := g.Phase.(PhaseRecovering); ok && rec.Reason == RecoveryPlayerDisconnected {
		g.Phase = rec.Parked
	}

	// Auto-discard a held drawn card.
	if p.PendingDrawn != nil {
		card := p.PendingDrawn.Card
		p.PendingDrawn = nil
		g.pushDiscard(card)
		g.DiscardSealed = false
		effects = append(effects, EffectLogPublic{Type: "player_discarded", Payload: map[string]interface{}{
			"playerId": playerID, "card": card, "forced": true,
		}})
	}

	// Auto-pass a pending match.
	if _, ok := g.Phase.(PhaseMatching); ok && g.matcherPending(playerID) {
		g.removeMatcher(playerID)
		if len(g.Matching.PotentialMatchers) == 0 {
			effects = append(effects, g.cancelTimer(TimerMatching, uuid.Nil))
			effects = append(effects, g.afterMatchingConcluded()...)
		}
	}

	// Auto-skip a pending ability.
	if _, ok := g.Phase.(PhaseAbilityResolution); ok &&
		len(g.PendingAbilities) > 0 && g.PendingAbilities[0].PlayerID == playerID {
		effects = append(effects, g.dequeueAbility()...)
	}

	// A forfeited player keeps their slot in the rotation so a final
	// lap anchored on them still terminates; the turn scan passes
	// over them.
	if _, ok := g.turnStage(); ok && g.CurrentPlayerID == playerID {
		effects = append(effects, g.advanceAfterTurn(playerID)...)
	}

	// The round cannot continue with fewer than two live players.
	if g.activePlayerCount() < MinPlayers {
		if _, over := g.Phase.(PhaseScoring); !over {
			effects = append(effects, g.enterScoring()...)
		}
	}

	return append(effects, EffectBroadcastState{})
}
