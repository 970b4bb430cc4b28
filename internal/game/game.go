package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Apply processes one event to completion: validation, mutation, then
// side-effect emission as data. It is the only mutation entrypoint; the
// owning room loop serializes calls, so no locking happens here.
func (g *Game) Apply(ev Event) []Effect {
	// The failed state accepts nothing but an explicit reset.
	if _, failed := g.Phase.(PhaseFailed); failed {
		switch e := ev.(type) {
		case ActionResetRound:
			return g.applyResetRound(e)
		case EventPlayerDisconnected:
			return g.applyDisconnected(e)
		case EventPlayerReconnected:
			return g.applyReconnected(e)
		case EventTimerFired:
			return g.applyTimerFired(e)
		default:
			if pid, ok := actorOf(ev); ok {
				return g.reject(pid, "game requires a reset")
			}
			return nil
		}
	}

	// While recovering, player actions are parked; only system events
	// (and the reconnect that clears the fault) are processed.
	if rec, recovering := g.Phase.(PhaseRecovering); recovering {
		switch e := ev.(type) {
		case EventTimerFired:
			return g.applyTimerFired(e)
		case EventPlayerDisconnected:
			return g.applyDisconnected(e)
		case EventPlayerReconnected:
			return g.applyReconnected(e)
		case EventRecoverDeck:
			return g.applyRecoverDeck()
		default:
			if pid, ok := actorOf(ev); ok {
				return g.reject(pid, fmt.Sprintf("game is recovering (%s)", rec.Reason))
			}
			return nil
		}
	}

	switch e := ev.(type) {
	case ActionJoin:
		return g.applyJoin(e)
	case ActionStartGame:
		return g.applyStartGame(e)
	case ActionDeclareReady:
		return g.applyDeclareReady(e)
	case ActionAcknowledgePeek:
		return g.applyAcknowledgePeek(e)
	case ActionDrawFromDeck:
		return g.applyDrawFromDeck(e)
	case ActionDrawFromDiscard:
		return g.applyDrawFromDiscard(e)
	case ActionSwapAndDiscard:
		return g.applySwapAndDiscard(e)
	case ActionDiscardDrawnCard:
		return g.applyDiscardDrawnCard(e)
	case ActionCallCheck:
		return g.applyCallCheck(e)
	case ActionAttemptMatch:
		return g.applyAttemptMatch(e)
	case ActionPassOnMatch:
		return g.applyPassOnMatch(e)
	case ActionResolveAbility:
		return g.applyResolveAbility(e)
	case ActionResetRound:
		return g.applyResetRound(e)
	case EventTimerFired:
		return g.applyTimerFired(e)
	case EventPlayerDisconnected:
		return g.applyDisconnected(e)
	case EventPlayerReconnected:
		return g.applyReconnected(e)
	case EventRecoverDeck:
		return g.applyRecoverDeck()
	}
	return nil
}

// actorOf extracts the acting player from a player action, if any.
func actorOf(ev Event) (uuid.UUID, bool) {
	switch e := ev.(type) {
	case ActionJoin:
		return e.PlayerID, true
	case ActionStartGame:
		return e.PlayerID, true
	case ActionDeclareReady:
		return e.PlayerID, true
	case ActionAcknowledgePeek:
		return e.PlayerID, true
	case ActionDrawFromDeck:
		return e.PlayerID, true
	case ActionDrawFromDiscard:
		return e.PlayerID, true
	case ActionSwapAndDiscard:
		return e.PlayerID, true
	case ActionDiscardDrawnCard:
		return e.PlayerID, true
	case ActionCallCheck:
		return e.PlayerID, true
	case ActionAttemptMatch:
		return e.PlayerID, true
	case ActionPassOnMatch:
		return e.PlayerID, true
	case ActionResolveAbility:
		return e.PlayerID, true
	case ActionResetRound:
		return e.PlayerID, true
	}
	return uuid.Nil, false
}

// reject produces the single rejection effect for a guard failure.
// Rejected actions mutate nothing.
func (g *Game) reject(playerID uuid.UUID, reason string) []Effect {
	return []Effect{EffectReject{PlayerID: playerID, Reason: reason}}
}

// ---------------------------------------------------------------------------
// Lobby and round lifecycle
// ---------------------------------------------------------------------------

func (g *Game) applyJoin(a ActionJoin) []Effect {
	if _, ok := g.Phase.(PhaseAwaitingPlayers); !ok {
		return g.reject(a.PlayerID, "game already in progress")
	}
	if _, exists := g.Players[a.PlayerID]; exists {
		return g.reject(a.PlayerID, "already joined")
	}
	if len(g.Players) >= MaxPlayers {
		return g.reject(a.PlayerID, "room is full")
	}

	p := &PlayerState{ID: a.PlayerID, Name: a.Name, IsConnected: true}
	g.Players[a.PlayerID] = p
	g.TurnOrder = append(g.TurnOrder, a.PlayerID)
	if g.GameMasterID == uuid.Nil {
		g.GameMasterID = a.PlayerID
	}
	g.appendLog(a.PlayerID, "player_joined", map[string]interface{}{"name": a.Name})

	return []Effect{
		EffectLogPublic{Type: "player_joined", Payload: map[string]interface{}{
			"playerId": a.PlayerID, "name": a.Name,
		}},
		EffectBroadcastState{},
	}
}

func (g *Game) applyStartGame(a ActionStartGame) []Effect {
	if _, ok := g.Phase.(PhaseAwaitingPlayers); !ok {
		return g.reject(a.PlayerID, "game already in progress")
	}
	if a.PlayerID != g.GameMasterID {
		return g.reject(a.PlayerID, "only the game master may start the game")
	}
	if len(g.Players) < MinPlayers {
		return g.reject(a.PlayerID, "not enough players")
	}
	return g.dealRound()
}

func (g *Game) applyDeclareReady(a ActionDeclareReady) []Effect {
	if _, ok := g.Phase.(PhaseAwaitingPlayers); !ok {
		return g.reject(a.PlayerID, "not awaiting players")
	}
	p := g.player(a.PlayerID)
	if p == nil {
		return g.reject(a.PlayerID, "unknown player")
	}
	if p.IsReadyForInitialPeek {
		return g.reject(a.PlayerID, "already ready")
	}
	p.IsReadyForInitialPeek = true
	g.appendLog(a.PlayerID, "player_ready", nil)

	effects := []Effect{
		EffectLogPublic{Type: "player_ready", Payload: map[string]interface{}{"playerId": a.PlayerID}},
	}
	if len(g.Players) >= MinPlayers && g.allReady() {
		return append(effects, g.dealRound()...)
	}
	return append(effects, EffectBroadcastState{})
}

func (g *Game) allReady() bool {
	for _, p := range g.Players {
		if !p.Forfeited && !p.IsReadyForInitialPeek {
			return false
		}
	}
	return true
}

// dealRound reshuffles, redeals, and enters the initial peek phase.
// Cross-round state (players, cumulative scores, game master, turn
// order) is preserved; everything else resets.
func (g *Game) dealRound() []Effect {
	g.Deck = NewDeck(g.rng)
	g.DiscardPile = nil
	g.DiscardSealed = false
	g.Matching = nil
	g.PendingAbilities = nil
	g.CheckCallerID = uuid.Nil
	g.FinalTurnsTaken = 0
	g.finalLapStarted = false
	g.Result = nil
	g.reveals = nil
	g.CurrentPlayerID = uuid.Nil

	effects := []Effect{}
	peekExpiry := g.now().Add(g.Config.InitialPeekTimeout)
	for _, id := range g.TurnOrder {
		p := g.Players[id]
		if p.Forfeited {
			continue
		}
		p.Hand = make([]Card, 0, HandSize)
		for i := 0; i < HandSize; i++ {
			p.Hand = append(p.Hand, g.popDeck())
		}
		p.PendingDrawn = nil
		p.IsLocked = false
		p.HasCalledCheck = false
		p.HasCompletedInitialPeek = false
		p.IsReadyForInitialPeek = false
		p.disconnects = 0

		peeked := make([]Card, 0, InitialPeekCount)
		for i := 0; i < InitialPeekCount && i < len(p.Hand); i++ {
			g.reveals = append(g.reveals, Reveal{
				ViewerID:  id,
				Target:    CardRef{PlayerID: id, CardIndex: i},
				Card:      p.Hand[i],
				ExpiresAt: peekExpiry,
			})
			peeked = append(peeked, p.Hand[i])
		}
		effects = append(effects, EffectLogPrivate{
			PlayerID: id,
			Type:     "initial_peek",
			Payload:  map[string]interface{}{"cards": peeked},
		})
	}

	g.Phase = PhaseInitialPeek{}
	g.appendLog(uuid.Nil, "round_started", map[string]interface{}{"players": g.activePlayerCount()})

	effects = append(effects,
		EffectLogPublic{Type: "round_started", Payload: map[string]interface{}{"deckSize": len(g.Deck)}},
		g.startTimer(TimerInitialPeek, uuid.Nil, g.Config.InitialPeekTimeout),
		EffectBroadcastState{},
	)
	return effects
}

func (g *Game) applyAcknowledgePeek(a ActionAcknowledgePeek) []Effect {
	if _, ok := g.Phase.(PhaseInitialPeek); !ok {
		return g.reject(a.PlayerID, "no initial peek in progress")
	}
	p := g.player(a.PlayerID)
	if p == nil || p.Forfeited {
		return g.reject(a.PlayerID, "unknown player")
	}
	if p.HasCompletedInitialPeek {
		return g.reject(a.PlayerID, "peek already acknowledged")
	}
	p.HasCompletedInitialPeek = true
	g.appendLog(a.PlayerID, "peek_acknowledged", nil)

	for _, other := range g.Players {
		if !other.Forfeited && !other.HasCompletedInitialPeek {
			return []Effect{EffectBroadcastState{}}
		}
	}
	effects := []Effect{g.cancelTimer(TimerInitialPeek, uuid.Nil)}
	return append(effects, g.beginPlay()...)
}

// beginPlay leaves the initial peek and hands the first turn to the
// first eligible player in turn order.
func (g *Game) beginPlay() []Effect {
	g.reveals = nil
	next, ok := g.nextEligible(uuid.Nil)
	if !ok {
		return g.enterScoring()
	}
	return g.startTurn(next)
}

// ---------------------------------------------------------------------------
// Turn actions
// ---------------------------------------------------------------------------

// turnStage returns the current turn sub-stage when the phase is a turn
// phase (play or final turns).
func (g *Game) turnStage() (TurnStage, bool) {
	switch ph := g.Phase.(type) {
	case PhasePlay:
		return ph.Stage, true
	case PhaseFinalTurns:
		return ph.Stage, true
	}
	return "", false
}

func (g *Game) setTurnStage(s TurnStage) {
	switch g.Phase.(type) {
	case PhasePlay:
		g.Phase = PhasePlay{Stage: s}
	case PhaseFinalTurns:
		g.Phase = PhaseFinalTurns{Stage: s}
	}
}

// guardTurnAction validates the common preconditions for an action that
// must come from the current player at a specific turn stage.
func (g *Game) guardTurnAction(playerID uuid.UUID, want TurnStage) (*PlayerState, string) {
	stage, ok := g.turnStage()
	if !ok {
		return nil, "no turn in progress"
	}
	if stage != want {
		return nil, fmt.Sprintf("action not legal in stage %s", stage)
	}
	if playerID != g.CurrentPlayerID {
		return nil, "not your turn"
	}
	p := g.player(playerID)
	if p == nil || !p.CanAct() {
		return nil, "player may not act"
	}
	return p, ""
}

func (g *Game) popDeck() Card {
	c := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return c
}

// pushDiscard places a card on top of the discard pile (index 0).
func (g *Game) pushDiscard(c Card) {
	g.DiscardPile = append([]Card{c}, g.DiscardPile...)
}

func (g *Game) applyDrawFromDeck(a ActionDrawFromDeck) []Effect {
	p, why := g.guardTurnAction(a.PlayerID, StageAwaitingInitialAction)
	if p == nil {
		return g.reject(a.PlayerID, why)
	}
	if p.PendingDrawn != nil {
		return g.reject(a.PlayerID, "already holding a drawn card")
	}
	if len(g.Deck) == 0 {
		// Fatal to the round until recovered: park rather than fail
		// silently, so every client sees the recovering status.
		g.Phase = PhaseRecovering{Reason: RecoveryDeckEmpty, Parked: g.Phase}
		g.appendLog(a.PlayerID, "deck_empty", nil)
		return []Effect{
			EffectLogPublic{Type: "deck_empty", Payload: map[string]interface{}{"playerId": a.PlayerID}},
			EffectBroadcastState{},
		}
	}

	card := g.popDeck()
	p.PendingDrawn = &PendingDraw{Card: card, Source: DrawFromDeckSource}
	g.setTurnStage(StageAwaitingPostDrawAction)
	g.appendLog(a.PlayerID, "draw_from_deck", map[string]interface{}{"cardId": card.ID})

	return []Effect{
		EffectLogPublic{Type: "player_drew_from_deck", Payload: map[string]interface{}{
			"playerId": a.PlayerID, "cardId": card.ID,
		}},
		EffectLogPrivate{PlayerID: a.PlayerID, Type: "drawn_card", Payload: map[string]interface{}{
			"card": card,
		}},
		EffectBroadcastState{},
	}
}

func (g *Game) applyDrawFromDiscard(a ActionDrawFromDiscard) []Effect {
	p, why := g.guardTurnAction(a.PlayerID, StageAwaitingInitialAction)
	if p == nil {
		return g.reject(a.PlayerID, why)
	}
	if p.PendingDrawn != nil {
		return g.reject(a.PlayerID, "already holding a drawn card")
	}
	if len(g.DiscardPile) == 0 {
		return g.reject(a.PlayerID, "discard pile is empty")
	}
	if g.DiscardSealed {
		return g.reject(a.PlayerID, "discard pile is sealed")
	}
	if g.DiscardPile[0].Rank.IsSpecial() {
		return g.reject(a.PlayerID, "cannot draw a special card from the discard pile")
	}

	card := g.DiscardPile[0]
	g.DiscardPile = g.DiscardPile[1:]
	p.PendingDrawn = &PendingDraw{Card: card, Source: DrawFromDiscardSource}
	g.setTurnStage(StageAwaitingPostDrawAction)
	g.appendLog(a.PlayerID, "draw_from_discard", map[string]interface{}{"cardId": card.ID})

	return []Effect{
		EffectLogPublic{Type: "player_drew_from_discard", Payload: map[string]interface{}{
			"playerId": a.PlayerID, "card": card,
		}},
		EffectBroadcastState{},
	}
}

func (g *Game) applySwapAndDiscard(a ActionSwapAndDiscard) []Effect {
	p, why := g.guardTurnAction(a.PlayerID, StageAwaitingPostDrawAction)
	if p == nil {
		return g.reject(a.PlayerID, why)
	}
	if p.PendingDrawn == nil {
		return g.reject(a.PlayerID, "no drawn card to swap")
	}
	if a.HandIndex < 0 || a.HandIndex >= len(p.Hand) {
		return g.reject(a.PlayerID, "hand index out of bounds")
	}

	swappedOut := p.Hand[a.HandIndex]
	p.Hand[a.HandIndex] = p.PendingDrawn.Card
	p.PendingDrawn = nil
	g.dropRevealsAt(CardRef{PlayerID: p.ID, CardIndex: a.HandIndex})
	g.appendLog(a.PlayerID, "swap_and_discard", map[string]interface{}{
		"handIndex": a.HandIndex, "discardedCardId": swappedOut.ID,
	})

	effects := []Effect{EffectLogPublic{Type: "player_swapped_and_discarded", Payload: map[string]interface{}{
		"playerId": a.PlayerID, "handIndex": a.HandIndex, "card": swappedOut,
	}}}
	return append(effects, g.concludeDiscard(p, swappedOut)...)
}

func (g *Game) applyDiscardDrawnCard(a ActionDiscardDrawnCard) []Effect {
	p, why := g.guardTurnAction(a.PlayerID, StageAwaitingPostDrawAction)
	if p == nil {
		return g.reject(a.PlayerID, why)
	}
	if p.PendingDrawn == nil {
		return g.reject(a.PlayerID, "no drawn card to discard")
	}

	card := p.PendingDrawn.Card
	p.PendingDrawn = nil
	g.appendLog(a.PlayerID, "discard_drawn_card", map[string]interface{}{"cardId": card.ID})

	effects := []Effect{EffectLogPublic{Type: "player_discarded", Payload: map[string]interface{}{
		"playerId": a.PlayerID, "card": card,
	}}}
	return append(effects, g.concludeDiscard(p, card)...)
}

// concludeDiscard finishes any deliberate discard: the card goes on top
// of the pile, the seal lifts, and a matching opportunity opens for
// every other eligible player. Ability obligations for a special rank
// are enqueued once the opportunity concludes, since a successful match
// changes which entries get created.
func (g *Game) concludeDiscard(p *PlayerState, card Card) []Effect {
	g.pushDiscard(card)
	g.DiscardSealed = false

	effects := []Effect{g.cancelTimer(TimerTurn, uuid.Nil)}

	matchers := g.eligibleMatchers(p.ID)
	g.Matching = &MatchingOpportunity{
		CardToMatch:       card,
		OriginalPlayerID:  p.ID,
		PotentialMatchers: matchers,
	}
	if len(matchers) == 0 {
		return append(effects, g.afterMatchingConcluded()...)
	}
	g.Phase = PhaseMatching{}
	g.appendLog(p.ID, "matching_opened", map[string]interface{}{"cardId": card.ID})

	return append(effects,
		EffectLogPublic{Type: "matching_opportunity", Payload: map[string]interface{}{
			"card": card, "playerId": p.ID,
		}},
		g.startTimer(TimerMatching, uuid.Nil, g.Config.MatchingTimeout),
		EffectBroadcastState{},
	)
}

func (g *Game) applyCallCheck(a ActionCallCheck) []Effect {
	p, why := g.guardTurnAction(a.PlayerID, StageAwaitingInitialAction)
	if p == nil {
		return g.reject(a.PlayerID, why)
	}
	if g.CheckCallerID != uuid.Nil {
		return g.reject(a.PlayerID, "check has already been called")
	}

	p.HasCalledCheck = true
	p.IsLocked = true
	g.CheckCallerID = a.PlayerID
	g.appendLog(a.PlayerID, "check_called", nil)

	effects := []Effect{
		EffectLogPublic{Type: "player_called_check", Payload: map[string]interface{}{"playerId": a.PlayerID}},
		g.cancelTimer(TimerTurn, uuid.Nil),
	}
	return append(effects, g.advanceAfterTurn(a.PlayerID)...)
}

// ---------------------------------------------------------------------------
// Turn progression
// ---------------------------------------------------------------------------

// nextEligible scans the turn order starting just after `from`, skipping
// locked and forfeited players, wrapping once. During the final lap the
// scan stops, yielding no player, on reaching the check caller.
// Passing uuid.Nil scans from the top of the order.
func (g *Game) nextEligible(from uuid.UUID) (uuid.UUID, bool) {
	n := len(g.TurnOrder)
	if n == 0 {
		return uuid.Nil, false
	}
	start := 0
	for i, id := range g.TurnOrder {
		if id == from {
			start = i + 1
			break
		}
	}
	for i := 0; i < n; i++ {
		id := g.TurnOrder[(start+i)%n]
		if g.finalLapStarted && id == g.CheckCallerID {
			return uuid.Nil, false
		}
		p := g.Players[id]
		if p == nil || p.IsLocked || p.Forfeited {
			continue
		}
		return id, true
	}
	return uuid.Nil, false
}

// startTurn hands the turn to playerID. If that player is disconnected
// the machine parks in the recovering state instead of silently
// skipping them.
func (g *Game) startTurn(playerID uuid.UUID) []Effect {
	g.CurrentPlayerID = playerID
	if g.finalLapStarted {
		g.Phase = PhaseFinalTurns{Stage: StageAwaitingInitialAction}
	} else {
		g.Phase = PhasePlay{Stage: StageAwaitingInitialAction}
	}
	g.appendLog(playerID, "turn_started", nil)

	p := g.player(playerID)
	if p != nil && !p.IsConnected {
		g.Phase = PhaseRecovering{Reason: RecoveryPlayerDisconnected, Parked: g.Phase}
		return []Effect{
			EffectLogPublic{Type: "game_recovering", Payload: map[string]interface{}{"playerId": playerID}},
			EffectBroadcastState{},
		}
	}

	return []Effect{
		EffectLogPublic{Type: "player_turn", Payload: map[string]interface{}{"playerId": playerID}},
		g.startTimer(TimerTurn, uuid.Nil, g.Config.TurnTimeout),
		EffectBroadcastState{},
	}
}

// advanceAfterTurn moves the rotation forward after `from` finished
// acting (or was passed over). It owns the transition into the final
// lap and the stalemate transition into scoring.
func (g *Game) advanceAfterTurn(from uuid.UUID) []Effect {
	if g.finalLapStarted {
		g.FinalTurnsTaken++
	}
	if g.CheckCallerID != uuid.Nil && !g.finalLapStarted {
		// The final lap begins with the player after the caller,
		// regardless of whose turn hosted the check (matters for
		// auto-check during a matching stage).
		g.finalLapStarted = true
		from = g.CheckCallerID
	}
	next, ok := g.nextEligible(from)
	if !ok {
		return g.enterScoring()
	}
	return g.startTurn(next)
}

// ---------------------------------------------------------------------------
// Timers and deck recovery
// ---------------------------------------------------------------------------

func (g *Game) applyTimerFired(e EventTimerFired) []Effect {
	if !g.timerGenCurrent(e.Kind, e.PlayerID, e.Generation) {
		// Stale timer from a superseded stage: provably ignorable.
		return nil
	}
	g.nextTimerGen(e.Kind, e.PlayerID)

	switch e.Kind {
	case TimerInitialPeek:
		if _, ok := g.Phase.(PhaseInitialPeek); !ok {
			return nil
		}
		g.appendLog(uuid.Nil, "initial_peek_timeout", nil)
		return g.beginPlay()
	case TimerTurn:
		return g.handleTurnTimeout()
	case TimerMatching:
		return g.handleMatchingTimeout()
	case TimerDisconnectGrace:
		return g.handleGraceExpiry(e.PlayerID)
	}
	return nil
}

// handleTurnTimeout force-resolves whatever the clocked player owed:
// a held drawn card is auto-discarded (without opening a matching
// window or granting an ability), an unstarted turn is skipped, and a
// pending ability is force-skipped.
func (g *Game) handleTurnTimeout() []Effect {
	switch g.Phase.(type) {
	case PhasePlay, PhaseFinalTurns:
		p := g.player(g.CurrentPlayerID)
		if p == nil {
			return nil
		}
		g.appendLog(p.ID, "turn_timeout", nil)
		effects := []Effect{EffectLogPublic{Type: "player_timed_out", Payload: map[string]interface{}{
			"playerId": p.ID,
		}}}
		if p.PendingDrawn != nil {
			card := p.PendingDrawn.Card
			p.PendingDrawn = nil
			g.pushDiscard(card)
			g.DiscardSealed = false
			effects = append(effects, EffectLogPublic{Type: "player_discarded", Payload: map[string]interface{}{
				"playerId": p.ID, "card": card, "forced": true,
			}})
		}
		return append(effects, g.advanceAfterTurn(p.ID)...)
	case PhaseAbilityResolution:
		if len(g.PendingAbilities) == 0 {
			return nil
		}
		head := g.PendingAbilities[0]
		g.appendLog(head.PlayerID, "ability_timeout", nil)
		effects := []Effect{EffectLogPublic{Type: "ability_timed_out", Payload: map[string]interface{}{
			"playerId": head.PlayerID,
		}}}
		return append(effects, g.dequeueAbility()...)
	}
	return nil
}

func (g *Game) applyRecoverDeck() []Effect {
	rec, ok := g.Phase.(PhaseRecovering)
	if !ok || rec.Reason != RecoveryDeckEmpty {
		return nil
	}
	if len(g.DiscardPile) <= 1 {
		// Nothing to reshuffle; remain parked.
		return []Effect{EffectLogPublic{Type: "deck_recovery_failed", Payload: map[string]interface{}{
			"discardSize": len(g.DiscardPile),
		}}}
	}

	top := g.DiscardPile[0]
	rest := make([]Card, len(g.DiscardPile)-1)
	copy(rest, g.DiscardPile[1:])
	g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	g.Deck = append(g.Deck, rest...)
	g.DiscardPile = []Card{top}

	g.Phase = rec.Parked
	g.appendLog(uuid.Nil, "deck_reshuffled", map[string]interface{}{"recovered": len(rest)})

	effects := []Effect{
		EffectLogPublic{Type: "deck_reshuffled", Payload: map[string]interface{}{"deckSize": len(g.Deck)}},
	}
	if _, turn := g.turnStage(); turn {
		effects = append(effects, g.startTimer(TimerTurn, uuid.Nil, g.Config.TurnTimeout))
	}
	return append(effects, EffectBroadcastState{})
}

func (g *Game) applyResetRound(a ActionResetRound) []Effect {
	switch g.Phase.(type) {
	case PhaseScoring, PhaseFailed:
	default:
		return g.reject(a.PlayerID, "round is still in progress")
	}
	if a.PlayerID != g.GameMasterID {
		return g.reject(a.PlayerID, "only the game master may reset")
	}
	if g.activePlayerCount() < MinPlayers {
		g.Phase = PhaseAwaitingPlayers{}
		g.appendLog(a.PlayerID, "round_reset_to_lobby", nil)
		return []Effect{
			EffectLogPublic{Type: "awaiting_players", Payload: nil},
			EffectBroadcastState{},
		}
	}
	g.appendLog(a.PlayerID, "round_reset", nil)
	return g.dealRound()
}
