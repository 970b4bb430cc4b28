package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectOfCurrentPlayerParksTheGame(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	effs := g.Apply(EventPlayerDisconnected{PlayerID: ids[0]})
	require.NotNil(t, findTimerStart(effs, TimerDisconnectGrace))
	require.NotNil(t, findPublic(effs, "game_recovering"))

	rec, ok := g.Phase.(PhaseRecovering)
	require.True(t, ok)
	assert.Equal(t, RecoveryPlayerDisconnected, rec.Reason)
	assert.IsType(t, PhasePlay{}, rec.Parked)
	assert.False(t, g.Players[ids[0]].IsConnected)

	effs = g.Apply(ActionDrawFromDeck{PlayerID: ids[1]})
	require.NotNil(t, findReject(effs), "no actions while parked")
}

func TestDisconnectOfBystanderDoesNotPark(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	effs := g.Apply(EventPlayerDisconnected{PlayerID: ids[2]})
	require.NotNil(t, findTimerStart(effs, TimerDisconnectGrace))
	require.IsType(t, PhasePlay{}, g.Phase, "a bystander's disconnect does not interrupt the turn")

	effs = g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})
	require.Nil(t, findReject(effs))
}

func TestReconnectResumesParkedGame(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[0]})
	require.IsType(t, PhaseRecovering{}, g.Phase)

	effs := g.Apply(EventPlayerReconnected{PlayerID: ids[0], SessionID: "s-2"})
	require.NotNil(t, findPublic(effs, "game_resumed"))
	require.NotNil(t, findTimerStart(effs, TimerTurn), "the resumed turn gets a fresh clock")

	require.IsType(t, PhasePlay{}, g.Phase)
	p := g.Players[ids[0]]
	assert.True(t, p.IsConnected)
	assert.Equal(t, "s-2", p.SessionID)

	effs = g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})
	require.Nil(t, findReject(effs), "play resumes exactly where it parked")
}

func TestGraceExpiryForfeitsAndAutoResolves(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	// The current player holds a drawn card when the connection drops.
	g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})
	drawn := g.Players[ids[0]].PendingDrawn.Card
	g.Apply(EventPlayerDisconnected{PlayerID: ids[0]})
	require.IsType(t, PhaseRecovering{}, g.Phase)

	effs := fireTimer(g, TimerDisconnectGrace, ids[0])
	require.NotNil(t, findPublic(effs, "player_forfeited"))

	p := g.Players[ids[0]]
	assert.True(t, p.Forfeited)
	assert.Nil(t, p.PendingDrawn, "the held card is force-discarded")
	require.NotEmpty(t, g.DiscardPile)
	assert.Equal(t, drawn, g.DiscardPile[0])
	assert.Contains(t, g.TurnOrder, ids[0], "the forfeited slot stays in the rotation")

	require.IsType(t, PhasePlay{}, g.Phase)
	assert.Equal(t, ids[1], g.CurrentPlayerID, "play continues with the next player")
}

func TestGraceExpiryBelowMinimumEndsRound(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[1]})
	effs := fireTimer(g, TimerDisconnectGrace, ids[1])

	require.IsType(t, PhaseScoring{}, g.Phase, "one live player cannot continue the round")
	require.NotNil(t, findGameOver(effs))
	require.NotNil(t, g.Result)
	_, scored := g.Result.PerPlayer[ids[1]]
	assert.False(t, scored, "forfeited players are not scored")
}

func TestReconnectCancelsGraceTimer(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[2]})
	staleGen := g.timerGens[timerKey{Kind: TimerDisconnectGrace, PlayerID: ids[2]}]
	g.Apply(EventPlayerReconnected{PlayerID: ids[2], SessionID: "s-2"})

	effs := g.Apply(EventTimerFired{Kind: TimerDisconnectGrace, PlayerID: ids[2], Generation: staleGen})
	assert.Empty(t, effs, "a cancelled grace timer must not forfeit anyone")
	assert.False(t, g.Players[ids[2]].Forfeited)
}

func TestDisconnectFlappingCapFailsTheGame(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	for i := 0; i < MaxDisconnects; i++ {
		g.Apply(EventPlayerDisconnected{PlayerID: ids[2]})
		g.Apply(EventPlayerReconnected{PlayerID: ids[2], SessionID: "s"})
	}
	require.IsType(t, PhasePlay{}, g.Phase, "the cap itself is still tolerated")

	effs := g.Apply(EventPlayerDisconnected{PlayerID: ids[2]})
	require.NotNil(t, findPublic(effs, "game_failed"))
	require.IsType(t, PhaseFailed{}, g.Phase)

	effs = g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})
	require.NotNil(t, findReject(effs), "a failed game accepts no play")

	effs = g.Apply(ActionResetRound{PlayerID: ids[0]})
	require.Nil(t, findReject(effs), "the game master's reset leaves the failed state")
	require.IsType(t, PhaseInitialPeek{}, g.Phase)
}

func TestReconnectAfterForfeitureIsObserverOnly(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[1]})
	fireTimer(g, TimerDisconnectGrace, ids[1])
	require.True(t, g.Players[ids[1]].Forfeited)

	effs := g.Apply(EventPlayerReconnected{PlayerID: ids[1], SessionID: "late"})
	require.NotNil(t, findPrivate(effs, ids[1], "forfeited"))
	assert.True(t, g.Players[ids[1]].IsConnected, "they may still watch")
	assert.True(t, g.Players[ids[1]].Forfeited, "the seat is not restored")

	effs = g.Apply(ActionDrawFromDeck{PlayerID: ids[1]})
	require.NotNil(t, findReject(effs))
}

func TestFinalLapTerminatesWhenCallerForfeits(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(ActionCallCheck{PlayerID: ids[0]})
	require.IsType(t, PhaseFinalTurns{}, g.Phase)
	require.Equal(t, ids[1], g.CurrentPlayerID)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[0]})
	fireTimer(g, TimerDisconnectGrace, ids[0])
	require.True(t, g.Players[ids[0]].Forfeited)
	require.IsType(t, PhaseFinalTurns{}, g.Phase, "two live players keep the lap going")

	// Each remaining player gets exactly one more turn, then the lap
	// closes even though its anchor forfeited.
	for _, actor := range []uuid.UUID{ids[1], ids[2]} {
		require.Equal(t, actor, g.CurrentPlayerID)
		require.Nil(t, findReject(g.Apply(ActionDrawFromDeck{PlayerID: actor})))
		g.Players[actor].PendingDrawn.Card = testCard(RankTwo)
		require.Nil(t, findReject(g.Apply(ActionDiscardDrawnCard{PlayerID: actor})))
		for g.Matching != nil {
			g.Apply(ActionPassOnMatch{PlayerID: g.Matching.PotentialMatchers[0]})
		}
	}

	require.IsType(t, PhaseScoring{}, g.Phase)
	require.NotNil(t, g.Result)
	_, scored := g.Result.PerPlayer[ids[0]]
	assert.False(t, scored, "the forfeited caller is not scored")
	assert.Contains(t, g.Result.PerPlayer, ids[1])
	assert.Contains(t, g.Result.PerPlayer, ids[2])
}

func TestTurnSkipsDisconnectedPlayerByParking(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	// The next player drops while it is not yet their turn; handing
	// them the turn parks instead of silently skipping.
	g.Apply(EventPlayerDisconnected{PlayerID: ids[1]})
	require.IsType(t, PhasePlay{}, g.Phase)

	g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})
	g.Players[ids[0]].PendingDrawn.Card = testCard(RankFive)
	effs := g.Apply(ActionDiscardDrawnCard{PlayerID: ids[0]})
	require.Nil(t, findReject(effs))

	rec, ok := g.Phase.(PhaseRecovering)
	require.True(t, ok, "the absent player's turn parks the machine")
	assert.Equal(t, RecoveryPlayerDisconnected, rec.Reason)
	assert.Equal(t, ids[1], g.CurrentPlayerID)
}
