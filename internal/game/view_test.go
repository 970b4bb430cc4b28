package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHidesAllFacesByDefault(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	view := g.ViewFor(ids[0], g.now())
	assert.Equal(t, len(g.Deck), view.DeckSize, "the deck is a count, never cards")
	for _, vp := range view.Players {
		for _, vc := range vp.Hand {
			assert.False(t, vc.Known, "every hand cell is face-down, own cards included")
			assert.Empty(t, vc.Rank)
			assert.Zero(t, vc.Value)
			assert.NotZero(t, vc.ID, "cell identity stays stable for tracking")
		}
	}
}

func TestViewShowsPendingDrawnOnlyToHolder(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)
	g.Apply(ActionDrawFromDeck{PlayerID: ids[0]})

	own := g.ViewFor(ids[0], g.now())
	var self, other *ViewPlayer
	for i := range own.Players {
		switch own.Players[i].PlayerID {
		case ids[0]:
			self = &own.Players[i]
		case ids[1]:
			other = &own.Players[i]
		}
	}
	require.NotNil(t, self)
	require.NotNil(t, other)
	require.NotNil(t, self.PendingDrawn)
	assert.True(t, self.PendingDrawn.Known)
	assert.Nil(t, other.PendingDrawn)

	theirs := g.ViewFor(ids[1], g.now())
	for _, vp := range theirs.Players {
		if vp.PlayerID == ids[0] {
			require.NotNil(t, vp.PendingDrawn, "opponents see that a card is held")
			assert.False(t, vp.PendingDrawn.Known, "but never its face")
		}
	}
}

func TestViewExposesDiscardTopAndMatching(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)
	discarded := openMatching(t, g, RankFive)

	view := g.ViewFor(ids[1], g.now())
	require.NotNil(t, view.DiscardTop)
	assert.Equal(t, discarded, *view.DiscardTop, "the discard top is public")
	require.NotNil(t, view.Matching)
	assert.Equal(t, discarded, view.Matching.CardToMatch)
	assert.Equal(t, ids[0], view.Matching.OriginalPlayerID)
}

func TestPeekRevealExpires(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)
	actor := grantAbility(t, g, RankQueen)

	target := CardRef{PlayerID: ids[1], CardIndex: 0}
	require.Nil(t, findReject(g.Apply(ActionResolveAbility{PlayerID: actor, Resolution: AbilityResolution{
		Type:        ResolutionPeek,
		PeekTargets: []CardRef{target},
	}})))

	now := g.now()
	fresh := g.ViewFor(actor, now)
	for _, vp := range fresh.Players {
		if vp.PlayerID == ids[1] {
			assert.True(t, vp.Hand[0].Known)
		}
	}

	later := now.Add(g.Config.PeekRevealDuration + time.Second)
	stale := g.ViewFor(actor, later)
	for _, vp := range stale.Players {
		for _, vc := range vp.Hand {
			assert.False(t, vc.Known, "expired reveals grant no sight")
		}
	}
}

func TestPruneRevealsDropsExpiredEntries(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)
	actor := grantAbility(t, g, RankQueen)

	g.Apply(ActionResolveAbility{PlayerID: actor, Resolution: AbilityResolution{
		Type:        ResolutionPeek,
		PeekTargets: []CardRef{{PlayerID: ids[1], CardIndex: 0}},
	}})
	require.NotEmpty(t, g.reveals)

	g.PruneReveals(g.now().Add(g.Config.PeekRevealDuration + time.Second))
	assert.Empty(t, g.reveals)
}

func TestViewIncludesForfeitedPlayers(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(EventPlayerDisconnected{PlayerID: ids[2]})
	fireTimer(g, TimerDisconnectGrace, ids[2])
	require.True(t, g.Players[ids[2]].Forfeited)

	view := g.ViewFor(ids[0], g.now())
	require.Len(t, view.Players, 3, "forfeited seats stay visible")
	var found bool
	for _, vp := range view.Players {
		if vp.PlayerID == ids[2] {
			found = true
			assert.True(t, vp.Forfeited)
		}
	}
	assert.True(t, found)
}
