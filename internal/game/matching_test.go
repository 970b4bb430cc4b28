package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openMatching drives the current player through draw-and-discard of a
// card with the given rank, leaving the game in the matching stage
// (provided at least one other player is eligible).
func openMatching(t *testing.T, g *Game, rank Rank) Card {
	t.Helper()
	actor := g.CurrentPlayerID
	effs := g.Apply(ActionDrawFromDeck{PlayerID: actor})
	require.Nil(t, findReject(effs))
	discarded := testCard(rank)
	g.Players[actor].PendingDrawn.Card = discarded
	effs = g.Apply(ActionDiscardDrawnCard{PlayerID: actor})
	require.Nil(t, findReject(effs))
	return discarded
}

func TestMatchSuccessSealsPileAndShrinksHand(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	setHand(g, ids[1], RankFive, RankTwo, RankThree, RankFour)
	openMatching(t, g, RankFive)
	matched := g.Players[ids[1]].Hand[0]

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.Nil(t, findReject(effs))
	require.NotNil(t, findPublic(effs, "match_success"))

	assert.Len(t, g.Players[ids[1]].Hand, 3)
	assert.Equal(t, matched, g.DiscardPile[0])
	assert.True(t, g.DiscardSealed, "a successful match seals the pile")
	assert.Equal(t, 1, g.Players[ids[1]].NumMatches)

	// ids[2] is still undecided, so the stage stays open.
	require.IsType(t, PhaseMatching{}, g.Phase)
	effs = g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.NotNil(t, findReject(effs), "matching is terminal per player")

	g.Apply(ActionPassOnMatch{PlayerID: ids[2]})
	require.IsType(t, PhasePlay{}, g.Phase)
	assert.Equal(t, ids[1], g.CurrentPlayerID)
}

func TestMatchFailDrawsPenaltyCard(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	setHand(g, ids[1], RankTwo, RankThree, RankFour, RankSix)
	openMatching(t, g, RankFive)

	deckBefore := len(g.Deck)
	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.Nil(t, findReject(effs))
	require.NotNil(t, findPublic(effs, "match_fail"))

	assert.Len(t, g.Players[ids[1]].Hand, 5, "a failed match costs a penalty card")
	assert.Equal(t, deckBefore-1, len(g.Deck))
	assert.Equal(t, 1, g.Players[ids[1]].NumPenalties)
	assert.False(t, g.DiscardSealed, "a failed match does not seal the pile")

	// The failure concluded the only matcher, so play moves on.
	require.IsType(t, PhasePlay{}, g.Phase)
	assert.Equal(t, ids[1], g.CurrentPlayerID)
}

func TestMatchFailWithEmptyDeckSkipsPenalty(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	setHand(g, ids[1], RankTwo, RankThree, RankFour, RankSix)
	openMatching(t, g, RankFive)
	g.Deck = nil

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.Nil(t, findReject(effs))
	assert.Len(t, g.Players[ids[1]].Hand, 4, "no penalty card when the deck is empty")
	assert.Equal(t, 1, g.Players[ids[1]].NumPenalties)
}

func TestMatchingTimeoutIsImplicitPassForAll(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)
	openMatching(t, g, RankFive)

	g.Apply(ActionPassOnMatch{PlayerID: ids[1]})
	require.IsType(t, PhaseMatching{}, g.Phase, "one undecided matcher keeps the stage open")

	effs := fireTimer(g, TimerMatching, uuid.Nil)
	require.NotNil(t, findPublic(effs, "matching_timeout"))
	require.IsType(t, PhasePlay{}, g.Phase)
	assert.Equal(t, ids[1], g.CurrentPlayerID)
	assert.Nil(t, g.Matching)
}

func TestMatchEmptyingHandIsAutoCheck(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Players[ids[1]].Hand = []Card{testCard(RankFive)}
	openMatching(t, g, RankFive)

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.Nil(t, findReject(effs))
	require.NotNil(t, findPublic(effs, "player_emptied_hand"))

	p := g.Players[ids[1]]
	assert.Empty(t, p.Hand)
	assert.True(t, p.IsLocked)
	assert.True(t, p.HasCalledCheck)
	assert.Equal(t, ids[1], g.CheckCallerID)

	g.Apply(ActionPassOnMatch{PlayerID: ids[2]})
	require.IsType(t, PhaseFinalTurns{}, g.Phase, "an auto-check starts the final lap")
	assert.Equal(t, ids[2], g.CurrentPlayerID, "the lap scans from the auto-checker")
}

func TestAutoCheckDoesNotStealAnExistingCheck(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(ActionCallCheck{PlayerID: ids[0]})
	require.Equal(t, ids[1], g.CurrentPlayerID)

	g.Players[ids[2]].Hand = []Card{testCard(RankFive)}
	openMatching(t, g, RankFive)
	g.Apply(ActionAttemptMatch{PlayerID: ids[2], HandIndex: 0})

	p := g.Players[ids[2]]
	assert.True(t, p.IsLocked, "emptying the hand always locks")
	assert.False(t, p.HasCalledCheck, "the original caller keeps the check")
	assert.Equal(t, ids[0], g.CheckCallerID)
}

func TestSpecialPairMatchEnqueuesOrderedAbilities(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	setHand(g, ids[1], RankJack, RankTwo, RankThree, RankFour)
	openMatching(t, g, RankJack)

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})
	require.Nil(t, findReject(effs))

	require.Len(t, g.PendingAbilities, 2)
	assert.Equal(t, ids[1], g.PendingAbilities[0].PlayerID, "the matcher's ability resolves first")
	assert.Equal(t, SourceStack, g.PendingAbilities[0].Source)
	assert.Equal(t, ids[0], g.PendingAbilities[1].PlayerID)
	assert.Equal(t, SourceStackSecondOfPair, g.PendingAbilities[1].Source)

	g.Apply(ActionPassOnMatch{PlayerID: ids[2]})
	require.IsType(t, PhaseAbilityResolution{}, g.Phase)
}

func TestUnmatchedSpecialDiscardGrantsDiscarderAbility(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	openMatching(t, g, RankKing)
	require.Empty(t, g.PendingAbilities, "the ability waits for the matching stage to conclude")

	g.Apply(ActionPassOnMatch{PlayerID: ids[1]})
	require.Len(t, g.PendingAbilities, 1)
	assert.Equal(t, ids[0], g.PendingAbilities[0].PlayerID)
	assert.Equal(t, SourceDiscard, g.PendingAbilities[0].Source)
	assert.Equal(t, AbilityStagePeek, g.PendingAbilities[0].Stage)
	require.IsType(t, PhaseAbilityResolution{}, g.Phase)
}

func TestMatchedSpecialPairDropsTheDiscardSourceEntry(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)

	setHand(g, ids[1], RankQueen, RankTwo, RankThree, RankFour)
	openMatching(t, g, RankQueen)
	g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 0})

	require.Len(t, g.PendingAbilities, 2, "a matched pair yields exactly its two stack entries")
	for _, pa := range g.PendingAbilities {
		assert.NotEqual(t, SourceDiscard, pa.Source)
	}
}

func TestLockedPlayerCannotMatch(t *testing.T) {
	g, ids := newTestGame(t, 3)
	startRound(t, g, ids)

	g.Apply(ActionCallCheck{PlayerID: ids[0]})
	require.Equal(t, ids[1], g.CurrentPlayerID)

	setHand(g, ids[0], RankFive, RankFive, RankFive, RankFive)
	openMatching(t, g, RankFive)

	require.NotNil(t, g.Matching)
	assert.Equal(t, []uuid.UUID{ids[2]}, g.Matching.PotentialMatchers, "the locked caller is excluded")

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[0], HandIndex: 0})
	require.NotNil(t, findReject(effs))
	assert.Len(t, g.Players[ids[0]].Hand, 4, "a rejected attempt changes nothing")
}

func TestMatchRejectsBadIndexWithoutConsumingTheAttempt(t *testing.T) {
	g, ids := newTestGame(t, 2)
	startRound(t, g, ids)
	openMatching(t, g, RankFive)

	effs := g.Apply(ActionAttemptMatch{PlayerID: ids[1], HandIndex: 9})
	require.NotNil(t, findReject(effs))
	assert.True(t, g.matcherPending(ids[1]), "a rejected attempt is not terminal")
}
