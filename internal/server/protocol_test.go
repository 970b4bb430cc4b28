package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
)

func TestDecodeActionMapsTypes(t *testing.T) {
	pid := uuid.New()

	ev, err := decodeAction(pid, []byte(`{"type":"draw_from_deck"}`))
	require.NoError(t, err)
	assert.Equal(t, game.ActionDrawFromDeck{PlayerID: pid}, ev)

	ev, err = decodeAction(pid, []byte(`{"type":"call_check"}`))
	require.NoError(t, err)
	assert.Equal(t, game.ActionCallCheck{PlayerID: pid}, ev)

	ev, err = decodeAction(pid, []byte(`{"type":"swap_and_discard","handIndex":2}`))
	require.NoError(t, err)
	assert.Equal(t, game.ActionSwapAndDiscard{PlayerID: pid, HandIndex: 2}, ev)

	ev, err = decodeAction(pid, []byte(`{"type":"attempt_match","handIndex":0}`))
	require.NoError(t, err)
	assert.Equal(t, game.ActionAttemptMatch{PlayerID: pid, HandIndex: 0}, ev)
}

func TestDecodeActionResolution(t *testing.T) {
	pid := uuid.New()
	target := uuid.New()

	raw := []byte(`{"type":"resolve_ability","resolution":{"type":"peek","peekTargets":[{"playerId":"` + target.String() + `","cardIndex":1}]}}`)
	ev, err := decodeAction(pid, raw)
	require.NoError(t, err)

	resolve, ok := ev.(game.ActionResolveAbility)
	require.True(t, ok)
	assert.Equal(t, pid, resolve.PlayerID)
	assert.Equal(t, game.ResolutionPeek, resolve.Resolution.Type)
	require.Len(t, resolve.Resolution.PeekTargets, 1)
	assert.Equal(t, game.CardRef{PlayerID: target, CardIndex: 1}, resolve.Resolution.PeekTargets[0])
}

func TestDecodeActionRejectsMalformedFrames(t *testing.T) {
	pid := uuid.New()

	_, err := decodeAction(pid, []byte(`{"type":"swap_and_discard"}`))
	require.Error(t, err, "handIndex is mandatory for a swap")

	_, err = decodeAction(pid, []byte(`{"type":"resolve_ability"}`))
	require.Error(t, err, "resolution payload is mandatory")

	_, err = decodeAction(pid, []byte(`{"type":"no_such_action"}`))
	require.Error(t, err)

	_, err = decodeAction(pid, []byte(`{broken`))
	require.Error(t, err)
}

func TestDecodeActionIgnoresClaimedIdentity(t *testing.T) {
	pid := uuid.New()

	// Identity comes from the authenticated session; any playerId field
	// inside the frame is noise.
	ev, err := decodeAction(pid, []byte(`{"type":"pass_on_match","playerId":"`+uuid.NewString()+`"}`))
	require.NoError(t, err)
	assert.Equal(t, game.ActionPassOnMatch{PlayerID: pid}, ev)
}
