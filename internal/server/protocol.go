package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
)

// clientAction is the inbound websocket envelope. Type selects the
// action; the payload fields that apply to it are flattened alongside.
type clientAction struct {
	Type       string                  `json:"type"`
	HandIndex  *int                    `json:"handIndex,omitempty"`
	Resolution *game.AbilityResolution `json:"resolution,omitempty"`
}

// decodeAction maps a raw client frame to a game event attributed to
// playerID. The player identity always comes from the authenticated
// session, never from the frame.
func decodeAction(playerID uuid.UUID, raw []byte) (game.Event, error) {
	var act clientAction
	if err := json.Unmarshal(raw, &act); err != nil {
		return nil, fmt.Errorf("malformed action frame: %w", err)
	}
	switch act.Type {
	case "start_game":
		return game.ActionStartGame{PlayerID: playerID}, nil
	case "declare_ready":
		return game.ActionDeclareReady{PlayerID: playerID}, nil
	case "acknowledge_peek":
		return game.ActionAcknowledgePeek{PlayerID: playerID}, nil
	case "draw_from_deck":
		return game.ActionDrawFromDeck{PlayerID: playerID}, nil
	case "draw_from_discard":
		return game.ActionDrawFromDiscard{PlayerID: playerID}, nil
	case "swap_and_discard":
		if act.HandIndex == nil {
			return nil, fmt.Errorf("swap_and_discard requires handIndex")
		}
		return game.ActionSwapAndDiscard{PlayerID: playerID, HandIndex: *act.HandIndex}, nil
	case "discard_drawn":
		return game.ActionDiscardDrawnCard{PlayerID: playerID}, nil
	case "call_check":
		return game.ActionCallCheck{PlayerID: playerID}, nil
	case "attempt_match":
		if act.HandIndex == nil {
			return nil, fmt.Errorf("attempt_match requires handIndex")
		}
		return game.ActionAttemptMatch{PlayerID: playerID, HandIndex: *act.HandIndex}, nil
	case "pass_on_match":
		return game.ActionPassOnMatch{PlayerID: playerID}, nil
	case "resolve_ability":
		if act.Resolution == nil {
			return nil, fmt.Errorf("resolve_ability requires resolution")
		}
		return game.ActionResolveAbility{PlayerID: playerID, Resolution: *act.Resolution}, nil
	case "reset_round":
		return game.ActionResetRound{PlayerID: playerID}, nil
	case "recover_deck":
		return game.EventRecoverDeck{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", act.Type)
	}
}

// serverMessage is the outbound websocket envelope.
type serverMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
