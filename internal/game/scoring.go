package game

import "github.com/google/uuid"

// enterScoring computes the round result and parks the machine in the
// scoring phase until the game master requests a reset.
//
// With a check called: the checker wins unless their hand value is
// strictly greater than the lowest value among the other non-locked
// players; a failed checker takes a fixed penalty and the lowest other
// player wins (ties among them yield no winner). Without a check
// (stalemate), the strictly lowest hand wins and any tie is a draw.
// Losers add their hand value to their cumulative score; the winner
// adds nothing.
func (g *Game) enterScoring() []Effect {
	g.Phase = PhaseScoring{}
	g.Matching = nil
	g.PendingAbilities = nil

	result := g.scoreRound()
	g.Result = result
	g.appendLog(uuid.Nil, "round_scored", map[string]interface{}{"winnerId": result.WinnerID})

	return []Effect{
		g.cancelTimer(TimerTurn, uuid.Nil),
		g.cancelTimer(TimerMatching, uuid.Nil),
		EffectLogPublic{Type: "round_over", Payload: map[string]interface{}{
			"winnerId": result.WinnerID,
		}},
		EffectGameOver{Result: result},
		EffectBroadcastState{},
	}
}

func (g *Game) scoreRound() *RoundResult {
	handValues := make(map[uuid.UUID]int)
	for id, p := range g.Players {
		if p.Forfeited {
			continue
		}
		handValues[id] = p.HandValue()
	}

	// A checker who forfeited before scoring loses the claim; the
	// round falls back to the stalemate rule for the players left.
	winnerID := uuid.Nil
	if c := g.player(g.CheckCallerID); c != nil && !c.Forfeited {
		winnerID = g.scoreCheckedRound(handValues)
	} else {
		winnerID = g.scoreStalemate(handValues)
	}

	// Losers bank their hand value; the winner banks nothing.
	for id, hv := range handValues {
		if id != winnerID {
			g.Players[id].Score += hv
		}
	}

	result := &RoundResult{
		WinnerID:  winnerID,
		PerPlayer: make(map[uuid.UUID]PlayerRoundScore, len(handValues)),
	}
	for id, hv := range handValues {
		result.PerPlayer[id] = PlayerRoundScore{
			HandValue:       hv,
			CumulativeScore: g.Players[id].Score,
		}
	}
	return result
}

// scoreCheckedRound applies the check-caller rule. Returns the winner,
// or uuid.Nil for a drawn round.
func (g *Game) scoreCheckedRound(handValues map[uuid.UUID]int) uuid.UUID {
	checker := g.CheckCallerID
	checkerValue := handValues[checker]

	lowestOther := -1
	for id, hv := range handValues {
		if id == checker {
			continue
		}
		p := g.Players[id]
		if p.IsLocked {
			continue
		}
		if lowestOther < 0 || hv < lowestOther {
			lowestOther = hv
		}
	}
	if lowestOther < 0 {
		// No other eligible players: the checker stands alone.
		return checker
	}

	// A tie favors the checker: calling check is rewarded.
	if checkerValue <= lowestOther {
		return checker
	}

	// Checker failed: penalty, and the lowest other wins unless tied.
	g.Players[checker].Score += CheckPenalty
	winner := uuid.Nil
	tied := false
	for id, hv := range handValues {
		if id == checker || g.Players[id].IsLocked {
			continue
		}
		if hv == lowestOther {
			if winner != uuid.Nil {
				tied = true
			}
			winner = id
		}
	}
	if tied {
		return uuid.Nil
	}
	return winner
}

// scoreStalemate handles the no-check path: strictly-lowest hand wins,
// any tie is a draw.
func (g *Game) scoreStalemate(handValues map[uuid.UUID]int) uuid.UUID {
	lowest := -1
	for _, hv := range handValues {
		if lowest < 0 || hv < lowest {
			lowest = hv
		}
	}
	winner := uuid.Nil
	for id, hv := range handValues {
		if hv == lowest {
			if winner != uuid.Nil {
				return uuid.Nil
			}
			winner = id
		}
	}
	return winner
}
