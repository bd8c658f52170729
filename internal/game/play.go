package game

import (
	"github.com/cardroom/truco/internal/deck"
)

// PlayCard moves a card from the player's hand to the mesa and advances the
// turn, resolving the hand once every active player has played.
func (t *Table) PlayCard(playerID string, c deck.Card) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Playing {
		if t.phase == Betting {
			return fail(BetAlreadyPending, "a bet awaits response")
		}
		return fail(WrongPhase, "not in the playing phase")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if i != t.turnIdx {
		return fail(IllegalTurn, "not this player's turn")
	}
	p := t.players[i]
	if !c.Valid() || !p.holds(c) {
		return fail(UnknownCard, "card not in hand")
	}

	p.remove(c)
	t.mesa = append(t.mesa, PlayedCard{PlayerID: playerID, Card: c, Hand: t.handNum})
	t.emit(CardPlayed{PlayerID: playerID, Card: c, Hand: t.handNum})

	if next, ok := t.nextToPlay(); ok {
		t.turnIdx = next
		t.emit(TurnChanged{PlayerID: t.players[next].ID})
		return Success
	}
	t.resolveHand()
	return Success
}

// nextToPlay finds the next active player who has not played this hand,
// scanning seating order from the current turn.
func (t *Table) nextToPlay() (int, bool) {
	n := len(t.players)
	for step := 1; step <= n; step++ {
		idx := (t.turnIdx + step) % n
		p := t.players[idx]
		if p.active() && !t.playedThisHand(p.ID) {
			return idx, true
		}
	}
	return 0, false
}

func (t *Table) playedThisHand(playerID string) bool {
	for _, pc := range t.mesa {
		if pc.Hand == t.handNum && pc.PlayerID == playerID {
			return true
		}
	}
	return false
}

// resolveHand scores the completed hand and either opens the next one or
// finishes the round. Caller holds the lock.
func (t *Table) resolveHand() {
	var entries []PlayedCard
	for _, pc := range t.mesa {
		if pc.Hand == t.handNum {
			entries = append(entries, pc)
		}
	}
	if len(entries) == 0 {
		panic("game: resolving a hand with no cards played")
	}

	best := -1
	for _, pc := range entries {
		if p := deck.Power(pc.Card, t.muestra); p > best {
			best = p
		}
	}
	winnerTeam := 0
	leader := t.leaderIdx
	teamsAtTop := map[int]bool{}
	for _, pc := range entries {
		if deck.Power(pc.Card, t.muestra) == best {
			teamsAtTop[t.players[t.playerIdx(pc.PlayerID)].Team] = true
		}
	}
	if len(teamsAtTop) == 1 {
		for team := range teamsAtTop {
			winnerTeam = team
		}
		// The winning team's top card leads the next hand.
		for _, pc := range entries {
			idx := t.playerIdx(pc.PlayerID)
			if t.players[idx].Team == winnerTeam && deck.Power(pc.Card, t.muestra) == best {
				leader = idx
				break
			}
		}
	}

	t.handWinners = append(t.handWinners, winnerTeam)
	t.emit(HandResolvedEvent{Hand: t.handNum, WinnerTeam: winnerTeam})

	if outcome := t.roundOutcome(); outcome != 0 {
		t.finishRound(outcome, t.stake)
		return
	}
	t.handNum++
	t.leaderIdx = leader
	t.turnIdx = leader
	t.emit(TurnChanged{PlayerID: t.players[leader].ID})
}

// roundOutcome applies the classic tie-break table to the hand winners so
// far. Returns 0 while the round is still open.
func (t *Table) roundOutcome() int {
	wins := map[int]int{}
	for _, w := range t.handWinners {
		if w != 0 {
			wins[w]++
		}
	}
	for team, n := range wins {
		if n >= 2 {
			return team
		}
	}
	hw := t.handWinners
	if len(hw) >= 2 {
		// Parda first, second decided: the second hand's winner takes it.
		if hw[0] == 0 && hw[1] != 0 {
			return hw[1]
		}
		// First decided, second parda: the first hand stands.
		if hw[0] != 0 && hw[1] == 0 {
			return hw[0]
		}
	}
	if len(hw) == 3 {
		if hw[2] != 0 {
			// Only reachable with hands one and two both parda.
			return hw[2]
		}
		// Third hand parda: the first decided hand stands, else the
		// dealer's team wins by default.
		for _, w := range hw {
			if w != 0 {
				return w
			}
		}
		return t.dealerTeam()
	}
	return 0
}

// HandWinners returns the per-hand results so far, 0 marking a parda.
func (t *Table) HandWinners() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, len(t.handWinners))
	copy(out, t.handWinners)
	return out
}
