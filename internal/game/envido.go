package game

import (
	"github.com/cardroom/truco/internal/deck"
)

// envidoValue is the accumulator contribution of a fixed-value call.
func envidoValue(kind EnvidoKind, customStake int) int {
	switch kind {
	case Envido:
		return 2
	case RealEnvido:
		return 3
	case EnvidoCargado:
		return customStake
	default:
		return 0
	}
}

// envidoOpen reports whether the envido window is still open: hand one,
// no card on the mesa, not resolved or disabled this round.
func (t *Table) envidoOpen() bool {
	return t.handNum == 1 && len(t.mesa) == 0 && !t.envidoClosed
}

// anyFlor reports whether any hand at the table qualifies for flor, which
// disables envido for the whole round.
func (t *Table) anyFlor() bool {
	for _, p := range t.players {
		if deck.HasFlor(p.Hand, t.muestra) {
			return true
		}
	}
	return false
}

// CallEnvido opens or escalates an envido-family bet. Escalation on a
// pending stack is reserved for the team that did not make the last call.
func (t *Table) CallEnvido(playerID string, kind EnvidoKind, customStake int) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if kind < Envido || kind > EnvidoCargado {
		return fail(EnvidoUnavailable, "unknown envido kind")
	}
	if kind == EnvidoCargado && customStake < 1 {
		return fail(EnvidoUnavailable, "cargado stake must be positive")
	}
	team := t.players[i].Team

	if t.envido != nil {
		if t.phase != Betting {
			panic("game: pending envido outside betting phase")
		}
		if team == t.envido.CallerTeam {
			return fail(NotEligibleTeam, "cannot escalate own call")
		}
		if t.envido.HasFalta {
			return fail(EnvidoUnavailable, "falta envido cannot be raised")
		}
		t.envido.Guaranteed = t.envido.Accumulated
		if kind == FaltaEnvido {
			t.envido.HasFalta = true
		} else {
			t.envido.Accumulated += envidoValue(kind, customStake)
		}
		t.envido.Calls = append(t.envido.Calls, EnvidoCall{Kind: kind, Team: team, Stake: envidoValue(kind, customStake)})
		t.envido.CallerTeam = team
		t.emit(BetCalled{Bet: kind.String(), Team: team, PlayerID: playerID})
		return Success
	}

	if t.phase != Playing {
		if t.phase == Betting {
			return fail(BetAlreadyPending, "a bet awaits response")
		}
		return fail(WrongPhase, "not in the playing phase")
	}
	if !t.envidoOpen() {
		return fail(EnvidoUnavailable, "envido window is closed")
	}
	if t.anyFlor() {
		return fail(EnvidoUnavailable, "a flor is in play")
	}

	bet := &EnvidoBet{
		CallerTeam: team,
		Guaranteed: 1,
	}
	if kind == FaltaEnvido {
		bet.HasFalta = true
	} else {
		bet.Accumulated = envidoValue(kind, customStake)
	}
	bet.Calls = []EnvidoCall{{Kind: kind, Team: team, Stake: envidoValue(kind, customStake)}}
	t.envido = bet
	t.enterBetting()
	t.emit(BetCalled{Bet: kind.String(), Team: team, PlayerID: playerID})
	return Success
}

// RespondEnvido accepts or declines the pending envido stack. Accepting
// resolves it immediately against both teams' best envido.
func (t *Table) RespondEnvido(playerID string, accept bool) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.envido == nil {
		return fail(NoPendingBet, "no envido pending")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if t.players[i].Team == t.envido.CallerTeam {
		return fail(NotEligibleTeam, "calling team cannot respond")
	}

	bet := t.envido
	t.envido = nil
	t.envidoClosed = true

	if !accept {
		t.emit(BetResolved{Bet: "envido", WinnerTeam: bet.CallerTeam, Points: bet.Guaranteed})
		if t.creditPoints(bet.CallerTeam, bet.Guaranteed) {
			return Success
		}
		t.leaveBetting()
		return Success
	}

	stake := bet.Accumulated
	if bet.HasFalta {
		stake += t.faltaValue()
	}
	winner := t.resolveEnvidoShowdown()
	t.emit(BetResolved{Bet: "envido", Accepted: true, WinnerTeam: winner, Points: stake})
	if t.creditPoints(winner, stake) {
		return Success
	}
	t.leaveBetting()
	return Success
}

// faltaValue is the falta envido stake: the points the leading team still
// needs to win the game.
func (t *Table) faltaValue() int {
	high := 0
	for _, team := range t.teams {
		if team.Score > high {
			high = team.Score
		}
	}
	return t.scoreLimit - high
}

// resolveEnvidoShowdown compares each team's best envido, reveals the
// scoring hands and returns the winning team. Ties favour the dealer's
// team. Caller holds the lock.
func (t *Table) resolveEnvidoShowdown() int {
	best := [TeamCount]int{-1, -1}
	bestPlayer := [TeamCount]*Player{}
	for _, p := range t.players {
		if !p.active() {
			continue
		}
		cards := t.fullHand(p)
		score := deck.BestEnvido(cards, t.muestra)
		if score > best[p.Team-1] {
			best[p.Team-1] = score
			bestPlayer[p.Team-1] = p
		}
	}

	var reveals []Reveal
	for ti := range bestPlayer {
		if p := bestPlayer[ti]; p != nil {
			reveals = append(reveals, Reveal{
				PlayerID: p.ID,
				Cards:    t.fullHand(p),
				Value:    best[ti],
			})
		}
	}
	t.revealed = append(t.revealed, reveals...)
	t.emit(CardsRevealed{Reveals: reveals})

	switch {
	case best[0] > best[1]:
		return 1
	case best[1] > best[0]:
		return 2
	default:
		return t.dealerTeam()
	}
}

// fullHand reconstructs a player's dealt cards: what remains in hand plus
// what they already played. Envido is scored on the dealt hand.
func (t *Table) fullHand(p *Player) []deck.Card {
	cards := make([]deck.Card, 0, 3)
	cards = append(cards, p.Hand...)
	for _, pc := range t.mesa {
		if pc.PlayerID == p.ID {
			cards = append(cards, pc.Card)
		}
	}
	return cards
}

// RevealedCards returns the hands shown for envido or flor scoring this
// round. It is the only sanctioned channel for concealed cards.
func (t *Table) RevealedCards() []Reveal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Reveal, len(t.revealed))
	copy(out, t.revealed)
	return out
}
