package game

import (
	"github.com/cardroom/truco/internal/deck"
)

// FlorResponse is the answer to a pending flor declaration.
type FlorResponse int

const (
	FlorAchico FlorResponse = iota + 1 // concede the declared level
	FlorAccept                         // showdown at the declared level
	FlorRaiseConFlorEnvido
	FlorRaiseContraFlor
	FlorRaiseContraFlorAlResto
)

// raiseLevel maps a raising response to its ladder level, 0 otherwise.
func (r FlorResponse) raiseLevel() FlorLevel {
	switch r {
	case FlorRaiseConFlorEnvido:
		return ConFlorEnvido
	case FlorRaiseContraFlor:
		return ContraFlor
	case FlorRaiseContraFlorAlResto:
		return ContraFlorAlResto
	default:
		return 0
	}
}

// HasFlor reports whether the player's dealt hand qualifies for flor this
// round.
func (t *Table) HasFlor(playerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.playerIdx(playerID)
	if i < 0 {
		return false
	}
	return deck.HasFlor(t.fullHand(t.players[i]), t.muestra)
}

// CallFlor declares flor. The declaration is mandatory for a qualifying
// hand and permanently disables envido for the round. All qualifying hands
// on the declarer's team are counted together. When the opposing team also
// holds a flor the declaration awaits a response; otherwise it scores
// immediately.
func (t *Table) CallFlor(playerID string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if t.flor != nil {
		return fail(BetAlreadyPending, "flor already declared")
	}
	if t.phase != Playing && !(t.phase == Betting && t.envido != nil) {
		return fail(WrongPhase, "not in the playing phase")
	}
	if t.handNum != 1 || len(t.mesa) != 0 {
		return fail(FlorUnavailable, "flor window is closed")
	}
	p := t.players[i]
	if !deck.HasFlor(p.Hand, t.muestra) {
		return fail(FlorUnavailable, "hand does not qualify for flor")
	}

	// Flor kills any pending envido outright.
	if t.envido != nil {
		t.envido = nil
		t.leaveBetting()
	}
	t.envidoClosed = true

	team := p.Team
	var declarers []string
	for _, tp := range t.team(team).Players {
		if deck.HasFlor(tp.Hand, t.muestra) {
			declarers = append(declarers, tp.ID)
		}
	}
	t.emit(BetCalled{Bet: Flor.String(), Team: team, PlayerID: playerID})

	if !t.teamHasFlor(opposingTeam(team)) {
		// Unopposed: three points per qualifying hand, shown at once.
		points := 3 * len(declarers)
		t.revealFlores(team)
		t.emit(BetResolved{Bet: Flor.String(), Accepted: true, WinnerTeam: team, Points: points})
		t.creditPoints(team, points)
		return Success
	}

	t.flor = &FlorBet{
		Level:      Flor,
		CallerTeam: team,
		Guaranteed: 3,
		Declarers:  declarers,
	}
	t.enterBetting()
	return Success
}

func (t *Table) teamHasFlor(team int) bool {
	for _, p := range t.team(team).Players {
		if deck.HasFlor(p.Hand, t.muestra) {
			return true
		}
	}
	return false
}

// RespondFlor answers the pending flor: concede, accept the showdown, or
// raise the ladder. Only the team that did not make the standing call may
// respond, and a raise requires a qualifying hand on the responding team.
func (t *Table) RespondFlor(playerID string, response FlorResponse) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.flor == nil {
		return fail(NoPendingBet, "no flor pending")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	team := t.players[i].Team
	if team == t.flor.CallerTeam {
		return fail(NotEligibleTeam, "calling team cannot respond")
	}

	bet := t.flor
	switch response {
	case FlorAchico:
		t.flor = nil
		t.emit(BetResolved{Bet: bet.Level.String(), WinnerTeam: bet.CallerTeam, Points: bet.Guaranteed})
		if t.creditPoints(bet.CallerTeam, bet.Guaranteed) {
			return Success
		}
		t.leaveBetting()
		return Success

	case FlorAccept:
		t.flor = nil
		stake := bet.Level.Value()
		if bet.Level == ContraFlorAlResto {
			stake = t.faltaValue()
		}
		winner := t.resolveFlorShowdown()
		t.emit(BetResolved{Bet: bet.Level.String(), Accepted: true, WinnerTeam: winner, Points: stake})
		if t.creditPoints(winner, stake) {
			return Success
		}
		t.leaveBetting()
		return Success
	}

	level := response.raiseLevel()
	if level == 0 {
		return fail(FlorUnavailable, "unknown flor response")
	}
	if level <= bet.Level {
		return fail(FlorUnavailable, "can only raise the ladder")
	}
	if !t.teamHasFlor(team) {
		return fail(FlorUnavailable, "raising team holds no flor")
	}
	bet.Guaranteed = bet.Level.Value()
	bet.Level = level
	bet.CallerTeam = team
	t.emit(BetCalled{Bet: level.String(), Team: team, PlayerID: playerID})
	return Success
}

// resolveFlorShowdown compares each team's best flor, reveals the hands
// and returns the winning team. Ties favour the dealer's team. Caller
// holds the lock.
func (t *Table) resolveFlorShowdown() int {
	best := [TeamCount]int{-1, -1}
	bestPlayer := [TeamCount]*Player{}
	for _, p := range t.players {
		cards := t.fullHand(p)
		if !deck.HasFlor(cards, t.muestra) {
			continue
		}
		score := deck.FlorValue(cards, t.muestra)
		if score > best[p.Team-1] {
			best[p.Team-1] = score
			bestPlayer[p.Team-1] = p
		}
	}

	var reveals []Reveal
	for ti := range bestPlayer {
		if p := bestPlayer[ti]; p != nil {
			reveals = append(reveals, Reveal{PlayerID: p.ID, Cards: t.fullHand(p), Value: best[ti]})
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

// revealFlores shows the qualifying hands of one team. Caller holds the lock.
func (t *Table) revealFlores(team int) {
	var reveals []Reveal
	for _, p := range t.team(team).Players {
		cards := t.fullHand(p)
		if deck.HasFlor(cards, t.muestra) {
			reveals = append(reveals, Reveal{
				PlayerID: p.ID,
				Cards:    cards,
				Value:    deck.FlorValue(cards, t.muestra),
			})
		}
	}
	t.revealed = append(t.revealed, reveals...)
	t.emit(CardsRevealed{Reveals: reveals})
}
