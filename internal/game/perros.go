package game

// "Echar los perros" is the compound comeback bet: a flor-or-falta-envido
// leg and a truco leg answered in one move. House rules observed here: it
// may only be thrown during the cut, by a team trailing by at least half
// the score limit. Each leg resolves independently once the cards are
// dealt; a declined leg pays its base decline value to the caller.

// EcharPerros opens the compound bet.
func (t *Table) EcharPerros(playerID string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Cutting {
		if t.phase == Betting {
			return fail(BetAlreadyPending, "a bet awaits response")
		}
		return fail(PerrosUnavailable, "perros can only be thrown during the cut")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	team := t.players[i].Team
	behind := t.team(opposingTeam(team)).Score - t.team(team).Score
	if behind*2 < t.scoreLimit {
		return fail(PerrosUnavailable, "team is not far enough behind")
	}
	if t.perros != nil {
		return fail(BetAlreadyPending, "perros already thrown")
	}

	t.perros = &PerrosBet{CallerTeam: team}
	t.enterBetting()
	t.emit(BetCalled{Bet: "perros", Team: team, PlayerID: playerID})
	return Success
}

// RespondPerros answers both legs of the pending perros. The response is
// stored and settles after the cut and deal, when the hands needed for the
// flor-or-falta leg exist.
func (t *Table) RespondPerros(playerID string, wantsFlorOrFalta, wantsTruco bool) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.perros == nil {
		return fail(NoPendingBet, "no perros pending")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if t.players[i].Team == t.perros.CallerTeam {
		return fail(NotEligibleTeam, "calling team cannot respond")
	}

	t.perrosReply = &perrosReply{florOrFalta: wantsFlorOrFalta, truco: wantsTruco}
	t.leaveBetting() // back to Cutting so the cut can proceed
	t.emit(BetResolved{Bet: "perros", Accepted: wantsFlorOrFalta || wantsTruco})
	return Success
}

// resolvePerrosAfterDeal settles both legs once hands exist. Caller holds
// the lock; must run after dealNow.
func (t *Table) resolvePerrosAfterDeal() {
	if t.perros == nil || t.perrosReply == nil {
		return
	}
	bet := t.perros
	reply := t.perrosReply
	t.perros = nil
	t.perrosReply = nil
	t.envidoClosed = true // the perros leg replaces the round's envido

	// Flor-or-falta leg: a flor showdown when the caller holds one,
	// falta envido otherwise.
	if reply.florOrFalta {
		if t.teamHasFlor(bet.CallerTeam) {
			stake := t.faltaValue()
			winner := t.resolveFlorShowdown()
			t.emit(BetResolved{Bet: "perros flor", Accepted: true, WinnerTeam: winner, Points: stake})
			if t.creditPoints(winner, stake) {
				return
			}
		} else {
			stake := t.faltaValue()
			winner := t.resolveEnvidoShowdown()
			t.emit(BetResolved{Bet: "perros falta", Accepted: true, WinnerTeam: winner, Points: stake})
			if t.creditPoints(winner, stake) {
				return
			}
		}
	} else {
		t.emit(BetResolved{Bet: "perros falta", WinnerTeam: bet.CallerTeam, Points: 1})
		if t.creditPoints(bet.CallerTeam, 1) {
			return
		}
	}

	// Truco leg: accepted play locks in truco stakes for the round,
	// a refusal concedes the round at one point.
	if reply.truco {
		t.acceptedTruco = Truco
		t.lastTrucoTeam = bet.CallerTeam
		t.stake = Truco.Value()
		t.emit(BetResolved{Bet: "perros truco", Accepted: true})
	} else {
		t.finishRound(bet.CallerTeam, Truco.DeclineValue())
	}
}
