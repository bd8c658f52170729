package game

// CallTruco opens a truco-family bet. Escalating past an accepted level is
// reserved for the team that did not make the standing call.
func (t *Table) CallTruco(playerID string, level TrucoLevel) Result {
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
	if level < Truco || level > ValeCuatro {
		return fail(NotEligibleTeam, "unknown truco level")
	}
	team := t.players[i].Team
	if level != t.nextTrucoLevel() {
		return fail(NotEligibleTeam, "level not callable now")
	}
	// The side that owns the standing call may not re-raise itself.
	if t.acceptedTruco > 0 && t.lastTrucoTeam == team {
		return fail(NotEligibleTeam, "cannot escalate own call")
	}

	t.truco = &TrucoBet{Level: level, CallerTeam: team}
	t.enterBetting()
	t.emit(BetCalled{Bet: level.String(), Team: team, PlayerID: playerID})
	return Success
}

// nextTrucoLevel is the only level callable given what has been accepted.
func (t *Table) nextTrucoLevel() TrucoLevel {
	return t.acceptedTruco + 1
}

// RespondTruco accepts or declines the pending truco-family call. A
// response from the calling team is rejected. Passing a valid escalateTo
// accepts implicitly and raises in one move.
func (t *Table) RespondTruco(playerID string, accept bool, escalateTo TrucoLevel) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.truco == nil {
		return fail(NoPendingBet, "no truco call pending")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	team := t.players[i].Team
	if team == t.truco.CallerTeam {
		return fail(NotEligibleTeam, "calling team cannot respond")
	}

	bet := t.truco
	if !accept {
		t.truco = nil
		points := bet.Level.DeclineValue()
		t.emit(BetResolved{Bet: bet.Level.String(), WinnerTeam: bet.CallerTeam, Points: points})
		t.finishRound(bet.CallerTeam, points)
		return Success
	}

	if escalateTo > bet.Level {
		if escalateTo > ValeCuatro {
			return fail(NotEligibleTeam, "nothing above vale cuatro")
		}
		if escalateTo != bet.Level+1 {
			return fail(NotEligibleTeam, "can only escalate one level")
		}
		// Accept the standing call, then raise: the raise becomes the
		// new open bet owned by the responder's team.
		t.acceptedTruco = bet.Level
		t.lastTrucoTeam = bet.CallerTeam
		t.stake = bet.Level.Value()
		t.truco = &TrucoBet{Level: escalateTo, CallerTeam: team}
		t.emit(BetResolved{Bet: bet.Level.String(), Accepted: true})
		t.emit(BetCalled{Bet: escalateTo.String(), Team: team, PlayerID: playerID})
		return Success
	}

	t.truco = nil
	t.acceptedTruco = bet.Level
	t.lastTrucoTeam = bet.CallerTeam
	t.stake = bet.Level.Value()
	t.emit(BetResolved{Bet: bet.Level.String(), Accepted: true})
	t.leaveBetting()
	return Success
}

// Stake returns the points currently at play for the round.
func (t *Table) Stake() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stake
}

// AcceptedTruco returns the locked-in truco level, 0 when none.
func (t *Table) AcceptedTruco() TrucoLevel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acceptedTruco
}
