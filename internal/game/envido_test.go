package game

import (
	"testing"

	"github.com/cardroom/truco/internal/deck"
)

// startEnvidoRound deals p1 an envido of 33 and p2 an envido of 27, with no
// flor anywhere and a plain muestra.
func startEnvidoRound(t *testing.T, tbl *Table) {
	t.Helper()
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Oro, 7), c(deck.Oro, 6), c(deck.Basto, 4)},
		[]deck.Card{c(deck.Espada, 5), c(deck.Espada, 2), c(deck.Basto, 10)},
	)
}

func TestEnvidoShowdown(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p1", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	// 33 beats 27: two points to team 1, play resumes, stake untouched.
	if got := tbl.Scores(); got != [TeamCount]int{2, 0} {
		t.Errorf("scores %v, want [2 0]", got)
	}
	if tbl.Phase() != Playing {
		t.Errorf("phase %s, want playing", tbl.Phase())
	}
	if tbl.Stake() != 1 {
		t.Errorf("stake %d, want 1", tbl.Stake())
	}

	reveals := tbl.RevealedCards()
	if len(reveals) != 2 {
		t.Fatalf("expected both best hands revealed, got %d", len(reveals))
	}
	for _, r := range reveals {
		if r.PlayerID == "p1" && r.Value != 33 {
			t.Errorf("p1 revealed value %d, want 33", r.Value)
		}
	}
}

func TestEnvidoDeclinePaysGuaranteed(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p1", false); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	if got := tbl.Scores(); got != [TeamCount]int{0, 1} {
		t.Errorf("scores %v, want [0 1]", got)
	}
	// The window stays closed for the round.
	if res := tbl.CallEnvido("p2", Envido, 0); res.OK || res.Code != EnvidoUnavailable {
		t.Errorf("envido should stay closed, got %+v", res)
	}
}

func TestEnvidoEscalationDeclinePaysPriorStack(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.CallEnvido("p1", RealEnvido, 0); !res.OK {
		t.Fatalf("escalate RealEnvido: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p2", false); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	// Declining real envido concedes the plain envido already on the
	// table: two points to team 1.
	if got := tbl.Scores(); got != [TeamCount]int{2, 0} {
		t.Errorf("scores %v, want [2 0]", got)
	}
}

func TestEnvidoStackAcceptedPaysAccumulated(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.CallEnvido("p1", RealEnvido, 0); !res.OK {
		t.Fatalf("escalate: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p2", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	// Envido + real envido = 5 points to the showdown winner.
	if got := tbl.Scores(); got != [TeamCount]int{5, 0} {
		t.Errorf("scores %v, want [5 0]", got)
	}
}

func TestOwnTeamCannotEscalate(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.CallEnvido("p2", RealEnvido, 0); res.OK || res.Code != NotEligibleTeam {
		t.Errorf("caller escalating own stack should fail, got %+v", res)
	}
}

func TestFaltaEnvidoStake(t *testing.T) {
	tbl := newTestTable(t, 2, Options{ScoreLimit: 30})
	tbl.teams[0].Score = 25
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", FaltaEnvido, 0); !res.OK {
		t.Fatalf("CallEnvido falta: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p1", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	// The leader needs 5 more points; p1 wins those 5 and the game.
	if got := tbl.Scores(); got != [TeamCount]int{30, 0} {
		t.Errorf("scores %v, want [30 0]", got)
	}
	if tbl.GameWinner() != 1 {
		t.Errorf("game winner %d, want 1", tbl.GameWinner())
	}
}

func TestFaltaEnvidoCannotBeRaised(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", FaltaEnvido, 0); !res.OK {
		t.Fatalf("CallEnvido falta: %s", res.Reason)
	}
	if res := tbl.CallEnvido("p1", Envido, 0); res.OK || res.Code != EnvidoUnavailable {
		t.Errorf("raising falta should fail, got %+v", res)
	}
}

func TestEnvidoCargadoUsesCustomStake(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	if res := tbl.CallEnvido("p2", EnvidoCargado, 0); res.OK {
		t.Fatal("cargado without a stake should fail")
	}
	if res := tbl.CallEnvido("p2", EnvidoCargado, 7); !res.OK {
		t.Fatalf("CallEnvido cargado: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p1", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}
	if got := tbl.Scores(); got != [TeamCount]int{7, 0} {
		t.Errorf("scores %v, want [7 0]", got)
	}
}

func TestEnvidoWindowClosesOnFirstCard(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startEnvidoRound(t, tbl)

	mustPlay(t, tbl, "p2", c(deck.Espada, 5))
	if res := tbl.CallEnvido("p1", Envido, 0); res.OK || res.Code != EnvidoUnavailable {
		t.Errorf("envido after a played card should fail, got %+v", res)
	}
}

func TestEnvidoTieFavoursDealerTeam(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	// Both sides hold 26.
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 5), c(deck.Basto, 1), c(deck.Oro, 12)},
		[]deck.Card{c(deck.Espada, 4), c(deck.Espada, 2), c(deck.Oro, 11)},
	)

	if res := tbl.CallEnvido("p2", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p1", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}

	// p1 deals, so the tie goes to team 1.
	if got := tbl.Scores(); got != [TeamCount]int{2, 0} {
		t.Errorf("scores %v, want [2 0]", got)
	}
}

func TestEnvidoBlockedWhenFlorInPlay(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Oro, 7), c(deck.Oro, 6), c(deck.Basto, 4)},
		[]deck.Card{c(deck.Espada, 5), c(deck.Espada, 2), c(deck.Espada, 10)},
	)

	if res := tbl.CallEnvido("p1", Envido, 0); res.OK || res.Code != EnvidoUnavailable {
		t.Errorf("envido with a flor at the table should fail, got %+v", res)
	}
}

func TestEnvidoScoredOnDealtHand(t *testing.T) {
	tbl := newTestTable(t, 4, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Oro, 7), c(deck.Oro, 6), c(deck.Basto, 4)},
		[]deck.Card{c(deck.Espada, 5), c(deck.Espada, 2), c(deck.Basto, 10)},
		[]deck.Card{c(deck.Basto, 7), c(deck.Copa, 1), c(deck.Oro, 4)},
		[]deck.Card{c(deck.Basto, 3), c(deck.Espada, 12), c(deck.Oro, 10)},
	)

	// In a team game the best hand per team decides, regardless of who
	// called: p1's 33 tops p2's 27 and p4's 3.
	if res := tbl.CallEnvido("p3", Envido, 0); !res.OK {
		t.Fatalf("CallEnvido: %s", res.Reason)
	}
	if res := tbl.RespondEnvido("p2", true); !res.OK {
		t.Fatalf("RespondEnvido: %s", res.Reason)
	}
	if got := tbl.Scores(); got != [TeamCount]int{2, 0} {
		t.Errorf("scores %v, want [2 0]", got)
	}
}
