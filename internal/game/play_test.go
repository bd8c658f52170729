package game

import (
	"testing"

	"github.com/cardroom/truco/internal/deck"
)

func TestManoPlaysFirst(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 2), c(deck.Oro, 10)},
	)

	// p1 deals, so p2 is mano and leads.
	if res := tbl.PlayCard("p1", c(deck.Basto, 4)); res.OK || res.Code != IllegalTurn {
		t.Fatalf("dealer must not lead, got %+v", res)
	}
	mustPlay(t, tbl, "p2", c(deck.Oro, 3))
	mustPlay(t, tbl, "p1", c(deck.Basto, 4))
}

func TestPlayCardNotInHand(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 2), c(deck.Oro, 10)},
	)

	if res := tbl.PlayCard("p2", c(deck.Espada, 1)); res.OK || res.Code != UnknownCard {
		t.Errorf("expected UnknownCard, got %+v", res)
	}
	if res := tbl.PlayCard("p2", deck.Hidden()); res.OK || res.Code != UnknownCard {
		t.Errorf("hidden placeholder should be rejected, got %+v", res)
	}
}

func TestTwoStraightHandsEndRound(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 12), c(deck.Oro, 10)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 3))
	mustPlay(t, tbl, "p1", c(deck.Basto, 4))
	// p2 won the hand and leads again.
	mustPlay(t, tbl, "p2", c(deck.Oro, 12))
	mustPlay(t, tbl, "p1", c(deck.Basto, 5))

	want := []int{2, 2}
	got := tbl.HandWinners()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("hand winners %v, want %v", got, want)
	}
	if tbl.Phase() != RoundFinished {
		t.Errorf("phase %s, want round-finished", tbl.Phase())
	}
	if got := tbl.Scores(); got != [TeamCount]int{0, 1} {
		t.Errorf("scores %v, want [0 1]", got)
	}
}

func TestHandWinnerLeadsNextHand(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 3), c(deck.Basto, 6), c(deck.Basto, 4)},
		[]deck.Card{c(deck.Oro, 5), c(deck.Oro, 6), c(deck.Oro, 4)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 5))
	mustPlay(t, tbl, "p1", c(deck.Basto, 3))

	view := tbl.ViewFor("p1")
	if view.TurnPlayerID != "p1" {
		t.Errorf("hand winner should lead, turn is %s", view.TurnPlayerID)
	}
}

func TestPardaThenDecided(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 6), c(deck.Basto, 4), c(deck.Basto, 7)},
		[]deck.Card{c(deck.Oro, 6), c(deck.Oro, 3), c(deck.Oro, 5)},
	)

	// Hand one ties on equal power.
	mustPlay(t, tbl, "p2", c(deck.Oro, 6))
	mustPlay(t, tbl, "p1", c(deck.Basto, 6))
	if got := tbl.HandWinners(); got[0] != 0 {
		t.Fatalf("hand 1 should be parda, got %v", got)
	}

	// The second hand decides the whole round.
	mustPlay(t, tbl, "p2", c(deck.Oro, 3))
	mustPlay(t, tbl, "p1", c(deck.Basto, 4))

	if tbl.Phase() != RoundFinished {
		t.Fatalf("round should end after two hands, phase %s", tbl.Phase())
	}
	if tbl.RoundWinner() != 2 {
		t.Errorf("round winner %d, want 2", tbl.RoundWinner())
	}
}

func TestDecidedThenParda(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 3), c(deck.Basto, 6), c(deck.Basto, 4)},
		[]deck.Card{c(deck.Oro, 5), c(deck.Oro, 6), c(deck.Oro, 4)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 5))
	mustPlay(t, tbl, "p1", c(deck.Basto, 3))
	// p1 leads hand two into a parda; the first decided hand stands.
	mustPlay(t, tbl, "p1", c(deck.Basto, 6))
	mustPlay(t, tbl, "p2", c(deck.Oro, 6))

	if tbl.Phase() != RoundFinished {
		t.Fatalf("round should end, phase %s", tbl.Phase())
	}
	if tbl.RoundWinner() != 1 {
		t.Errorf("round winner %d, want 1", tbl.RoundWinner())
	}
}

func TestSplitHandsThirdDecides(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 3), c(deck.Basto, 4), c(deck.Basto, 2)},
		[]deck.Card{c(deck.Oro, 2), c(deck.Oro, 3), c(deck.Oro, 4)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 2))
	mustPlay(t, tbl, "p1", c(deck.Basto, 3)) // team 1 takes hand one
	mustPlay(t, tbl, "p1", c(deck.Basto, 4))
	mustPlay(t, tbl, "p2", c(deck.Oro, 3)) // team 2 takes hand two
	mustPlay(t, tbl, "p2", c(deck.Oro, 4))
	mustPlay(t, tbl, "p1", c(deck.Basto, 2)) // team 1 takes the third

	if tbl.RoundWinner() != 1 {
		t.Errorf("round winner %d, want 1", tbl.RoundWinner())
	}
	if got := tbl.Scores(); got != [TeamCount]int{1, 0} {
		t.Errorf("scores %v, want [1 0]", got)
	}
}

func TestSplitHandsThirdPardaFirstStands(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 3), c(deck.Basto, 10), c(deck.Basto, 12)},
		[]deck.Card{c(deck.Oro, 4), c(deck.Oro, 3), c(deck.Oro, 12)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 4))
	mustPlay(t, tbl, "p1", c(deck.Basto, 3)) // team 1 takes hand one
	mustPlay(t, tbl, "p1", c(deck.Basto, 10))
	mustPlay(t, tbl, "p2", c(deck.Oro, 3)) // team 2 takes hand two
	mustPlay(t, tbl, "p2", c(deck.Oro, 12))
	mustPlay(t, tbl, "p1", c(deck.Basto, 12)) // equal 12s tie the third

	if got := tbl.HandWinners(); len(got) != 3 || got[2] != 0 {
		t.Fatalf("hand winners %v, want a parda third hand", got)
	}
	// With the hands split one apiece, the first win stands.
	if tbl.RoundWinner() != 1 {
		t.Errorf("round winner %d, want 1", tbl.RoundWinner())
	}
	if got := tbl.Scores(); got != [TeamCount]int{1, 0} {
		t.Errorf("scores %v, want [1 0]", got)
	}
}

func TestAllPardasDealerTeamWins(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 3),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 4), c(deck.Oro, 5), c(deck.Oro, 6)},
	)

	for _, rank := range []int{4, 5, 6} {
		mustPlay(t, tbl, "p2", c(deck.Oro, rank))
		mustPlay(t, tbl, "p1", c(deck.Basto, rank))
	}

	if tbl.Phase() != RoundFinished {
		t.Fatalf("round should end, phase %s", tbl.Phase())
	}
	// Three pardas fall to the dealer's team.
	if tbl.RoundWinner() != 1 {
		t.Errorf("round winner %d, want 1 (dealer team)", tbl.RoundWinner())
	}
}

func TestFourPlayerTrickOrder(t *testing.T) {
	tbl := newTestTable(t, 4, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 5), c(deck.Oro, 6)},
		[]deck.Card{c(deck.Espada, 4), c(deck.Espada, 5), c(deck.Espada, 6)},
		[]deck.Card{c(deck.Copa, 7), c(deck.Copa, 1), c(deck.Copa, 3)},
	)

	// Seating order from the mano: p2, p3, p4, p1.
	mustPlay(t, tbl, "p2", c(deck.Oro, 3))
	if res := tbl.PlayCard("p4", c(deck.Copa, 7)); res.OK || res.Code != IllegalTurn {
		t.Fatalf("p4 played out of order, got %+v", res)
	}
	mustPlay(t, tbl, "p3", c(deck.Espada, 4))
	mustPlay(t, tbl, "p4", c(deck.Copa, 7))
	mustPlay(t, tbl, "p1", c(deck.Basto, 4))

	// p2's 3 de oro took the hand for team 2.
	if got := tbl.HandWinners(); len(got) != 1 || got[0] != 2 {
		t.Errorf("hand winners %v, want [2]", got)
	}
}
