package game

import (
	"testing"

	"github.com/cardroom/truco/internal/deck"
)

func TestViewRedactsOtherHands(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 2), c(deck.Oro, 10)},
	)

	view := tbl.ViewFor("p1")
	for _, pv := range view.Players {
		if pv.ID == "p1" {
			if len(pv.Hand) != 3 {
				t.Fatalf("viewer should see own hand, got %v", pv.Hand)
			}
			for _, card := range pv.Hand {
				if card.IsHidden() {
					t.Errorf("own card hidden: %v", pv.Hand)
				}
			}
			continue
		}
		if len(pv.Hand) != 3 {
			t.Fatalf("opponent hand size leaks as %d", len(pv.Hand))
		}
		for _, card := range pv.Hand {
			if !card.IsHidden() {
				t.Errorf("opponent card leaked: %s", card)
			}
		}
	}
}

func TestViewShowsPlayedCards(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 2), c(deck.Oro, 10)},
	)

	mustPlay(t, tbl, "p2", c(deck.Oro, 3))

	view := tbl.ViewFor("p1")
	if len(view.Mesa) != 1 || view.Mesa[0].Card != c(deck.Oro, 3) {
		t.Errorf("mesa should show the played card, got %v", view.Mesa)
	}
	if view.TurnPlayerID != "p1" {
		t.Errorf("turn is %s, want p1", view.TurnPlayerID)
	}
	// The played card left p2's redacted hand.
	for _, pv := range view.Players {
		if pv.ID == "p2" && len(pv.Hand) != 2 {
			t.Errorf("p2 should show 2 concealed cards, got %d", len(pv.Hand))
		}
	}
}

func TestViewSurfacesPendingBet(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	startFixed(t, tbl, c(deck.Copa, 6),
		[]deck.Card{c(deck.Basto, 4), c(deck.Basto, 5), c(deck.Basto, 6)},
		[]deck.Card{c(deck.Oro, 3), c(deck.Oro, 2), c(deck.Oro, 10)},
	)

	if res := tbl.CallTruco("p2", Truco); !res.OK {
		t.Fatalf("CallTruco: %s", res.Reason)
	}
	view := tbl.ViewFor("p1")
	if view.PendingBet != "truco" || view.PendingTeam != 2 {
		t.Errorf("pending bet %q team %d, want truco team 2", view.PendingBet, view.PendingTeam)
	}
	if view.Phase != Betting.String() {
		t.Errorf("phase %s, want betting", view.Phase)
	}
}

func TestResultFailureCodes(t *testing.T) {
	tbl := newTestTable(t, 2, Options{})
	if res := tbl.PlayCard("ghost", c(deck.Oro, 3)); res.OK || res.Code != WrongPhase {
		t.Errorf("waiting table should report WrongPhase, got %+v", res)
	}
	if res := tbl.Fold("ghost"); res.OK || res.Code != WrongPhase {
		t.Errorf("fold on waiting table, got %+v", res)
	}

	if res := tbl.StartRound(); !res.OK {
		t.Fatalf("StartRound: %s", res.Reason)
	}
	if res := tbl.PlayCard("ghost", c(deck.Oro, 3)); res.OK || res.Code != NotInGame {
		t.Errorf("unknown player should report NotInGame, got %+v", res)
	}
}
