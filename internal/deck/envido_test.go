package deck

import "testing"

func TestEnvidoTwoSameSuit(t *testing.T) {
	muestra := NewCard(Copa, 6)
	hand := []Card{
		NewCard(Oro, 7),
		NewCard(Oro, 6),
		NewCard(Espada, 2),
	}
	if got := BestEnvido(hand, muestra); got != 33 {
		t.Errorf("7 and 6 de oro should score 33, got %d", got)
	}
}

func TestEnvidoSingleCard(t *testing.T) {
	muestra := NewCard(Copa, 6)
	hand := []Card{
		NewCard(Oro, 7),
		NewCard(Espada, 4),
		NewCard(Basto, 12),
	}
	if got := BestEnvido(hand, muestra); got != 7 {
		t.Errorf("mixed suits should score the best single card 7, got %d", got)
	}
}

func TestEnvidoCourtCardsWorthZero(t *testing.T) {
	muestra := NewCard(Copa, 6)
	hand := []Card{
		NewCard(Oro, 12),
		NewCard(Oro, 11),
		NewCard(Espada, 3),
	}
	// Two court cards of one suit: 0 + 0 + 20.
	if got := BestEnvido(hand, muestra); got != 20 {
		t.Errorf("two oro court cards should score 20, got %d", got)
	}
}

func TestEnvidoPiezaValues(t *testing.T) {
	muestra := NewCard(Basto, 6)
	cases := []struct {
		rank int
		want int
	}{
		{2, 30},
		{4, 29},
		{5, 28},
		{10, 27},
		{11, 27},
	}
	for _, tc := range cases {
		c := NewCard(Basto, tc.rank)
		if got := EnvidoValue(c, muestra); got != tc.want {
			t.Errorf("pieza %s should be worth %d, got %d", c, tc.want, got)
		}
	}
}

func TestEnvidoPiezaWithCompanion(t *testing.T) {
	muestra := NewCard(Basto, 6)
	hand := []Card{
		NewCard(Basto, 2), // pieza, 30
		NewCard(Oro, 7),
		NewCard(Espada, 4),
	}
	if got := BestEnvido(hand, muestra); got != 37 {
		t.Errorf("pieza plus best companion should score 37, got %d", got)
	}
}

func TestEnvidoSecondPiezaUnitsDigit(t *testing.T) {
	muestra := NewCard(Basto, 6)
	hand := []Card{
		NewCard(Basto, 2), // pieza, 30
		NewCard(Basto, 4), // pieza, 29, contributes 9
		NewCard(Copa, 3),
	}
	if got := BestEnvido(hand, muestra); got != 39 {
		t.Errorf("two piezas should score 30+9=39, got %d", got)
	}
}

func TestEnvidoAlcahueteValue(t *testing.T) {
	// Under a pieza muestra the 12 of its suit borrows the muestra's
	// envido value.
	muestra := NewCard(Oro, 5)
	doce := NewCard(Oro, 12)
	if got := EnvidoValue(doce, muestra); got != 28 {
		t.Errorf("12 de oro should borrow envido 28, got %d", got)
	}

	// Under a plain muestra it stays a court card.
	if got := EnvidoValue(doce, NewCard(Oro, 6)); got != 0 {
		t.Errorf("12 under plain muestra should be worth 0, got %d", got)
	}
}

func TestHasFlor(t *testing.T) {
	muestra := NewCard(Copa, 6)
	cases := []struct {
		name string
		hand []Card
		want bool
	}{
		{
			"three same suit",
			[]Card{NewCard(Oro, 2), NewCard(Oro, 7), NewCard(Oro, 12)},
			true,
		},
		{
			"two piezas",
			[]Card{NewCard(Copa, 2), NewCard(Copa, 4), NewCard(Espada, 3)},
			true,
		},
		{
			"pieza plus two same suit",
			[]Card{NewCard(Copa, 5), NewCard(Basto, 4), NewCard(Basto, 7)},
			true,
		},
		{
			"mixed hand",
			[]Card{NewCard(Oro, 2), NewCard(Basto, 7), NewCard(Espada, 12)},
			false,
		},
		{
			"two same suit no pieza",
			[]Card{NewCard(Oro, 2), NewCard(Oro, 7), NewCard(Espada, 12)},
			false,
		},
	}
	for _, tc := range cases {
		if got := HasFlor(tc.hand, muestra); got != tc.want {
			t.Errorf("%s: HasFlor = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFlorValue(t *testing.T) {
	muestra := NewCard(Copa, 6)

	// Plain same-suit flor: 20 + 1 + 3 + 6.
	hand := []Card{NewCard(Basto, 1), NewCard(Basto, 3), NewCard(Basto, 6)}
	if got := FlorValue(hand, muestra); got != 30 {
		t.Errorf("plain flor should score 30, got %d", got)
	}

	// Two piezas: the second contributes only its units digit.
	hand = []Card{NewCard(Copa, 2), NewCard(Copa, 4), NewCard(Espada, 7)}
	if got := FlorValue(hand, muestra); got != 56 {
		t.Errorf("pieza flor should score 20+30+9+7=56, got %d", got)
	}
}
