package deck

// Card power in Uruguayan Truco is always relative to the muestra, the card
// turned up after the deal. The functions here are pure: nothing is ever
// cached on a Card, so two tables with different muestras can rank the same
// card differently.
//
// The ladder, from the top down:
//
//	piezas: 2, 4, 5, 11, 10 of the muestra's suit
//	matas:  1 espada, 1 basto, 7 espada, 7 oro
//	base:   3, 2, 1, 12, 11, 10, 7, 6, 5, 4
//
// When the muestra itself has a pieza rank it is out of play face up, and
// the 12 of its suit (the "alcahuete") inherits the muestra card's power.

// piezaRankPower maps a pieza rank to its slot above the matas.
var piezaRankPower = map[int]int{
	2:  19,
	4:  18,
	5:  17,
	11: 16,
	10: 15,
}

// basePower maps a rank to its power for plain cards.
var basePower = map[int]int{
	3:  10,
	2:  9,
	1:  8,
	12: 7,
	11: 6,
	10: 5,
	7:  4,
	6:  3,
	5:  2,
	4:  1,
}

const (
	powerSieteOro    = 11
	powerSieteEspada = 12
	powerAncaBasto   = 13
	powerAncaEspada  = 14
)

// PiezaEligible reports whether a rank turns the muestra's suit 12 into a
// stand-in for the muestra card.
func PiezaEligible(rank int) bool {
	_, ok := piezaRankPower[rank]
	return ok
}

// IsPieza reports whether c ranks as a pieza under the given muestra. The 12
// of the muestra's suit counts when it is standing in for a pieza muestra.
func IsPieza(c, muestra Card) bool {
	if c.Suit != muestra.Suit {
		return false
	}
	if PiezaEligible(c.Rank) {
		return true
	}
	return c.Rank == 12 && PiezaEligible(muestra.Rank)
}

// IsMata reports whether c is one of the four fixed top cards of the base
// hierarchy. A mata that happens to be a pieza ranks as a pieza instead.
func IsMata(c Card) bool {
	switch {
	case c.Suit == Espada && c.Rank == 1:
		return true
	case c.Suit == Basto && c.Rank == 1:
		return true
	case c.Suit == Espada && c.Rank == 7:
		return true
	case c.Suit == Oro && c.Rank == 7:
		return true
	}
	return false
}

// Power returns the strength of c relative to muestra. Higher wins a hand.
func Power(c, muestra Card) int {
	if c.Suit == muestra.Suit {
		if p, ok := piezaRankPower[c.Rank]; ok {
			return p
		}
		if c.Rank == 12 && PiezaEligible(muestra.Rank) {
			return piezaRankPower[muestra.Rank]
		}
	}
	switch {
	case c.Suit == Espada && c.Rank == 1:
		return powerAncaEspada
	case c.Suit == Basto && c.Rank == 1:
		return powerAncaBasto
	case c.Suit == Espada && c.Rank == 7:
		return powerSieteEspada
	case c.Suit == Oro && c.Rank == 7:
		return powerSieteOro
	}
	return basePower[c.Rank]
}
