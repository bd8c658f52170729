package deck

import "fmt"

// Suit represents a Spanish deck suit
type Suit int

const (
	Oro Suit = iota
	Copa
	Espada
	Basto
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Oro:
		return "oro"
	case Copa:
		return "copa"
	case Espada:
		return "espada"
	case Basto:
		return "basto"
	default:
		return "?"
	}
}

// Suits lists the four suits in deck-building order.
var Suits = []Suit{Oro, Copa, Espada, Basto}

// Ranks lists the ten ranks of the Spanish 40-card deck. There are no 8s or 9s.
var Ranks = []int{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Card represents a playing card. Rank 0 marks a concealed placeholder in
// redacted views; it never appears inside the engine.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank int) Card {
	return Card{Suit: suit, Rank: rank}
}

// Hidden returns the opaque placeholder used for other players' unplayed cards.
func Hidden() Card {
	return Card{Rank: 0}
}

// IsHidden reports whether the card is a concealed placeholder.
func (c Card) IsHidden() bool {
	return c.Rank == 0
}

// Valid reports whether the card is one of the 40 real cards.
func (c Card) Valid() bool {
	if c.Suit < Oro || c.Suit > Basto {
		return false
	}
	for _, r := range Ranks {
		if c.Rank == r {
			return true
		}
	}
	return false
}

// String returns the string representation of a card (e.g., "7 de oro")
func (c Card) String() string {
	if c.IsHidden() {
		return "??"
	}
	return fmt.Sprintf("%d de %s", c.Rank, c.Suit)
}
