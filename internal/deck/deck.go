package deck

import rand "math/rand/v2"

// Size is the number of cards in a Spanish Truco deck.
const Size = 40

// Deck represents a shuffled 40-card deck
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full deck in canonical order using the provided rng for
// shuffles. The rng must not be nil.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Reset restores the deck to the full 40 cards in canonical order.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
}

// Shuffle performs a uniform Fisher-Yates permutation.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Cut rotates the deck at pos, counted 1..40 from the top. An out-of-range
// pos leaves the deck untouched and reports false.
func (d *Deck) Cut(pos int) bool {
	if pos < 1 || pos > len(d.cards) {
		return false
	}
	d.cards = append(d.cards[pos:], d.cards[:pos]...)
	return true
}

// Deal returns n hands of 3 cards, dealing one card to every hand per pass
// the way a physical dealer does, then turns up the muestra. Panics if the
// deck cannot cover the deal; deck size is a fixed invariant, not a
// recoverable error.
func (d *Deck) Deal(n int) (hands [][]Card, muestra Card) {
	if n*3+1 > len(d.cards) {
		panic("deck: not enough cards to deal")
	}
	hands = make([][]Card, n)
	for i := range hands {
		hands[i] = make([]Card, 0, 3)
	}
	for pass := 0; pass < 3; pass++ {
		for i := 0; i < n; i++ {
			hands[i] = append(hands[i], d.cards[0])
			d.cards = d.cards[1:]
		}
	}
	muestra = d.cards[0]
	d.cards = d.cards[1:]
	return hands, muestra
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
