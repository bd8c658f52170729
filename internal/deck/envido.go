package deck

// piezaEnvido maps pieza ranks to their envido values.
var piezaEnvido = map[int]int{
	2:  30,
	4:  29,
	5:  28,
	10: 27,
	11: 27,
}

// EnvidoValue returns the envido value of a single card relative to the
// muestra. Court cards are worth 0, piezas carry their fixed pieza values,
// and the muestra-suit 12 borrows the value of a pieza muestra.
func EnvidoValue(c, muestra Card) int {
	if c.Suit == muestra.Suit {
		if v, ok := piezaEnvido[c.Rank]; ok {
			return v
		}
		if c.Rank == 12 && PiezaEligible(muestra.Rank) {
			return piezaEnvido[muestra.Rank]
		}
	}
	if c.Rank >= 10 {
		return 0
	}
	return c.Rank
}

// piezaTail returns the contribution of a second pieza to an envido total:
// the units digit of its pieza value.
func piezaTail(c, muestra Card) int {
	return EnvidoValue(c, muestra) % 10
}

// BestEnvido returns the strongest envido score a hand can declare.
//
// With no piezas the classic rule applies: two cards of one suit score
// high+low+20, otherwise the single best card stands alone. A pieza scores
// its own value plus the best companion, where a second pieza contributes
// only the units digit of its value.
func BestEnvido(hand []Card, muestra Card) int {
	best := 0
	for i, a := range hand {
		av := EnvidoValue(a, muestra)
		if IsPieza(a, muestra) {
			score := av
			companion := 0
			for j, b := range hand {
				if j == i {
					continue
				}
				var contrib int
				if IsPieza(b, muestra) {
					contrib = piezaTail(b, muestra)
				} else {
					contrib = EnvidoValue(b, muestra)
				}
				if contrib > companion {
					companion = contrib
				}
			}
			score += companion
			if score > best {
				best = score
			}
			continue
		}
		if av > best {
			best = av
		}
		for j, b := range hand {
			if j <= i || IsPieza(b, muestra) || b.Suit != a.Suit {
				continue
			}
			if score := av + EnvidoValue(b, muestra) + 20; score > best {
				best = score
			}
		}
	}
	return best
}

// HasFlor reports whether a hand must declare flor under the given muestra:
// three cards of one suit, two or more piezas, or one pieza plus two cards
// of one suit.
func HasFlor(hand []Card, muestra Card) bool {
	if len(hand) != 3 {
		return false
	}
	piezas := 0
	for _, c := range hand {
		if IsPieza(c, muestra) {
			piezas++
		}
	}
	if piezas >= 2 {
		return true
	}
	if hand[0].Suit == hand[1].Suit && hand[1].Suit == hand[2].Suit {
		return true
	}
	if piezas == 1 {
		var rest []Card
		for _, c := range hand {
			if !IsPieza(c, muestra) {
				rest = append(rest, c)
			}
		}
		return len(rest) == 2 && rest[0].Suit == rest[1].Suit
	}
	return false
}

// FlorValue scores a declared flor: the envido values of all three cards
// plus 20, with piezas beyond the first contributing their units digit.
func FlorValue(hand []Card, muestra Card) int {
	total := 20
	seenPieza := false
	for _, c := range hand {
		if IsPieza(c, muestra) {
			if seenPieza {
				total += piezaTail(c, muestra)
				continue
			}
			seenPieza = true
		}
		total += EnvidoValue(c, muestra)
	}
	return total
}
