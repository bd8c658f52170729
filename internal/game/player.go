package game

import "github.com/cardroom/truco/internal/deck"

// Player represents one seat at a table. A player is owned by exactly one
// Table and is only ever mutated under that table's lock.
type Player struct {
	ID           string
	Name         string
	Team         int
	Hand         []deck.Card
	IsDealer     bool
	IsBot        bool
	HasFolded    bool
	Participates bool // still in the current sub-round
}

// holds reports whether the player still has the card in hand.
func (p *Player) holds(c deck.Card) bool {
	for _, h := range p.Hand {
		if h == c {
			return true
		}
	}
	return false
}

// remove takes a card out of the player's hand.
func (p *Player) remove(c deck.Card) {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// active reports whether the player participates in trick play right now.
func (p *Player) active() bool {
	return !p.HasFolded && p.Participates
}

// Team groups the players on one side and carries their running score.
// Scores only ever grow; there is no score reset short of a new game.
type Team struct {
	ID      int
	Players []*Player
	Score   int
}

// TeamCount is always two: mano and pie rotate, teams do not.
const TeamCount = 2

func opposingTeam(team int) int {
	if team == 1 {
		return 2
	}
	return 1
}
