package game

import "github.com/cardroom/truco/internal/deck"

// PlayerView is one player as seen by a specific viewer. Another player's
// unplayed cards are replaced with opaque placeholders.
type PlayerView struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Team         int         `json:"team"`
	Hand         []deck.Card `json:"hand"`
	IsDealer     bool        `json:"isDealer"`
	IsBot        bool        `json:"isBot"`
	HasFolded    bool        `json:"hasFolded"`
	Participates bool        `json:"participates"`
}

// TableView is the per-player redacted snapshot of a table. ViewFor is the
// only confidentiality boundary: nothing else may carry concealed cards.
type TableView struct {
	TableID       string         `json:"tableId"`
	ViewerID      string         `json:"viewerId"`
	Phase         string         `json:"phase"`
	Round         int            `json:"round"`
	HandNum       int            `json:"handNum"`
	Muestra       deck.Card      `json:"muestra"`
	Players       []PlayerView   `json:"players"`
	Mesa          []PlayedCard   `json:"mesa"`
	HandWinners   []int          `json:"handWinners"`
	TurnPlayerID  string         `json:"turnPlayerId,omitempty"`
	DealerID      string         `json:"dealerId,omitempty"`
	CutterID      string         `json:"cutterId,omitempty"`
	Stake         int            `json:"stake"`
	AcceptedTruco TrucoLevel     `json:"acceptedTruco"`
	PendingBet    string         `json:"pendingBet,omitempty"`
	PendingTeam   int            `json:"pendingTeam,omitempty"`
	Scores        [TeamCount]int `json:"scores"`
	ScoreLimit    int            `json:"scoreLimit"`
	RoundWinner   int            `json:"roundWinner,omitempty"`
	GameWinner    int            `json:"gameWinner,omitempty"`
}

// ViewFor returns the table state redacted for the given viewer.
func (t *Table) ViewFor(viewerID string) TableView {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := TableView{
		TableID:       t.id,
		ViewerID:      viewerID,
		Phase:         t.phase.String(),
		Round:         t.roundNum,
		HandNum:       t.handNum,
		Muestra:       t.muestra,
		HandWinners:   append([]int(nil), t.handWinners...),
		Mesa:          append([]PlayedCard(nil), t.mesa...),
		Stake:         t.stake,
		AcceptedTruco: t.acceptedTruco,
		Scores:        t.scores(),
		ScoreLimit:    t.scoreLimit,
		RoundWinner:   t.roundWinner,
		GameWinner:    t.gameWinner,
	}
	if len(t.players) > 0 {
		v.DealerID = t.players[t.dealerIdx].ID
	}
	if t.phase == Playing || t.phase == Betting {
		v.TurnPlayerID = t.players[t.turnIdx].ID
	}
	if t.phase == Cutting && t.cutterIdx >= 0 {
		v.CutterID = t.players[t.cutterIdx].ID
	}
	switch {
	case t.truco != nil:
		v.PendingBet = t.truco.Level.String()
		v.PendingTeam = t.truco.CallerTeam
	case t.envido != nil:
		v.PendingBet = t.envido.Calls[len(t.envido.Calls)-1].Kind.String()
		v.PendingTeam = t.envido.CallerTeam
	case t.flor != nil:
		v.PendingBet = t.flor.Level.String()
		v.PendingTeam = t.flor.CallerTeam
	case t.perros != nil:
		v.PendingBet = "perros"
		v.PendingTeam = t.perros.CallerTeam
	}

	v.Players = make([]PlayerView, len(t.players))
	for i, p := range t.players {
		pv := PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Team:         p.Team,
			IsDealer:     p.IsDealer,
			IsBot:        p.IsBot,
			HasFolded:    p.HasFolded,
			Participates: p.Participates,
		}
		if p.ID == viewerID {
			pv.Hand = append([]deck.Card(nil), p.Hand...)
		} else {
			pv.Hand = make([]deck.Card, len(p.Hand))
			for j := range pv.Hand {
				pv.Hand[j] = deck.Hidden()
			}
		}
		v.Players[i] = pv
	}
	return v
}

// HandOf returns a copy of a player's current hand. Intended for the bot
// layer driving that same player; transports must use ViewFor.
func (t *Table) HandOf(playerID string) []deck.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.playerIdx(playerID)
	if i < 0 {
		return nil
	}
	return append([]deck.Card(nil), t.players[i].Hand...)
}
