package game

import "github.com/cardroom/truco/internal/deck"

// Event is a state change notification pushed to the table's sink. The set
// is closed; transports switch on the concrete type.
type Event interface {
	EventType() string
}

// EventSink receives events from a table. Sinks are called with the table
// lock held and must not call back into the table synchronously.
type EventSink interface {
	OnEvent(tableID string, e Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(tableID string, e Event)

// OnEvent implements EventSink.
func (f EventSinkFunc) OnEvent(tableID string, e Event) {
	f(tableID, e)
}

// RoundStarted is emitted after the deal, muestra turned up.
type RoundStarted struct {
	Round   int
	Dealer  string
	Muestra deck.Card
}

func (RoundStarted) EventType() string { return "round_started" }

// CutRequested asks the designated player for a cut position.
type CutRequested struct {
	PlayerID string
}

func (CutRequested) EventType() string { return "cut_requested" }

// TurnChanged announces whose turn it is to play a card.
type TurnChanged struct {
	PlayerID string
}

func (TurnChanged) EventType() string { return "turn_changed" }

// CardPlayed records a card hitting the mesa.
type CardPlayed struct {
	PlayerID string
	Card     deck.Card
	Hand     int
}

func (CardPlayed) EventType() string { return "card_played" }

// HandResolvedEvent reports a finished hand. WinnerTeam 0 is a parda.
type HandResolvedEvent struct {
	Hand       int
	WinnerTeam int
}

func (HandResolvedEvent) EventType() string { return "hand_resolved" }

// BetCalled announces an open bet awaiting a response.
type BetCalled struct {
	Bet      string
	Team     int
	PlayerID string
}

func (BetCalled) EventType() string { return "bet_called" }

// BetResolved reports an accepted, declined or scored bet. Points are 0
// for a plain acceptance that only raised the round stake.
type BetResolved struct {
	Bet        string
	Accepted   bool
	WinnerTeam int
	Points     int
}

func (BetResolved) EventType() string { return "bet_resolved" }

// CardsRevealed carries hands shown for envido or flor scoring. This is the
// only payload that ever exposes unplayed cards.
type CardsRevealed struct {
	Reveals []Reveal
}

func (CardsRevealed) EventType() string { return "cards_revealed" }

// PlayerFolded announces an "ir al mazo".
type PlayerFolded struct {
	PlayerID string
}

func (PlayerFolded) EventType() string { return "player_folded" }

// RoundFinishedEvent reports the round result and running scores.
type RoundFinishedEvent struct {
	WinnerTeam int
	Points     int
	Scores     [TeamCount]int
}

func (RoundFinishedEvent) EventType() string { return "round_finished" }

// GameFinishedEvent reports the end of the game.
type GameFinishedEvent struct {
	WinnerTeam int
	Scores     [TeamCount]int
}

func (GameFinishedEvent) EventType() string { return "game_finished" }
