package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/cardroom/truco/internal/deck"
	"github.com/cardroom/truco/internal/randutil"
)

// Phase is the table state machine phase.
type Phase int

const (
	Waiting Phase = iota
	Dealing
	Cutting
	Playing
	Betting
	HandResolved
	RoundFinished
	GameFinished
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Dealing:
		return "dealing"
	case Cutting:
		return "cutting"
	case Playing:
		return "playing"
	case Betting:
		return "betting"
	case HandResolved:
		return "hand-resolved"
	case RoundFinished:
		return "round-finished"
	case GameFinished:
		return "game-finished"
	default:
		return "unknown"
	}
}

// PlayedCard is one entry of the ordered mesa log.
type PlayedCard struct {
	PlayerID string
	Card     deck.Card
	Hand     int
}

// Reveal surfaces concealed cards at envido or flor resolution. It is the
// only path by which another player's hand ever leaves the table.
type Reveal struct {
	PlayerID string
	Cards    []deck.Card
	Value    int
}

// Seat describes one player joining a new table.
type Seat struct {
	ID    string
	Name  string
	IsBot bool
}

// Options configures a new table.
type Options struct {
	ScoreLimit int   // points to win, default 30
	CutDeck    bool  // insert the cutting phase after each shuffle
	Seed       int64 // rng seed, 0 for nondeterministic
	MaxPlayers int   // 2, 4 or 6; defaults to the initial seat count
}

// Table is the authoritative state machine for one game. All commands lock
// the table; tables never share mutable state. Event sinks are invoked with
// the lock held and must not call back into the table.
type Table struct {
	mu sync.Mutex

	id      string
	players []*Player
	teams   [TeamCount]*Team

	rng     *rand.Rand
	deck    *deck.Deck
	muestra deck.Card

	phase       Phase
	prevPhase   Phase // phase to restore when a bet resolves
	roundNum    int
	dealerIdx   int
	cutterIdx   int
	turnIdx     int
	leaderIdx   int
	handNum     int
	mesa        []PlayedCard
	handWinners []int // team id per hand, 0 for a parda

	stake         int
	truco         *TrucoBet
	envido        *EnvidoBet
	flor          *FlorBet
	perros        *PerrosBet
	perrosReply   *perrosReply
	acceptedTruco TrucoLevel
	lastTrucoTeam int
	envidoClosed  bool

	scoreLimit  int
	maxPlayers  int
	roundWinner int
	gameWinner  int
	revealed    []Reveal

	sink EventSink
}

type perrosReply struct {
	florOrFalta bool
	truco       bool
}

// NewTable creates a table with the given seating. Seats alternate teams:
// even indices are team 1, odd are team 2. Valid table sizes are 2, 4 and
// 6; a table created short of MaxPlayers fills up through AddSeat.
func NewTable(id string, seats []Seat, opts Options) (*Table, error) {
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = len(seats)
	}
	switch opts.MaxPlayers {
	case 2, 4, 6:
	default:
		return nil, fmt.Errorf("table %s: unsupported table size %d", id, opts.MaxPlayers)
	}
	if len(seats) > opts.MaxPlayers {
		return nil, fmt.Errorf("table %s: %d seats for a %d-player table", id, len(seats), opts.MaxPlayers)
	}
	if opts.ScoreLimit <= 0 {
		opts.ScoreLimit = 30
	}

	t := &Table{
		id:         id,
		rng:        randutil.New(opts.Seed),
		phase:      Waiting,
		scoreLimit: opts.ScoreLimit,
		maxPlayers: opts.MaxPlayers,
		stake:      1,
	}
	if opts.CutDeck {
		t.cutterIdx = -1 // enabled, assigned per round
	} else {
		t.cutterIdx = -2 // disabled
	}
	t.deck = deck.New(t.rng)

	t.teams[0] = &Team{ID: 1}
	t.teams[1] = &Team{ID: 2}
	for i, s := range seats {
		p := &Player{
			ID:    s.ID,
			Name:  s.Name,
			Team:  i%2 + 1,
			IsBot: s.IsBot,
		}
		t.players = append(t.players, p)
		t.teams[i%2].Players = append(t.teams[i%2].Players, p)
	}
	return t, nil
}

// SetEventSink registers the sink that receives engine events.
func (t *Table) SetEventSink(sink EventSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = sink
}

func (t *Table) emit(e Event) {
	if t.sink != nil {
		t.sink.OnEvent(t.id, e)
	}
}

func (t *Table) cutEnabled() bool {
	return t.cutterIdx != -2
}

// ID returns the table id.
func (t *Table) ID() string {
	return t.id
}

// Phase returns the current phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// PlayerCount returns the number of seats.
func (t *Table) PlayerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}

// HasPlayer reports whether the player id is seated at this table.
func (t *Table) HasPlayer(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playerIdx(id) >= 0
}

// IsBot reports whether the seat belongs to a bot.
func (t *Table) IsBot(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.playerIdx(id)
	return i >= 0 && t.players[i].IsBot
}

// PlayerIDs returns the seated player ids in order.
func (t *Table) PlayerIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, len(t.players))
	for i, p := range t.players {
		ids[i] = p.ID
	}
	return ids
}

// MaxPlayers returns the table's seat capacity.
func (t *Table) MaxPlayers() int {
	return t.maxPlayers
}

// Full reports whether every seat is taken.
func (t *Table) Full() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players) == t.maxPlayers
}

// AddSeat seats a joining player on the smaller team. Only legal while the
// table is waiting for its first round.
func (t *Table) AddSeat(seat Seat) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Waiting {
		return fail(WrongPhase, "game already started")
	}
	if len(t.players) >= t.maxPlayers {
		return fail(NotInGame, "table is full")
	}
	if t.playerIdx(seat.ID) >= 0 {
		return fail(NotInGame, "player already seated")
	}

	team := 1
	if len(t.teams[0].Players) > len(t.teams[1].Players) {
		team = 2
	}
	p := &Player{ID: seat.ID, Name: seat.Name, Team: team, IsBot: seat.IsBot}
	t.players = append(t.players, p)
	t.team(team).Players = append(t.team(team).Players, p)
	return Success
}

// RemoveSeat unseats a player. Only legal before the first round starts;
// mid-game departures keep their seat for reconnection.
func (t *Table) RemoveSeat(playerID string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Waiting {
		return fail(WrongPhase, "game already started")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	p := t.players[i]
	t.players = append(t.players[:i], t.players[i+1:]...)
	team := t.team(p.Team)
	for j, tp := range team.Players {
		if tp == p {
			team.Players = append(team.Players[:j], team.Players[j+1:]...)
			break
		}
	}
	return Success
}

// RenamePlayer remaps a player identity in place, preserving hand, score
// and turn state. Used by the session layer on reconnect.
func (t *Table) RenamePlayer(oldID, newID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.playerIdx(oldID)
	if i < 0 || t.playerIdx(newID) >= 0 {
		return false
	}
	t.players[i].ID = newID
	return true
}

func (t *Table) playerIdx(id string) int {
	for i, p := range t.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) team(id int) *Team {
	return t.teams[id-1]
}

// manoIdx is the first-to-act seat, immediately after the dealer.
func (t *Table) manoIdx() int {
	return (t.dealerIdx + 1) % len(t.players)
}

// dealerTeam is the tie-break authority for pardas and envido ties.
func (t *Table) dealerTeam() int {
	return t.players[t.dealerIdx].Team
}

// StartRound rotates the dealer, shuffles, deals and opens play, or enters
// the cutting phase when a deck cut is configured.
func (t *Table) StartRound() Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.phase {
	case Waiting, RoundFinished:
	case GameFinished:
		return fail(GameOver, "game is over")
	default:
		return fail(WrongPhase, "round already in progress")
	}
	if len(t.players) < t.maxPlayers {
		return fail(WrongPhase, "waiting for players")
	}

	t.roundNum++
	if t.roundNum > 1 {
		t.dealerIdx = (t.dealerIdx + 1) % len(t.players)
	}
	for i, p := range t.players {
		p.IsDealer = i == t.dealerIdx
		p.HasFolded = false
		p.Participates = true
		p.Hand = nil
	}
	t.handNum = 1
	t.mesa = nil
	t.handWinners = nil
	t.stake = 1
	t.truco = nil
	t.envido = nil
	t.flor = nil
	t.perros = nil
	t.perrosReply = nil
	t.acceptedTruco = 0
	t.lastTrucoTeam = 0
	t.envidoClosed = false
	t.roundWinner = 0
	t.revealed = nil

	t.phase = Dealing
	t.deck.Reset()
	t.deck.Shuffle()

	if t.cutEnabled() {
		// The player across from the mano cuts before the deal.
		t.cutterIdx = (t.dealerIdx + len(t.players) - 1) % len(t.players)
		t.phase = Cutting
		t.emit(CutRequested{PlayerID: t.players[t.cutterIdx].ID})
		return Success
	}
	t.dealNow()
	return Success
}

// CutDeck applies the designated player's cut and deals.
func (t *Table) CutDeck(playerID string, pos int) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Cutting {
		return fail(WrongPhase, "no cut pending")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	if i != t.cutterIdx {
		return fail(IllegalTurn, "not the cutting player")
	}
	if !t.deck.Cut(pos) {
		return fail(UnknownCard, fmt.Sprintf("cut position %d out of range", pos))
	}
	t.dealNow()
	t.resolvePerrosAfterDeal()
	return Success
}

// dealNow deals hands, turns the muestra and opens the first hand.
// Caller holds the lock.
func (t *Table) dealNow() {
	hands, muestra := t.deck.Deal(len(t.players))
	for i, p := range t.players {
		p.Hand = hands[i]
	}
	t.muestra = muestra
	t.leaderIdx = t.manoIdx()
	t.turnIdx = t.leaderIdx
	t.phase = Playing

	t.emit(RoundStarted{
		Round:   t.roundNum,
		Dealer:  t.players[t.dealerIdx].ID,
		Muestra: t.muestra,
	})
	t.emit(TurnChanged{PlayerID: t.players[t.turnIdx].ID})
}

// Muestra returns the turned-up card for the current round.
func (t *Table) Muestra() deck.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.muestra
}

// Fold ends the round in favour of the opposing team at the current stake.
// Any pending bet is cancelled without payout.
func (t *Table) Fold(playerID string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.phase {
	case Cutting, Playing, Betting:
	default:
		return fail(WrongPhase, "no round in progress")
	}
	i := t.playerIdx(playerID)
	if i < 0 {
		return fail(NotInGame, "not seated at this table")
	}
	p := t.players[i]
	p.HasFolded = true

	t.truco = nil
	t.envido = nil
	t.flor = nil
	t.perros = nil
	t.perrosReply = nil

	t.emit(PlayerFolded{PlayerID: playerID})
	t.finishRound(opposingTeam(p.Team), t.stake)
	return Success
}

// finishRound credits points and either freezes the game or parks the table
// for external auto-advance. Caller holds the lock.
func (t *Table) finishRound(winnerTeam, points int) {
	t.team(winnerTeam).Score += points
	t.roundWinner = winnerTeam
	t.emit(RoundFinishedEvent{
		WinnerTeam: winnerTeam,
		Points:     points,
		Scores:     t.scores(),
	})
	if !t.checkGameOver() {
		t.phase = RoundFinished
	}
}

// creditPoints awards bet points outside round resolution (envido, flor).
// Returns true if the game ended. Caller holds the lock.
func (t *Table) creditPoints(team, points int) bool {
	t.team(team).Score += points
	return t.checkGameOver()
}

func (t *Table) checkGameOver() bool {
	for _, team := range t.teams {
		if team.Score >= t.scoreLimit {
			t.gameWinner = team.ID
			t.phase = GameFinished
			t.emit(GameFinishedEvent{WinnerTeam: team.ID, Scores: t.scores()})
			return true
		}
	}
	return false
}

func (t *Table) scores() [TeamCount]int {
	return [TeamCount]int{t.teams[0].Score, t.teams[1].Score}
}

// Scores returns both team scores, indexed by team id minus one.
func (t *Table) Scores() [TeamCount]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scores()
}

// ScoreLimit returns the points required to win the game.
func (t *Table) ScoreLimit() int {
	return t.scoreLimit
}

// Round returns the number of rounds dealt so far.
func (t *Table) Round() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roundNum
}

// RoundWinner returns the winning team of the last resolved round, or 0.
func (t *Table) RoundWinner() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roundWinner
}

// GameWinner returns the winning team once the game is over, or 0.
func (t *Table) GameWinner() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gameWinner
}

// anyBetPending reports whether a bet object is open. Truco-family and
// envido-family bets are mutually exclusive by construction.
func (t *Table) anyBetPending() bool {
	return t.truco != nil || t.envido != nil || t.flor != nil || t.perros != nil
}

// enterBetting parks trick play while a bet awaits response.
func (t *Table) enterBetting() {
	if t.phase != Betting {
		t.prevPhase = t.phase
		t.phase = Betting
	}
}

// leaveBetting resumes the phase that the bet interrupted.
func (t *Table) leaveBetting() {
	if t.phase == Betting {
		t.phase = t.prevPhase
	}
}
