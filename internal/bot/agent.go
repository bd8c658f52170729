// Package bot drives table seats through the same command surface a human
// connection uses. Agents never touch table internals: they read their own
// redacted view, decide by heuristics plus a randomized personality, and
// issue commands after a humanised delay.
package bot

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/weedbox/timebank"

	"github.com/cardroom/truco/internal/deck"
	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/randutil"
)

// Config tunes an agent.
type Config struct {
	DelayMin time.Duration // artificial think time window
	DelayMax time.Duration
	Seed     int64
}

// Agent plays one bot seat at one table.
type Agent struct {
	playerID    string
	team        int
	table       *game.Table
	rng         *rand.Rand
	tb          *timebank.TimeBank
	delayMin    time.Duration
	delayMax    time.Duration
	personality Personality
	handsWon    int
	logger      *log.Logger
}

// New creates an agent for the given seat.
func New(playerID string, team int, table *game.Table, cfg Config, logger *log.Logger) *Agent {
	a := &Agent{
		playerID: playerID,
		team:     team,
		table:    table,
		rng:      randutil.New(cfg.Seed),
		tb:       timebank.NewTimeBank(),
		delayMin: cfg.DelayMin,
		delayMax: cfg.DelayMax,
		logger:   logger.WithPrefix("bot").With("player", playerID),
	}
	a.personality = newPersonality(a.rng)
	return a
}

// PlayerID returns the seat this agent controls.
func (a *Agent) PlayerID() string {
	return a.playerID
}

// Stop cancels any scheduled decision.
func (a *Agent) Stop() {
	a.tb.Cancel()
}

// HandleEvent reacts to a table event. Decisions are scheduled on the time
// bank so bot responses are never instantaneous.
func (a *Agent) HandleEvent(e game.Event) {
	switch ev := e.(type) {
	case game.RoundStarted:
		a.personality = newPersonality(a.rng)
		a.schedule(a.openingCalls)
	case game.CutRequested:
		if ev.PlayerID == a.playerID {
			a.schedule(a.cut)
		}
	case game.TurnChanged:
		if ev.PlayerID == a.playerID {
			a.schedule(a.act)
		}
	case game.BetCalled:
		if ev.Team != a.team {
			a.schedule(func() { a.respond(ev.Bet) })
		}
	case game.HandResolvedEvent:
		if ev.WinnerTeam == a.team {
			a.handsWon++
		}
	}
}

func (a *Agent) schedule(fn func()) {
	delay := randutil.Between(a.rng, a.delayMin, a.delayMax)
	err := a.tb.NewTask(delay, func(isCancelled bool) {
		if isCancelled {
			return
		}
		fn()
	})
	if err != nil {
		a.logger.Error("Failed to schedule decision", "error", err)
	}
}

// cut picks a cut position, occasionally throwing the perros first when the
// table allows it.
func (a *Agent) cut() {
	if a.scoreDeficit()*2 >= a.table.ScoreLimit() && a.chance(0.3+a.personality.Impulsiveness) {
		if res := a.table.EcharPerros(a.playerID); res.OK {
			return
		}
	}
	pos := 1 + a.rng.IntN(deck.Size)
	a.table.CutDeck(a.playerID, pos)
}

// openingCalls declares a mandatory flor and considers opening the envido.
func (a *Agent) openingCalls() {
	if a.table.HasFlor(a.playerID) {
		if res := a.table.CallFlor(a.playerID); res.OK {
			return
		}
	}

	view := a.table.ViewFor(a.playerID)
	if view.PendingBet != "" || view.Phase != game.Playing.String() {
		return
	}
	envido := deck.BestEnvido(a.hand(), a.table.Muestra())
	p := a.envidoCallProbability(envido)
	if a.chance(p) {
		kind := game.Envido
		if envido >= 31 && a.chance(a.personality.Aggression) {
			kind = game.RealEnvido
		}
		a.table.CallEnvido(a.playerID, kind, 0)
	}
}

// act plays a card on the bot's turn, possibly calling truco first.
func (a *Agent) act() {
	view := a.table.ViewFor(a.playerID)
	if view.TurnPlayerID != a.playerID || view.PendingBet != "" {
		return
	}

	strength := a.handStrength()
	if p := a.trucoCallProbability(strength, view.AcceptedTruco); a.chance(p) {
		if res := a.table.CallTruco(a.playerID, view.AcceptedTruco+1); res.OK {
			return
		}
	}

	card := a.chooseCard(view)
	a.table.PlayCard(a.playerID, card)
}

// chooseCard implements the card-play policy: respond with the cheapest
// winning card, dump the weakest when nothing wins, and lead a middling
// card unless the round has gone badly enough to lead strength.
func (a *Agent) chooseCard(view game.TableView) deck.Card {
	hand := a.hand()
	if len(hand) == 0 {
		panic("bot: acting with an empty hand")
	}
	muestra := a.table.Muestra()

	ordered := append([]deck.Card(nil), hand...)
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if deck.Power(ordered[j], muestra) < deck.Power(ordered[i], muestra) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	bestOnMesa := -1
	for _, pc := range view.Mesa {
		if pc.Hand != view.HandNum {
			continue
		}
		if p := deck.Power(pc.Card, muestra); p > bestOnMesa {
			bestOnMesa = p
		}
	}

	if bestOnMesa < 0 {
		// Leading. A trailing bot leads its strongest card.
		if a.farBehind() {
			return ordered[len(ordered)-1]
		}
		return ordered[len(ordered)/2]
	}
	for _, c := range ordered {
		if deck.Power(c, muestra) > bestOnMesa {
			return c
		}
	}
	return ordered[0]
}

// respond answers a pending bet from the opposing team.
func (a *Agent) respond(bet string) {
	view := a.table.ViewFor(a.playerID)
	if view.PendingBet == "" || view.PendingTeam == a.team {
		return
	}

	switch bet {
	case "envido", "real envido", "falta envido", "envido cargado":
		a.respondEnvido()
	case "truco", "retruco", "vale cuatro":
		a.respondTruco(view)
	case "flor", "con flor envido", "contra flor", "contra flor al resto":
		a.respondFlor()
	case "perros":
		a.respondPerros()
	}
}

func (a *Agent) respondEnvido() {
	envido := deck.BestEnvido(a.hand(), a.table.Muestra())
	threshold := 25.0 + a.personality.Conservatism*5
	accept := float64(envido) >= threshold || a.chance(a.personality.BluffRate)
	if accept && envido >= 31 && a.chance(a.personality.Aggression*0.6) {
		if res := a.table.CallEnvido(a.playerID, game.RealEnvido, 0); res.OK {
			return
		}
	}
	a.table.RespondEnvido(a.playerID, accept)
}

func (a *Agent) respondTruco(view game.TableView) {
	strength := a.handStrength()
	threshold := 0.35 + a.personality.Conservatism*0.25
	accept := strength >= threshold || a.chance(a.personality.BluffRate)

	var escalate game.TrucoLevel
	if accept && strength > 0.65 && a.chance(a.personality.Aggression) {
		next := view.AcceptedTruco + 2 // respond to level N by raising N+1
		if next <= game.ValeCuatro {
			escalate = next
		}
	}
	a.table.RespondTruco(a.playerID, accept, escalate)
}

func (a *Agent) respondFlor() {
	if !a.table.HasFlor(a.playerID) {
		a.table.RespondFlor(a.playerID, game.FlorAchico)
		return
	}
	flor := deck.FlorValue(a.hand(), a.table.Muestra())
	switch {
	case flor >= 38 && a.chance(a.personality.Aggression):
		if res := a.table.RespondFlor(a.playerID, game.FlorRaiseContraFlor); res.OK {
			return
		}
		a.table.RespondFlor(a.playerID, game.FlorAccept)
	case flor >= 30 || a.chance(a.personality.BluffRate):
		a.table.RespondFlor(a.playerID, game.FlorAccept)
	default:
		a.table.RespondFlor(a.playerID, game.FlorAchico)
	}
}

func (a *Agent) respondPerros() {
	envido := deck.BestEnvido(a.hand(), a.table.Muestra())
	strength := a.handStrength()
	wantsFalta := float64(envido) >= 27-a.personality.Aggression*3
	wantsTruco := strength >= 0.45+a.personality.Conservatism*0.2
	a.table.RespondPerros(a.playerID, wantsFalta, wantsTruco)
}

// handStrength maps the hand's card powers onto [0,1], weighting the top
// card most since one unbeatable card usually decides a round.
func (a *Agent) handStrength() float64 {
	hand := a.hand()
	if len(hand) == 0 {
		return 0
	}
	muestra := a.table.Muestra()
	best, sum := 0, 0
	for _, c := range hand {
		p := deck.Power(c, muestra)
		sum += p
		if p > best {
			best = p
		}
	}
	const maxPower = 19.0
	avg := float64(sum) / float64(len(hand)) / maxPower
	top := float64(best) / maxPower
	return 0.6*top + 0.4*avg
}

func (a *Agent) envidoCallProbability(envido int) float64 {
	switch {
	case envido >= 31:
		return 0.75 + a.personality.Aggression*0.2
	case envido >= 27:
		return 0.4 + a.personality.Aggression*0.3
	case envido >= 23:
		return 0.15 + a.personality.Aggression*0.15
	default:
		return a.personality.BluffRate
	}
}

func (a *Agent) trucoCallProbability(strength float64, accepted game.TrucoLevel) float64 {
	if accepted >= game.ValeCuatro {
		return 0
	}
	p := (strength - 0.5) * (1.2 + a.personality.Aggression)
	if p < 0 {
		p = 0
	}
	// Weak hands still bark occasionally.
	p += a.personality.BluffRate * 0.5
	// Escalations get rarer as the ladder climbs.
	p /= float64(accepted + 1)
	if p > 0.85 {
		p = 0.85
	}
	return p
}

func (a *Agent) hand() []deck.Card {
	return a.table.HandOf(a.playerID)
}

func (a *Agent) scoreDeficit() int {
	scores := a.table.Scores()
	return scores[a.opponentIdx()] - scores[a.team-1]
}

func (a *Agent) opponentIdx() int {
	return 2 - a.team
}

// farBehind reports whether the bot should abandon measured play: it lost
// the previous hand of this round or trails badly on score.
func (a *Agent) farBehind() bool {
	view := a.table.ViewFor(a.playerID)
	for _, w := range view.HandWinners {
		if w != 0 && w != a.team {
			return true
		}
	}
	return a.scoreDeficit() >= a.table.ScoreLimit()/2
}

func (a *Agent) chance(p float64) bool {
	return a.rng.Float64() < p
}
