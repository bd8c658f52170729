package session

import (
	"sync"

	"github.com/coder/quartz"

	"github.com/cardroom/truco/internal/bot"
	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/randutil"
)

// tableHub serializes one table's outbound events. The engine emits with
// its lock held, so the hub only enqueues there and does the actual work
// (bot decisions, view fan-out, auto-advance) on its own goroutine.
type tableHub struct {
	m     *Manager
	table *game.Table

	events chan game.Event
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	bots    map[string]*bot.Agent
	advance *quartz.Timer
}

func newTableHub(m *Manager, table *game.Table) *tableHub {
	return &tableHub{
		m:      m,
		table:  table,
		events: make(chan game.Event, 64),
		done:   make(chan struct{}),
		bots:   make(map[string]*bot.Agent),
	}
}

// OnEvent implements game.EventSink. Never blocks the engine: a full queue
// drops the event for the hub and relies on view snapshots to resync.
func (h *tableHub) OnEvent(tableID string, e game.Event) {
	select {
	case h.events <- e:
	default:
		h.m.logger.Warn("Event queue full, dropping", "table", tableID, "event", e.EventType())
	}
}

func (h *tableHub) addBot(playerID string) {
	team := 0
	for i, id := range h.table.PlayerIDs() {
		if id == playerID {
			team = i%2 + 1
			break
		}
	}
	seed := h.m.cfg.Seed + int64(len(h.bots)) + 1
	agent := bot.New(playerID, team, h.table, bot.Config{
		DelayMin: h.m.cfg.BotDelayMin,
		DelayMax: h.m.cfg.BotDelayMax,
		Seed:     randutil.New(seed).Int64(),
	}, h.m.logger)
	h.mu.Lock()
	h.bots[playerID] = agent
	h.mu.Unlock()
}

func (h *tableHub) run() {
	for {
		select {
		case e := <-h.events:
			h.dispatch(e)
		case <-h.done:
			return
		}
	}
}

func (h *tableHub) dispatch(e game.Event) {
	h.mu.Lock()
	agents := make([]*bot.Agent, 0, len(h.bots))
	for _, a := range h.bots {
		agents = append(agents, a)
	}
	h.mu.Unlock()

	for _, a := range agents {
		a.HandleEvent(e)
	}

	botIDs := map[string]bool{}
	for _, a := range agents {
		botIDs[a.PlayerID()] = true
	}
	for _, id := range h.table.PlayerIDs() {
		if botIDs[id] {
			continue
		}
		h.m.sender.SendEvent(id, h.table.ID(), e)
		h.m.sender.SendView(id, h.table.ViewFor(id))
	}

	switch e.(type) {
	case game.RoundFinishedEvent:
		h.scheduleAdvance()
	case game.GameFinishedEvent:
		h.stopBots()
	}
}

// scheduleAdvance arms the externally-policed pause before the next round.
func (h *tableHub) scheduleAdvance() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.advance != nil {
		h.advance.Stop()
	}
	h.advance = h.m.clock.AfterFunc(h.m.cfg.AdvanceDelay, func() {
		if res := h.table.StartRound(); !res.OK {
			h.m.logger.Debug("Auto-advance skipped", "table", h.table.ID(), "reason", res.Reason)
		}
	})
}

func (h *tableHub) stopBots() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.bots {
		a.Stop()
	}
}

func (h *tableHub) stop() {
	h.once.Do(func() {
		close(h.done)
	})
	h.stopBots()
	h.mu.Lock()
	if h.advance != nil {
		h.advance.Stop()
	}
	h.mu.Unlock()
}
