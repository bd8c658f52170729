// Package session glues the registry, the bots and the timing contracts
// together: disconnect grace periods, auto-advance between rounds and bot
// turn scheduling. All timers run on an injected clock so tests can
// fast-forward virtual time.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/registry"
)

// Sender is the outbound port the transport implements. The session layer
// never talks to sockets directly.
type Sender interface {
	SendEvent(playerID, tableID string, e game.Event)
	SendView(playerID string, view game.TableView)
}

// Config carries the timing contracts.
type Config struct {
	GracePeriod  time.Duration // disconnect grace before a player is treated as gone
	AdvanceDelay time.Duration // pause between a resolved round and the next deal
	BotDelayMin  time.Duration // bot think time window
	BotDelayMax  time.Duration
	Seed         int64
}

// Manager owns the live tables' surroundings: one event hub per table, bot
// agents, grace timers and auto-advance timers.
type Manager struct {
	mu       sync.Mutex
	registry *registry.Registry
	clock    quartz.Clock
	cfg      Config
	sender   Sender
	logger   *log.Logger

	hubs        map[string]*tableHub
	graceTimers map[string]*quartz.Timer
	botSeq      int64
}

// NewManager creates a session manager around the given registry.
func NewManager(reg *registry.Registry, clock quartz.Clock, cfg Config, sender Sender, logger *log.Logger) *Manager {
	return &Manager{
		registry:    reg,
		clock:       clock,
		cfg:         cfg,
		sender:      sender,
		logger:      logger.WithPrefix("session"),
		hubs:        make(map[string]*tableHub),
		graceTimers: make(map[string]*quartz.Timer),
	}
}

// Registry exposes the underlying registry for lobby listings and command
// routing.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// CreateTable creates a table seating the given humans plus botCount bots,
// and wires up its event hub.
func (m *Manager) CreateTable(id string, humans []game.Seat, botCount int, size registry.RoomSize, opts game.Options) (*game.Table, error) {
	if len(humans)+botCount > size.MaxPlayers() {
		return nil, registry.ErrRoomFull
	}

	seats := make([]game.Seat, 0, len(humans)+botCount)
	seats = append(seats, humans...)
	for i := 0; i < botCount; i++ {
		seats = append(seats, m.newBotSeat())
	}
	table, err := m.registry.CreateTable(id, seats, size, opts)
	if err != nil {
		return nil, err
	}

	hub := newTableHub(m, table)
	m.mu.Lock()
	m.hubs[table.ID()] = hub
	m.mu.Unlock()

	botSeats := funk.Filter(seats, func(s game.Seat) bool { return s.IsBot }).([]game.Seat)
	for _, s := range botSeats {
		hub.addBot(s.ID)
	}
	table.SetEventSink(hub)
	go hub.run()
	return table, nil
}

func (m *Manager) newBotSeat() game.Seat {
	m.mu.Lock()
	m.botSeq++
	seq := m.botSeq
	m.mu.Unlock()
	id := fmt.Sprintf("bot-%s", uuid.New().String()[:8])
	return game.Seat{ID: id, Name: fmt.Sprintf("Bot %d", seq), IsBot: true}
}

// JoinTable seats a human at an existing table.
func (m *Manager) JoinTable(tableID string, seat game.Seat) error {
	return m.registry.JoinTable(tableID, seat)
}

// LeaveTable removes a player deliberately, tearing the table down when it
// was the last registered human.
func (m *Manager) LeaveTable(playerID string) error {
	m.cancelGrace(playerID)
	table, ok := m.registry.FindByPlayer(playerID)
	if !ok {
		return registry.ErrPlayerNotFound
	}
	if table.Phase() == game.Waiting {
		table.RemoveSeat(playerID)
	}
	if err := m.registry.Leave(playerID); err != nil {
		return err
	}
	if _, alive := m.registry.Get(table.ID()); !alive {
		m.stopTable(table.ID())
	}
	return nil
}

// PlayerDisconnected starts the grace timer. If the same logical player
// reconnects before it fires the timer is cancelled; on expiry the player
// is treated as having left.
func (m *Manager) PlayerDisconnected(playerID string) {
	if _, ok := m.registry.FindByPlayer(playerID); !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.graceTimers[playerID]; ok {
		t.Stop()
	}
	m.logger.Info("Starting grace timer", "player", playerID, "grace", m.cfg.GracePeriod)
	m.graceTimers[playerID] = m.clock.AfterFunc(m.cfg.GracePeriod, func() {
		m.mu.Lock()
		delete(m.graceTimers, playerID)
		m.mu.Unlock()
		m.logger.Info("Grace expired, removing player", "player", playerID)
		_ = m.LeaveTable(playerID)
	})
}

// PlayerReconnected cancels the grace timer and remaps the connection
// identity in place, preserving hand, score and turn state exactly.
func (m *Manager) PlayerReconnected(oldID, newID string) (*game.Table, error) {
	m.cancelGrace(oldID)
	table, err := m.registry.Reconnect(oldID, newID)
	if err != nil {
		return nil, err
	}
	m.sender.SendView(newID, table.ViewFor(newID))
	return table, nil
}

func (m *Manager) cancelGrace(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.graceTimers[playerID]; ok {
		t.Stop()
		delete(m.graceTimers, playerID)
	}
}

func (m *Manager) stopTable(tableID string) {
	m.mu.Lock()
	hub, ok := m.hubs[tableID]
	if ok {
		delete(m.hubs, tableID)
	}
	m.mu.Unlock()
	if ok {
		hub.stop()
	}
}

// Close tears down every hub and timer.
func (m *Manager) Close() {
	m.mu.Lock()
	hubs := make([]*tableHub, 0, len(m.hubs))
	for _, h := range m.hubs {
		hubs = append(hubs, h)
	}
	m.hubs = make(map[string]*tableHub)
	for id, t := range m.graceTimers {
		t.Stop()
		delete(m.graceTimers, id)
	}
	m.mu.Unlock()
	for _, h := range hubs {
		h.stop()
	}
}
