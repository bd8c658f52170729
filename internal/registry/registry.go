// Package registry owns all live tables and the player-to-table index.
// It is an explicit object with its own lifecycle so multiple instances can
// coexist under test; there is no package-level state.
package registry

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/cardroom/truco/internal/game"
)

var (
	ErrRoomExists     = errors.New("registry: room id already taken")
	ErrRoomNotFound   = errors.New("registry: room not found")
	ErrRoomFull       = errors.New("registry: room is full")
	ErrAlreadyInRoom  = errors.New("registry: player already in a room")
	ErrPlayerNotFound = errors.New("registry: player not found")
)

// RoomSize selects the table format.
type RoomSize int

const (
	Size1v1 RoomSize = iota + 1
	Size2v2
	Size3v3
)

// MaxPlayers returns the seat count for the format.
func (s RoomSize) MaxPlayers() int {
	switch s {
	case Size1v1:
		return 2
	case Size2v2:
		return 4
	case Size3v3:
		return 6
	default:
		return 0
	}
}

// ParseRoomSize maps the wire format names onto room sizes.
func ParseRoomSize(s string) (RoomSize, bool) {
	switch s {
	case "1v1":
		return Size1v1, true
	case "2v2":
		return Size2v2, true
	case "3v3":
		return Size3v3, true
	default:
		return 0, false
	}
}

// TableSummary is the lightweight listing entry for a lobby.
type TableSummary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Phase       string `json:"phase"`
}

// Registry maps table ids to live tables and player ids to their table.
// A player belongs to at most one table; re-registration moves the mapping.
// Safe for concurrent use by many connection handlers.
type Registry struct {
	mu          sync.RWMutex
	tables      map[string]*game.Table
	playerTable map[string]string
	logger      *log.Logger
}

// New creates an empty registry.
func New(logger *log.Logger) *Registry {
	return &Registry{
		tables:      make(map[string]*game.Table),
		playerTable: make(map[string]string),
		logger:      logger.WithPrefix("registry"),
	}
}

// CreateTable creates and registers a table for the given seats. An empty
// id gets a generated one. Fails if the id is taken or any player is
// already seated elsewhere.
func (r *Registry) CreateTable(id string, seats []game.Seat, size RoomSize, opts game.Options) (*game.Table, error) {
	if id == "" {
		id = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[id]; ok {
		return nil, ErrRoomExists
	}
	if len(seats) > size.MaxPlayers() {
		return nil, ErrRoomFull
	}
	seated := funk.Contains(seats, func(s game.Seat) bool {
		_, ok := r.playerTable[s.ID]
		return ok
	})
	if seated {
		return nil, ErrAlreadyInRoom
	}

	opts.MaxPlayers = size.MaxPlayers()
	table, err := game.NewTable(id, seats, opts)
	if err != nil {
		return nil, err
	}
	r.tables[id] = table
	for _, s := range seats {
		r.playerTable[s.ID] = id
	}
	r.logger.Info("Created table", "table", id, "players", len(seats), "maxPlayers", size.MaxPlayers())
	return table, nil
}

// JoinTable seats a new player at an existing table. A player belongs to
// at most one table; joining from another table fails rather than moving
// silently.
func (r *Registry) JoinTable(tableID string, seat game.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[tableID]
	if !ok {
		return ErrRoomNotFound
	}
	if _, ok := r.playerTable[seat.ID]; ok {
		return ErrAlreadyInRoom
	}
	if table.HasPlayer(seat.ID) {
		// Seat survived a disconnect; just restore the mapping.
		r.playerTable[seat.ID] = tableID
		return nil
	}
	if table.Full() {
		return ErrRoomFull
	}
	if res := table.AddSeat(seat); !res.OK {
		return ErrRoomFull
	}
	r.playerTable[seat.ID] = tableID
	r.logger.Info("Player joined table", "table", tableID, "player", seat.ID)
	return nil
}

// FindByPlayer returns the table a player is registered at.
func (r *Registry) FindByPlayer(playerID string) (*game.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tableID, ok := r.playerTable[playerID]
	if !ok {
		return nil, false
	}
	table, ok := r.tables[tableID]
	return table, ok
}

// Get returns a table by id.
func (r *Registry) Get(tableID string) (*game.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[tableID]
	return table, ok
}

// Leave removes the player's registry mapping. The table is evicted once no
// registered human ids remain, not merely no live connections, since
// reconnection must stay possible until then. Bot seats never hold a table
// open on their own.
func (r *Registry) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tableID, ok := r.playerTable[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	delete(r.playerTable, playerID)

	table := r.tables[tableID]
	for id, tid := range r.playerTable {
		if tid != tableID {
			continue
		}
		if table != nil && table.IsBot(id) {
			continue
		}
		return nil
	}
	for id, tid := range r.playerTable {
		if tid == tableID {
			delete(r.playerTable, id)
		}
	}
	delete(r.tables, tableID)
	r.logger.Info("Evicted empty table", "table", tableID)
	return nil
}

// Reconnect remaps a player identity in place, preserving hand, score and
// turn state across a connection drop.
func (r *Registry) Reconnect(oldID, newID string) (*game.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tableID, ok := r.playerTable[oldID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	table := r.tables[tableID]
	if oldID != newID {
		if _, taken := r.playerTable[newID]; taken {
			return nil, ErrAlreadyInRoom
		}
		if !table.RenamePlayer(oldID, newID) {
			return nil, ErrPlayerNotFound
		}
		delete(r.playerTable, oldID)
		r.playerTable[newID] = tableID
	}
	r.logger.Info("Reconnected player", "table", tableID, "old", oldID, "new", newID)
	return table, nil
}

// ListActiveTables returns summaries for a lobby listing.
func (r *Registry) ListActiveTables() []TableSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TableSummary, 0, len(r.tables))
	for id, table := range r.tables {
		count := 0
		for _, tid := range r.playerTable {
			if tid == id {
				count++
			}
		}
		out = append(out, TableSummary{
			ID:          id,
			PlayerCount: count,
			MaxPlayers:  table.MaxPlayers(),
			Phase:       table.Phase().String(),
		})
	}
	return out
}

// TableCount returns the number of live tables.
func (r *Registry) TableCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
