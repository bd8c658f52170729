package server

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/registry"
	"github.com/cardroom/truco/internal/session"
)

// Router decodes client messages and maps them onto session and table
// commands. Engine rejections travel back as command_result payloads, not
// transport errors.
type Router struct {
	manager *session.Manager
	logger  *log.Logger
	sender  *Server
}

// NewRouter creates a router. The session manager is attached afterwards
// because the manager's outbound sender is the router itself.
func NewRouter(logger *log.Logger) *Router {
	return &Router{
		logger: logger.WithPrefix("router"),
	}
}

// SetManager attaches the session manager.
func (rt *Router) SetManager(manager *session.Manager) {
	rt.manager = manager
}

// SendEvent implements session.Sender by delegating to the websocket server.
func (rt *Router) SendEvent(playerID, tableID string, e game.Event) {
	if rt.sender != nil {
		rt.sender.SendEvent(playerID, tableID, e)
	}
}

// SendView implements session.Sender by delegating to the websocket server.
func (rt *Router) SendView(playerID string, view game.TableView) {
	if rt.sender != nil {
		rt.sender.SendView(playerID, view)
	}
}

// Handle processes one client message.
func (rt *Router) Handle(c *Connection, msg *Message) {
	if msg.Type != MessageTypeAuth && c.GetPlayer() == "" {
		c.sendError("unauthenticated", "authenticate first")
		return
	}

	switch msg.Type {
	case MessageTypeAuth:
		rt.handleAuth(c, msg.Data)
	case MessageTypeCreateTable:
		rt.handleCreateTable(c, msg.Data)
	case MessageTypeJoinTable:
		rt.handleJoinTable(c, msg.Data)
	case MessageTypeLeaveTable:
		rt.handleLeaveTable(c)
	case MessageTypeReconnect:
		rt.handleReconnect(c, msg.Data)
	case MessageTypeListTables:
		rt.handleListTables(c)
	default:
		rt.handleTableCommand(c, msg)
	}
}

func (rt *Router) handleAuth(c *Connection, data json.RawMessage) {
	var auth AuthData
	if err := json.Unmarshal(data, &auth); err != nil || auth.PlayerName == "" {
		rt.reply(c, MessageTypeAuthResponse, AuthResponseData{Success: false, Error: "player name required"})
		return
	}
	c.SetPlayer(auth.PlayerName)
	rt.reply(c, MessageTypeAuthResponse, AuthResponseData{Success: true, PlayerID: auth.PlayerName})
}

func (rt *Router) handleCreateTable(c *Connection, data json.RawMessage) {
	var req CreateTableData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("bad_message", "malformed create_table")
		return
	}
	size, ok := registry.ParseRoomSize(req.Size)
	if !ok {
		c.sendError("bad_message", "unknown room size")
		return
	}

	playerID := c.GetPlayer()
	humans := []game.Seat{{ID: playerID, Name: playerID}}
	table, err := rt.manager.CreateTable(req.TableID, humans, req.Bots, size, game.Options{
		ScoreLimit: req.ScoreLimit,
		CutDeck:    req.CutDeck,
	})
	if err != nil {
		c.sendError(registryErrorCode(err), err.Error())
		return
	}
	rt.reply(c, MessageTypeTableCreated, TableCreatedData{TableID: table.ID()})
	rt.sender.SendView(playerID, table.ViewFor(playerID))
}

func (rt *Router) handleJoinTable(c *Connection, data json.RawMessage) {
	var req JoinTableData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("bad_message", "malformed join_table")
		return
	}
	playerID := c.GetPlayer()
	if err := rt.manager.JoinTable(req.TableID, game.Seat{ID: playerID, Name: playerID}); err != nil {
		c.sendError(registryErrorCode(err), err.Error())
		return
	}
	rt.reply(c, MessageTypeTableJoined, TableJoinedData{TableID: req.TableID})
	if table, ok := rt.manager.Registry().Get(req.TableID); ok {
		rt.sender.SendView(playerID, table.ViewFor(playerID))
	}
}

func (rt *Router) handleLeaveTable(c *Connection) {
	if err := rt.manager.LeaveTable(c.GetPlayer()); err != nil {
		c.sendError(registryErrorCode(err), err.Error())
	}
}

func (rt *Router) handleReconnect(c *Connection, data json.RawMessage) {
	var req ReconnectData
	if err := json.Unmarshal(data, &req); err != nil || req.OldPlayerID == "" {
		c.sendError("bad_message", "malformed reconnect")
		return
	}
	if _, err := rt.manager.PlayerReconnected(req.OldPlayerID, c.GetPlayer()); err != nil {
		c.sendError(registryErrorCode(err), err.Error())
	}
}

func (rt *Router) handleListTables(c *Connection) {
	rt.reply(c, MessageTypeTableList, TableListData{
		Tables: rt.manager.Registry().ListActiveTables(),
	})
}

// handleTableCommand routes the per-table game commands.
func (rt *Router) handleTableCommand(c *Connection, msg *Message) {
	playerID := c.GetPlayer()
	table, ok := rt.manager.Registry().FindByPlayer(playerID)
	if !ok {
		c.sendError("room_not_found", "not at a table")
		return
	}

	var res game.Result
	switch msg.Type {
	case MessageTypeStartRound:
		res = table.StartRound()

	case MessageTypeCutDeck:
		var req CutDeckData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed cut_deck")
			return
		}
		res = table.CutDeck(playerID, req.Position)

	case MessageTypePlayCard:
		var req PlayCardData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed play_card")
			return
		}
		res = table.PlayCard(playerID, req.Card)

	case MessageTypeCallTruco:
		var req CallTrucoData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed call_truco")
			return
		}
		level, ok := parseTrucoLevel(req.Level)
		if !ok {
			c.sendError("bad_message", "unknown truco level")
			return
		}
		res = table.CallTruco(playerID, level)

	case MessageTypeRespondTruco:
		var req RespondTrucoData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed respond_truco")
			return
		}
		var escalate game.TrucoLevel
		if req.EscalateTo != "" {
			level, ok := parseTrucoLevel(req.EscalateTo)
			if !ok {
				c.sendError("bad_message", "unknown truco level")
				return
			}
			escalate = level
		}
		res = table.RespondTruco(playerID, req.Accept, escalate)

	case MessageTypeCallEnvido:
		var req CallEnvidoData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed call_envido")
			return
		}
		kind, ok := parseEnvidoKind(req.Kind)
		if !ok {
			c.sendError("bad_message", "unknown envido kind")
			return
		}
		res = table.CallEnvido(playerID, kind, req.CustomStake)

	case MessageTypeRespondEnvido:
		var req RespondEnvidoData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed respond_envido")
			return
		}
		res = table.RespondEnvido(playerID, req.Accept)

	case MessageTypeCallFlor:
		res = table.CallFlor(playerID)

	case MessageTypeRespondFlor:
		var req RespondFlorData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed respond_flor")
			return
		}
		response, ok := parseFlorResponse(req.Response)
		if !ok {
			c.sendError("bad_message", "unknown flor response")
			return
		}
		res = table.RespondFlor(playerID, response)

	case MessageTypeEcharPerros:
		res = table.EcharPerros(playerID)

	case MessageTypeRespondPerros:
		var req RespondPerrosData
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("bad_message", "malformed respond_perros")
			return
		}
		res = table.RespondPerros(playerID, req.WantsFlorOrFalta, req.WantsTruco)

	case MessageTypeFold:
		res = table.Fold(playerID)

	default:
		c.sendError("bad_message", "unknown message type")
		return
	}

	_ = c.SendMessage(resultMessage(string(msg.Type), res))
}

func (rt *Router) reply(c *Connection, typ MessageType, data interface{}) {
	msg, err := NewMessage(typ, data)
	if err != nil {
		rt.logger.Error("Failed to encode reply", "error", err, "type", typ)
		return
	}
	_ = c.SendMessage(msg)
}

// registryErrorCode maps registry sentinels onto wire error codes.
func registryErrorCode(err error) string {
	switch err {
	case registry.ErrRoomExists:
		return "room_exists"
	case registry.ErrRoomNotFound:
		return "room_not_found"
	case registry.ErrRoomFull:
		return "room_full"
	case registry.ErrAlreadyInRoom:
		return "already_in_room"
	case registry.ErrPlayerNotFound:
		return "player_not_found"
	default:
		return "internal"
	}
}
