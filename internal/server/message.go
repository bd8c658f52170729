package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/truco/internal/deck"
	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/registry"
)

// MessageType tags the JSON envelope.
type MessageType string

const (
	// Client -> server
	MessageTypeAuth          MessageType = "auth"
	MessageTypeCreateTable   MessageType = "create_table"
	MessageTypeJoinTable     MessageType = "join_table"
	MessageTypeLeaveTable    MessageType = "leave_table"
	MessageTypeReconnect     MessageType = "reconnect"
	MessageTypeListTables    MessageType = "list_tables"
	MessageTypeStartRound    MessageType = "start_round"
	MessageTypeCutDeck       MessageType = "cut_deck"
	MessageTypePlayCard      MessageType = "play_card"
	MessageTypeCallTruco     MessageType = "call_truco"
	MessageTypeRespondTruco  MessageType = "respond_truco"
	MessageTypeCallEnvido    MessageType = "call_envido"
	MessageTypeRespondEnvido MessageType = "respond_envido"
	MessageTypeCallFlor      MessageType = "call_flor"
	MessageTypeRespondFlor   MessageType = "respond_flor"
	MessageTypeEcharPerros   MessageType = "echar_perros"
	MessageTypeRespondPerros MessageType = "respond_perros"
	MessageTypeFold          MessageType = "fold"

	// Server -> client
	MessageTypeAuthResponse  MessageType = "auth_response"
	MessageTypeTableCreated  MessageType = "table_created"
	MessageTypeTableJoined   MessageType = "table_joined"
	MessageTypeTableList     MessageType = "table_list"
	MessageTypeCommandResult MessageType = "command_result"
	MessageTypeTableView     MessageType = "table_view"
	MessageTypeGameEvent     MessageType = "game_event"
	MessageTypeError         MessageType = "error"
)

// Message is the websocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> server payloads

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type CreateTableData struct {
	TableID    string `json:"tableId,omitempty"`
	Size       string `json:"size"` // "1v1", "2v2", "3v3"
	Bots       int    `json:"bots"`
	ScoreLimit int    `json:"scoreLimit,omitempty"`
	CutDeck    bool   `json:"cutDeck,omitempty"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
}

type ReconnectData struct {
	OldPlayerID string `json:"oldPlayerId"`
}

type CutDeckData struct {
	Position int `json:"position"`
}

type PlayCardData struct {
	Card deck.Card `json:"card"`
}

type CallTrucoData struct {
	Level string `json:"level"` // "truco", "retruco", "vale_cuatro"
}

type RespondTrucoData struct {
	Accept     bool   `json:"accept"`
	EscalateTo string `json:"escalateTo,omitempty"`
}

type CallEnvidoData struct {
	Kind        string `json:"kind"` // "envido", "real_envido", "falta_envido", "cargado"
	CustomStake int    `json:"customStake,omitempty"`
}

type RespondEnvidoData struct {
	Accept bool `json:"accept"`
}

type RespondFlorData struct {
	Response string `json:"response"` // "achico", "accept", "con_flor_envido", "contra_flor", "contra_flor_al_resto"
}

type RespondPerrosData struct {
	WantsFlorOrFalta bool `json:"wantsFlorOrFalta"`
	WantsTruco       bool `json:"wantsTruco"`
}

// Server -> client payloads

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type TableCreatedData struct {
	TableID string `json:"tableId"`
}

type TableJoinedData struct {
	TableID string `json:"tableId"`
}

type TableListData struct {
	Tables []registry.TableSummary `json:"tables"`
}

type CommandResultData struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type GameEventData struct {
	TableID string      `json:"tableId"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// resultMessage wraps an engine result for the issuing client.
func resultMessage(command string, res game.Result) *Message {
	data := CommandResultData{Command: command, OK: res.OK}
	if !res.OK {
		data.Code = res.Code.String()
		data.Reason = res.Reason
	}
	msg, _ := NewMessage(MessageTypeCommandResult, data)
	return msg
}

// parseTrucoLevel maps the wire level names onto engine levels.
func parseTrucoLevel(s string) (game.TrucoLevel, bool) {
	switch s {
	case "truco":
		return game.Truco, true
	case "retruco":
		return game.Retruco, true
	case "vale_cuatro":
		return game.ValeCuatro, true
	default:
		return 0, false
	}
}

func parseEnvidoKind(s string) (game.EnvidoKind, bool) {
	switch s {
	case "envido":
		return game.Envido, true
	case "real_envido":
		return game.RealEnvido, true
	case "falta_envido":
		return game.FaltaEnvido, true
	case "cargado":
		return game.EnvidoCargado, true
	default:
		return 0, false
	}
}

func parseFlorResponse(s string) (game.FlorResponse, bool) {
	switch s {
	case "achico":
		return game.FlorAchico, true
	case "accept":
		return game.FlorAccept, true
	case "con_flor_envido":
		return game.FlorRaiseConFlorEnvido, true
	case "contra_flor":
		return game.FlorRaiseContraFlor, true
	case "contra_flor_al_resto":
		return game.FlorRaiseContraFlorAlResto, true
	default:
		return 0, false
	}
}
