package types

import "encoding/json"

// Inbound event names.
const (
	EventCreatePairProgrammingRoom = "create-pair-programming-room"
	EventJoinPairProgrammingRoom   = "join-pair-programming-room"
	EventBroadcastTextSelection    = "broadcast-text-selection"
	EventUpdateUserInfo            = "update-user-info"
	EventJoinCustomRoom            = "join-custom-room"
	EventRefresh                   = "refresh"
)

// Outbound event names.
const (
	EventReceiveTextSelection = "receive-text-selection"
	EventError                = "error"
)

// ClientMessage is one inbound frame:
//
//	{"event": "join-custom-room", "args": [{"roomId": "r1"}], "id": 3}
//
// ID is set when the client expects an acknowledgment.
type ClientMessage struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args,omitempty"`
	ID    *uint64           `json:"id,omitempty"`
}

// Arg returns the i-th argument, or nil when the client sent fewer. A nil
// RawMessage marshals as JSON null.
func (m ClientMessage) Arg(i int) json.RawMessage {
	if i < len(m.Args) {
		return m.Args[i]
	}
	return nil
}

// ServerMessage is either an event ({"event", "args"}) or an acknowledgment
// of a client frame ({"ack", "args"}).
type ServerMessage struct {
	Event string  `json:"event,omitempty"`
	Ack   *uint64 `json:"ack,omitempty"`
	Args  []any   `json:"args"`
}

func NewEvent(event string, args ...any) ServerMessage {
	if args == nil {
		args = []any{}
	}
	return ServerMessage{Event: event, Args: args}
}

func NewAck(id uint64, args ...any) ServerMessage {
	if args == nil {
		args = []any{}
	}
	return ServerMessage{Ack: &id, Args: args}
}

func NewError(msg string) ServerMessage {
	return NewEvent(EventError, msg)
}

type UserInfoPayload struct {
	UserID string `json:"userId"`
}

type RoomJoinPayload struct {
	RoomID string `json:"roomId"`
}
