package relay

import (
	"fmt"

	"github.com/propchat/relay/internal/types"
)

// ClientMessage is the inbound envelope. Exactly one variant is expected
// to be set; unknown or empty envelopes are rejected at the boundary.
type ClientMessage struct {
	Join    *JoinRequest    `json:"join,omitempty"`
	Leave   *LeaveRequest   `json:"leave_room,omitempty"`
	Private *PrivateMessage `json:"private_message,omitempty"`
}

// JoinRequest subscribes the connection to the room keyed by UserId.
// The id is deliberately untyped: room keys are accepted as-is, numeric
// or not.
type JoinRequest struct {
	UserId any `json:"user_id"`
}

type LeaveRequest struct{}

type PrivateMessage struct {
	To      string `json:"to" validate:"required"`
	From    string `json:"from" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ServerMessage is the outbound envelope; one variant per event.
type ServerMessage struct {
	Private       *types.ChatMessage  `json:"private_message,omitempty"`
	Confirmation  *types.ChatMessage  `json:"message_sent_confirmation,omitempty"`
	Error         *ErrorEvent         `json:"error,omitempty"`
	DatabaseError *DatabaseErrorEvent `json:"database_error,omitempty"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

type DatabaseErrorEvent struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func ErrInvalidMessage() *ServerMessage {
	return &ServerMessage{
		Error: &ErrorEvent{Message: "Invalid message format"},
	}
}

func ErrDatabase(message, detail string) *ServerMessage {
	return &ServerMessage{
		DatabaseError: &DatabaseErrorEvent{
			Message: message,
			Error:   detail,
		},
	}
}

// roomKey normalizes a join payload into a room key. JSON numbers decode
// as float64; integral values format without a fraction.
func roomKey(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}
