package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - client to server
const (
	TypeJoinCodeBlock   = "join_codeblock"
	TypeUpdateCodeBlock = "update_codeblock"
	TypeLeaveCodeBlock  = "leave_codeblock"
)

// Message types - server to client
const (
	TypeCodeBlock          = "code_block"
	TypeUpdateCodeBlocks   = "update_codeblocks"
	TypeRoleAssigned       = "role_assigned"
	TypeShowSmiley         = "show_smiley"
	TypeStudentCountUpdate = "student_count_update"
	TypeRedirectToLobby    = "redirect_to_lobby"
)

// Message types - System
const (
	TypeError = "error"
)

// Error codes carried by error messages.
const (
	ErrCodeInvalid  = "invalid"
	ErrCodeNotFound = "not_found"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	return NewCodedErrorMessage(ErrCodeInvalid, msg)
}

// NewCodedErrorMessage creates an error Message with a machine-readable code.
func NewCodedErrorMessage(code, msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg, Code: code})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

// NewSignal creates a Message that carries no payload.
func NewSignal(msgType string) Message {
	return Message{Type: msgType}
}
