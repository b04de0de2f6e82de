package screeps

import (
	"encoding/json"
	"time"
)

// UserMessage is an inbox entry: the latest message exchanged with one
// respondent, whose id is ID.
type UserMessage struct {
	ID      string  `json:"_id"`
	Message Message `json:"message"`
}

func (m *UserMessage) UnmarshalJSON(b []byte) error {
	type plain UserMessage
	var p plain
	var req struct {
		ID      *string          `json:"_id" validate:"required"`
		Message *json.RawMessage `json:"message" validate:"required"`
	}
	if err := decodeChecked(b, "inbox entry", &p, &req); err != nil {
		return err
	}
	*m = UserMessage(p)
	return nil
}

const (
	MessageIn  = "in"
	MessageOut = "out"
)

// Message is one mail item. Type is MessageIn or MessageOut relative to User.
type Message struct {
	ID         string    `json:"_id"`
	User       string    `json:"user"`
	Respondent string    `json:"respondent"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
	Text       string    `json:"text"`
	Unread     bool      `json:"unread"`
}

func (m *Message) UnmarshalJSON(b []byte) error {
	type plain Message
	var p plain
	var req struct {
		ID         *string    `json:"_id" validate:"required"`
		User       *string    `json:"user" validate:"required"`
		Respondent *string    `json:"respondent" validate:"required"`
		Date       *time.Time `json:"date" validate:"required"`
		Type       *string    `json:"type" validate:"required"`
		Text       *string    `json:"text" validate:"required"`
		Unread     *bool      `json:"unread" validate:"required"`
	}
	if err := decodeChecked(b, "message", &p, &req); err != nil {
		return err
	}
	*m = Message(p)
	return nil
}
