package amqp

import (
	"encoding/json"
	"errors"

	"nobudget/internal/core"
)

// MessageVersion is bumped when the message body changes shape.
const MessageVersion = 1

// ChangeMessage is the body published for every saved mutation. It carries
// the record itself so consumers never have to read the store.
type ChangeMessage struct {
	Version int `json:"version"`
	core.Change
}

func NewChangeMessage(change core.Change) *ChangeMessage {
	return &ChangeMessage{Version: MessageVersion, Change: change}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message and rejects bodies without a kind
// or an operation.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind == "" || msg.Op == "" {
		return nil, errors.New("change message missing kind or op")
	}
	return &msg, nil
}
