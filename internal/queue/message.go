package queue

import (
	"encoding/json"
	"errors"
	"strings"
)

// MessageVersion is the current payload version written by Send.
const MessageVersion = 1

// Message is a provider payment event queued for the worker.
type Message struct {
	Reference  string `json:"reference"`
	Status     string `json:"status"`
	Event      string `json:"event"`
	RequestID  string `json:"requestId,omitempty"`
	ReceivedAt string `json:"receivedAt"`
	Version    int    `json:"version"`
}

var ErrMissingReference = errors.New("queue message missing reference")

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Version == 0 {
		msg.Version = MessageVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if strings.TrimSpace(msg.Reference) == "" {
		return msg, ErrMissingReference
	}
	return msg, nil
}
