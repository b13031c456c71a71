package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tomz197/shooter/internal/game"
)

// Outbound message types.
const (
	TypeSnapshot = "snapshot"
	TypeEvent    = "event"
	TypeError    = "error"
)

// Envelope wraps every server-to-browser message.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// EventPayload reports a server event.
type EventPayload struct {
	Event string `json:"event"`
	Tick  uint64 `json:"tick"`
	Score int    `json:"score"`
	Level int    `json:"level"`
}

// ErrorPayload reports a rejected command.
type ErrorPayload struct {
	Error string `json:"error"`
}

// CommandMessage is a command sent by the browser, e.g.
// {"type":"tap","x":120,"y":300}.
type CommandMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("encode: empty envelope type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %s: nil payload", t)
	}
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: p})
}

// DecodeCommand parses a browser command.
func DecodeCommand(b []byte) (game.Command, error) {
	if len(b) == 0 {
		return game.Command{}, errors.New("empty command")
	}
	var msg CommandMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return game.Command{}, fmt.Errorf("decode command: %w", err)
	}
	kind, err := game.ParseCommandKind(msg.Type)
	if err != nil {
		return game.Command{}, err
	}
	return game.Command{Kind: kind, X: msg.X, Y: msg.Y}, nil
}
