package gameserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tilefall/tilefall/internal/world"
)

// ActionKind enumerates the message types a client may send.
type ActionKind uint8

const (
	ActionMove ActionKind = iota
	ActionResign
	ActionCancelMoves
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionResign:
		return "resign"
	case ActionCancelMoves:
		return "cancel_moves"
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Action is one decoded client frame. Move is only meaningful for
// ActionMove; its Player field is assigned server-side.
type Action struct {
	Kind ActionKind
	Move world.Move
}

// ErrMalformedAction marks frames that fail to decode. Such frames are
// dropped without closing the connection.
var ErrMalformedAction = errors.New("malformed action")

type actionFrame struct {
	Type      string           `json:"type"`
	From      *int             `json:"from"`
	Direction *world.Direction `json:"direction"`
}

// ParseAction decodes one inbound text frame.
func ParseAction(data []byte) (Action, error) {
	var frame actionFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}

	switch frame.Type {
	case "resign":
		return Action{Kind: ActionResign}, nil
	case "cancel_moves":
		return Action{Kind: ActionCancelMoves}, nil
	case "move":
		if frame.From == nil || frame.Direction == nil {
			return Action{}, fmt.Errorf("%w: move frame missing from or direction", ErrMalformedAction)
		}
		return Action{
			Kind: ActionMove,
			Move: world.Move{From: *frame.From, Direction: *frame.Direction},
		}, nil
	default:
		return Action{}, fmt.Errorf("%w: unknown type %q", ErrMalformedAction, frame.Type)
	}
}
