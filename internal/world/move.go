package world

import (
	"errors"
	"fmt"
)

// PlayerID identifies a player within one game. IDs are dense and assigned
// from zero at game start. NoPlayer marks the absence of an owner.
type PlayerID int

const NoPlayer PlayerID = -1

// Direction is one of the four cardinal move directions.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// MarshalText implements encoding.TextMarshaler for the wire format.
func (d Direction) MarshalText() ([]byte, error) {
	switch d {
	case Up, Down, Left, Right:
		return []byte(d.String()), nil
	}
	return nil, fmt.Errorf("unknown direction %d", uint8(d))
}

// UnmarshalText implements encoding.TextUnmarshaler for the wire format.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "up":
		*d = Up
	case "down":
		*d = Down
	case "left":
		*d = Left
	case "right":
		*d = Right
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Move is one player-submitted order: advance the mobile units of the tile
// at From one cell in the given direction.
type Move struct {
	Player    PlayerID
	From      int
	Direction Direction
}

// ErrInvalidMove is the common ancestor of every move rejection; the
// concrete sentinels below all wrap it.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrFromInvalidTile    = fmt.Errorf("%w: source tile out of bounds or impassable", ErrInvalidMove)
	ErrToInvalidTile      = fmt.Errorf("%w: destination tile out of bounds or impassable", ErrInvalidMove)
	ErrNotEnoughUnits     = fmt.Errorf("%w: source tile needs at least two units", ErrInvalidMove)
	ErrSourceTileNotOwned = fmt.Errorf("%w: source tile not owned by the mover", ErrInvalidMove)
)
