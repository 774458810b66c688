package game

import "github.com/tilefall/tilefall/internal/world"

// Player tracks one participant's standing in a match. OwnedTiles is
// recomputed on every update sweep. DefeatedAt latches the turn the
// player fell and never unsets.
type Player struct {
	ID         world.PlayerID `json:"id"`
	OwnedTiles int            `json:"owned_tiles,omitempty"`
	DefeatedAt *uint64        `json:"defeated_at,omitempty"`
}

func (p *Player) Defeated() bool { return p.DefeatedAt != nil }

// CanMove reports whether the player may still issue moves.
func (p *Player) CanMove() bool { return !p.Defeated() && p.OwnedTiles > 0 }
