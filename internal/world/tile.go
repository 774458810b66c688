package world

import "maps"

// TileKind is the terrain type of a tile.
type TileKind uint8

const (
	// KindMountain is impassable terrain. Mountains are never owned,
	// never reinforced and reject all mutation.
	KindMountain TileKind = iota
	// KindOpen is plain passable terrain.
	KindOpen
	// KindCity is a captured stronghold. Owned cities reinforce on the
	// same cadence as generals.
	KindCity
	// KindGeneral is a player's home tile. Capturing it transfers the
	// defeated player's whole territory and demotes the tile to a city.
	KindGeneral
)

func (k TileKind) String() string {
	switch k {
	case KindMountain:
		return "mountain"
	case KindOpen:
		return "open"
	case KindCity:
		return "city"
	case KindGeneral:
		return "general"
	}
	return "unknown"
}

// playerSet is a small set of player ids. A board sees at most a handful
// of players, so a plain map does fine.
type playerSet map[PlayerID]struct{}

func (s playerSet) has(p PlayerID) bool {
	_, ok := s[p]
	return ok
}

func (s *playerSet) add(p PlayerID) {
	if *s == nil {
		*s = make(playerSet, 4)
	}
	(*s)[p] = struct{}{}
}

func (s playerSet) remove(p PlayerID) {
	delete(s, p)
}

func (s playerSet) len() int { return len(s) }

// OutcomeKind classifies the result of an attack.
type OutcomeKind uint8

const (
	// StatuQuo means no ownership changed hands.
	StatuQuo OutcomeKind = iota
	// TileCaptured means the destination tile changed owner.
	TileCaptured
	// GeneralCaptured means the destination was the defender's general.
	GeneralCaptured
)

// MoveOutcome is the resolution of one attack. Defeated is the previous
// owner of a captured tile; it is NoPlayer for StatuQuo and for captures
// of unowned tiles.
type MoveOutcome struct {
	Kind     OutcomeKind
	Defeated PlayerID
}

// Tile is one board cell: terrain kind, owner, unit count, and the two
// fog-of-war sets tracking which players currently see the tile and which
// players still owe a change notification for it.
type Tile struct {
	kind      TileKind
	owner     PlayerID
	units     uint16
	visibleBy playerSet
	dirtyFor  playerSet
}

// NewTile returns an unowned mountain tile.
func NewTile() Tile {
	return Tile{kind: KindMountain, owner: NoPlayer}
}

func (t *Tile) Kind() TileKind { return t.kind }
func (t *Tile) Units() uint16  { return t.units }

// Owner returns the owning player; ok is false for unowned tiles.
func (t *Tile) Owner() (PlayerID, bool) {
	return t.owner, t.owner != NoPlayer
}

// OwnedBy reports whether the tile belongs to p.
func (t *Tile) OwnedBy(p PlayerID) bool {
	return t.owner != NoPlayer && t.owner == p
}

func (t *Tile) IsMountain() bool { return t.kind == KindMountain }
func (t *Tile) IsOpen() bool     { return t.kind == KindOpen }
func (t *Tile) IsCity() bool     { return t.kind == KindCity }
func (t *Tile) IsGeneral() bool  { return t.kind == KindGeneral }

// VisibleBy reports whether p currently sees the tile.
func (t *Tile) VisibleBy(p PlayerID) bool {
	return t.visibleBy.has(p)
}

// DirtyFor reports whether p owes a change notification for the tile.
func (t *Tile) DirtyFor(p PlayerID) bool {
	return t.dirtyFor.has(p)
}

// Dirty reports whether any player owes a notification for the tile.
func (t *Tile) Dirty() bool {
	return t.dirtyFor.len() > 0
}

// markViewersDirty records a pending notification for every player that
// currently sees the tile.
func (t *Tile) markViewersDirty() {
	for p := range t.visibleBy {
		t.dirtyFor.add(p)
	}
}

// RevealTo makes the tile visible to p. No-op on mountains and when p
// already sees the tile.
func (t *Tile) RevealTo(p PlayerID) {
	if t.kind == KindMountain || t.visibleBy.has(p) {
		return
	}
	t.visibleBy.add(p)
	t.dirtyFor.add(p)
}

// HideFrom removes the tile from p's view. The final fogged state is still
// delivered to p, so p stays in the dirty set.
func (t *Tile) HideFrom(p PlayerID) {
	if !t.visibleBy.has(p) {
		return
	}
	t.visibleBy.remove(p)
	t.dirtyFor.add(p)
}

// SetOwner transfers the tile to p (NoPlayer clears ownership). The
// previous owner and every current viewer get a pending notification, and
// the tile is revealed to the new owner. No-op on mountains.
func (t *Tile) SetOwner(p PlayerID) {
	if t.kind == KindMountain {
		return
	}
	t.markViewersDirty()
	if t.owner != NoPlayer {
		t.dirtyFor.add(t.owner)
	}
	t.owner = p
	if p != NoPlayer {
		t.RevealTo(p)
	}
}

// SetUnits overwrites the unit count. No-op on mountains.
func (t *Tile) SetUnits(units uint16) {
	if t.kind == KindMountain {
		return
	}
	t.units = units
	t.markViewersDirty()
}

// IncrUnits adds units to the tile. No-op on mountains.
func (t *Tile) IncrUnits(units uint16) {
	if t.kind == KindMountain {
		return
	}
	t.units += units
	t.markViewersDirty()
}

// MakeOpen turns the tile into plain terrain.
func (t *Tile) MakeOpen() {
	t.kind = KindOpen
	t.markViewersDirty()
}

// MakeGeneral turns the tile into a general.
func (t *Tile) MakeGeneral() {
	t.kind = KindGeneral
	t.markViewersDirty()
}

// MakeCity turns the tile into a city.
func (t *Tile) MakeCity() {
	t.kind = KindCity
	t.markViewersDirty()
}

// MakeMountain turns the tile back into impassable terrain, dropping owner,
// units and visibility. Viewers keep their pending notification.
func (t *Tile) MakeMountain() {
	t.markViewersDirty()
	t.kind = KindMountain
	t.owner = NoPlayer
	t.units = 0
	t.visibleBy = nil
}

// SetClean drops all pending notifications.
func (t *Tile) SetClean() {
	t.dirtyFor = nil
}

// Clone returns a deep copy, including both fog-of-war sets.
func (t *Tile) Clone() Tile {
	c := *t
	c.visibleBy = maps.Clone(t.visibleBy)
	c.dirtyFor = maps.Clone(t.dirtyFor)
	return c
}

// Attack resolves a move of this tile's mobile units (all but one) into
// dst. Preconditions are checked in a fixed order: impassable source,
// impassable destination, fewer than two units, unowned source.
//
// The mobile force fights the destination garrison: a same-owner move
// stacks units; against any other garrison the smaller side is subtracted
// from the larger, and the destination changes hands only when the
// attacking force is strictly larger. A captured general becomes a city.
// The source always ends at one unit. Both tiles notify their viewers.
func (t *Tile) Attack(dst *Tile) (MoveOutcome, error) {
	if t.kind == KindMountain {
		return MoveOutcome{}, ErrFromInvalidTile
	}
	if dst.kind == KindMountain {
		return MoveOutcome{}, ErrToInvalidTile
	}
	if t.units < 2 {
		return MoveOutcome{}, ErrNotEnoughUnits
	}
	if t.owner == NoPlayer {
		return MoveOutcome{}, ErrSourceTileNotOwned
	}

	force := t.units - 1
	outcome := MoveOutcome{Kind: StatuQuo, Defeated: NoPlayer}

	switch {
	case dst.owner == t.owner:
		dst.units += force

	case dst.owner != NoPlayer:
		if dst.units >= force {
			dst.units -= force
		} else {
			defender := dst.owner
			dst.units = force - dst.units
			dst.owner = t.owner
			if dst.kind == KindGeneral {
				dst.kind = KindCity
				outcome = MoveOutcome{Kind: GeneralCaptured, Defeated: defender}
			} else {
				outcome = MoveOutcome{Kind: TileCaptured, Defeated: defender}
			}
		}

	default:
		if dst.units >= force {
			dst.units -= force
		} else {
			dst.units = force - dst.units
			dst.owner = t.owner
			outcome = MoveOutcome{Kind: TileCaptured, Defeated: NoPlayer}
		}
	}

	t.units = 1
	t.markViewersDirty()
	dst.markViewersDirty()
	return outcome, nil
}
