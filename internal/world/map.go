package world

// Map is a grid of tiles plus the move resolver and the fog-of-war
// maintenance around it. A map belongs to exactly one game and is only
// ever touched from that game's runner goroutine.
type Map struct {
	grid  Grid
	tiles []Tile
}

// NewMap builds a map over the given tiles, which must match the grid
// size. The map takes ownership of the slice.
func NewMap(grid Grid, tiles []Tile) *Map {
	if len(tiles) != grid.Len() {
		panic("world: tile count does not match grid size")
	}
	return &Map{grid: grid, tiles: tiles}
}

// newMountainBoard returns a map of the given dimensions covered entirely
// in mountains.
func newMountainBoard(grid Grid) *Map {
	tiles := make([]Tile, grid.Len())
	for i := range tiles {
		tiles[i] = NewTile()
	}
	return &Map{grid: grid, tiles: tiles}
}

func (m *Map) Grid() Grid  { return m.grid }
func (m *Map) Width() int  { return m.grid.Width() }
func (m *Map) Height() int { return m.grid.Height() }
func (m *Map) Len() int    { return m.grid.Len() }

// Tile returns the tile at index i. The pointer stays valid for the life
// of the map.
func (m *Map) Tile(i int) *Tile {
	return &m.tiles[i]
}

// ApplyMove validates and resolves one move. On a general capture the
// whole territory and visibility of the defeated player transfer to the
// mover; on a regular capture the horizons of the two players are adjusted
// around the destination. Tiles touched along the way notify their
// viewers.
func (m *Map) ApplyMove(mv Move) error {
	if !m.grid.Contains(mv.From) {
		return ErrFromInvalidTile
	}
	dstIdx, ok := m.grid.Neighbor(mv.From, mv.Direction)
	if !ok {
		return ErrToInvalidTile
	}
	// A mountain source falls through to Attack, which reports it as an
	// impassable source rather than an ownership problem.
	src := &m.tiles[mv.From]
	if !src.IsMountain() && !src.OwnedBy(mv.Player) {
		return ErrSourceTileNotOwned
	}

	outcome, err := src.Attack(&m.tiles[dstIdx])
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case GeneralCaptured:
		m.transferTerritory(outcome.Defeated, mv.Player)
	case TileCaptured:
		if outcome.Defeated != NoPlayer {
			m.shrinkHorizon(outcome.Defeated, dstIdx)
		}
		m.enlargeHorizon(mv.Player, dstIdx)
	}
	return nil
}

// transferTerritory hands every tile of the defeated player to the
// attacker and flips the defeated player's whole field of view over to the
// attacker. Called after a general capture.
func (m *Map) transferTerritory(defeated, attacker PlayerID) {
	for i := range m.tiles {
		t := &m.tiles[i]
		if t.IsMountain() {
			continue
		}
		if t.OwnedBy(defeated) {
			t.SetOwner(attacker)
		}
		if t.VisibleBy(defeated) {
			t.HideFrom(defeated)
			t.RevealTo(attacker)
		}
	}
}

// enlargeHorizon reveals the passable surroundings of idx to p. Called
// after p gains the tile at idx.
func (m *Map) enlargeHorizon(p PlayerID, idx int) {
	for _, n := range m.grid.ExtendedNeighbors(idx) {
		if t := &m.tiles[n]; !t.IsMountain() {
			t.RevealTo(p)
		}
	}
}

// shrinkHorizon hides the surroundings of idx from p, except tiles that
// another holding of p still keeps in view. Called after p loses the tile
// at idx.
func (m *Map) shrinkHorizon(p PlayerID, idx int) {
	for _, n := range m.grid.ExtendedNeighbors(idx) {
		t := &m.tiles[n]
		if t.IsMountain() || !t.VisibleBy(p) {
			continue
		}
		if !m.ownsExtendedNeighbor(p, n) {
			t.HideFrom(p)
		}
	}
}

// ownsExtendedNeighbor reports whether p owns any of the eight tiles
// around idx.
func (m *Map) ownsExtendedNeighbor(p PlayerID, idx int) bool {
	for _, n := range m.grid.ExtendedNeighbors(idx) {
		if m.tiles[n].OwnedBy(p) {
			return true
		}
	}
	return false
}

// Reinforce adds one unit to every general and every owned city, and to
// every owned tile when full is set.
func (m *Map) Reinforce(full bool) {
	for i := range m.tiles {
		t := &m.tiles[i]
		if t.IsMountain() {
			continue
		}
		_, owned := t.Owner()
		if (owned && full) || t.IsGeneral() || (t.IsCity() && owned) {
			t.IncrUnits(1)
		}
	}
}

// AssignGeneral garrisons player p on their starting general with a single
// unit and opens their initial field of view around it.
func (m *Map) AssignGeneral(p PlayerID, idx int) {
	t := &m.tiles[idx]
	t.SetOwner(p)
	t.SetUnits(1)
	m.enlargeHorizon(p, idx)
}
