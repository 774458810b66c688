package game

import (
	"encoding/json"

	"github.com/tilefall/tilefall/internal/world"
)

// TileRecord pairs a board index with a point-in-time copy of its tile.
type TileRecord struct {
	Index int
	Tile  world.Tile
}

// Update is the unfiltered result of one render sweep. It still carries
// full visibility information; FilterFor derives the per-player view.
type Update struct {
	Turn    uint64
	Width   int
	Height  int
	Players map[world.PlayerID]Player
	Tiles   []TileRecord
}

// ClientUpdate is the JSON document sent to one player each turn.
type ClientUpdate struct {
	Turn    uint64                    `json:"turn"`
	Width   int                       `json:"width"`
	Height  int                       `json:"height"`
	Players map[world.PlayerID]Player `json:"players"`
	Tiles   []TileEntry               `json:"tiles"`
}

// TileEntry serializes as an [index, tile] pair.
type TileEntry struct {
	Index int
	View  TileView
}

func (e TileEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Index, e.View})
}

// TileView is the client-facing shape of one tile. All fields are omitted
// at their zero value, so a plain open tile marshals to {}.
type TileView struct {
	Owner *world.PlayerID `json:"owner,omitempty"`
	Units uint16          `json:"units,omitempty"`
	Kind  string          `json:"kind,omitempty"`
}

// FilterFor narrows the update to what player p may see: only tiles
// changed for p, or every tile on the opening update. Tiles outside p's
// view are fogged: no owner, no garrison, a general passes for open
// ground and a city for a mountain.
func (u *Update) FilterFor(p world.PlayerID) *ClientUpdate {
	cu := &ClientUpdate{
		Turn:    u.Turn,
		Width:   u.Width,
		Height:  u.Height,
		Players: u.Players,
		Tiles:   make([]TileEntry, 0, len(u.Tiles)),
	}
	for _, rec := range u.Tiles {
		if u.Turn != 0 && !rec.Tile.DirtyFor(p) {
			continue
		}
		cu.Tiles = append(cu.Tiles, TileEntry{Index: rec.Index, View: viewFor(&rec.Tile, p)})
	}
	return cu
}

func viewFor(t *world.Tile, p world.PlayerID) TileView {
	var v TileView
	if t.VisibleBy(p) {
		if owner, ok := t.Owner(); ok {
			v.Owner = &owner
		}
		v.Units = t.Units()
		v.Kind = kindLabel(t.Kind())
		return v
	}
	if k := t.Kind(); k == world.KindCity || k == world.KindMountain {
		v.Kind = kindLabel(world.KindMountain)
	}
	return v
}

// kindLabel is the wire name of a tile kind. Open is the implied default
// and renders as the empty string.
func kindLabel(k world.TileKind) string {
	if k == world.KindOpen {
		return ""
	}
	return k.String()
}
