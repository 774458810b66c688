// Package game runs a single match: it owns the board, the player
// roster and the turn counter, and renders per-turn updates.
package game

import (
	"log/slog"
	"math/rand/v2"

	"github.com/tilefall/tilefall/internal/world"
)

// Reinforcement cadence in turns. Generals and owned cities grow on the
// partial period, every owned tile grows on the full period.
const (
	fullReinforcePeriod    = 50
	partialReinforcePeriod = 2
)

// Game is the state of one match. It is not safe for concurrent use; the
// match goroutine is its only writer.
type Game struct {
	board   *world.Map
	players map[world.PlayerID]*Player
	turn    uint64
}

// New creates a match for the given players. The generated board grows
// with the player count. The match starts at turn 0 with every player
// owning exactly one tile, their general.
func New(ids []world.PlayerID, rng *rand.Rand) *Game {
	board, generals := world.Generate(len(ids), rng)
	for i, id := range ids {
		board.AssignGeneral(id, generals[i])
	}
	return NewWithMap(board, ids)
}

// NewWithMap creates a match over a prepared board. Holdings are counted
// from the board so players with tiles can act immediately.
func NewWithMap(board *world.Map, ids []world.PlayerID) *Game {
	g := &Game{
		board:   board,
		players: make(map[world.PlayerID]*Player, len(ids)),
	}
	for _, id := range ids {
		g.players[id] = &Player{ID: id}
	}
	for i := range board.Len() {
		if owner, ok := board.Tile(i).Owner(); ok {
			if p, ok := g.players[owner]; ok {
				p.OwnedTiles++
			}
		}
	}
	return g
}

// Turn returns the number of completed ticks.
func (g *Game) Turn() uint64 { return g.turn }

// Undefeated returns how many players are still standing.
func (g *Game) Undefeated() int {
	n := 0
	for _, p := range g.players {
		if !p.Defeated() {
			n++
		}
	}
	return n
}

// Resign marks the player defeated at the current turn. Their tiles stay
// on the board and keep reinforcing on the stronghold cadence.
func (g *Game) Resign(id world.PlayerID) {
	p, ok := g.players[id]
	if !ok {
		slog.Warn("ignoring resignation from unknown player", "player", id)
		return
	}
	if p.Defeated() {
		slog.Error("got resignation from already defeated player",
			"player", id, "defeated_at", *p.DefeatedAt, "turn", g.turn)
		return
	}
	turn := g.turn
	p.DefeatedAt = &turn
}

// ApplyMove forwards a move to the board. Moves from unknown players or
// players that cannot act are dropped, as are moves the board rejects.
func (g *Game) ApplyMove(mv world.Move) {
	p, ok := g.players[mv.Player]
	if !ok {
		slog.Warn("ignoring move from unknown player", "player", mv.Player)
		return
	}
	if !p.CanMove() {
		slog.Warn("ignoring move from player that cannot act", "player", mv.Player)
		return
	}
	if err := g.board.ApplyMove(mv); err != nil {
		slog.Debug("dropping invalid move",
			"player", mv.Player, "from", mv.From, "direction", mv.Direction, "error", err)
	}
}

// Tick reinforces the board for the current turn, then advances the turn
// counter.
func (g *Game) Tick() {
	switch {
	case g.turn%fullReinforcePeriod == 0:
		g.board.Reinforce(true)
	case g.turn%partialReinforcePeriod == 0:
		g.board.Reinforce(false)
	}
	g.turn++
}

// RenderUpdate recounts every player's holdings and collects all tile
// changes since the previous call, cleaning them as it goes. The first
// update of a match carries the whole board. Undefeated players left with
// no tiles after the sweep are marked defeated.
func (g *Game) RenderUpdate() *Update {
	for _, p := range g.players {
		p.OwnedTiles = 0
	}

	var records []TileRecord
	if g.turn == 0 {
		records = make([]TileRecord, 0, g.board.Len())
	}
	for i := range g.board.Len() {
		t := g.board.Tile(i)
		if owner, ok := t.Owner(); ok {
			if p, ok := g.players[owner]; ok {
				p.OwnedTiles++
			}
		}
		if g.turn == 0 || t.Dirty() {
			records = append(records, TileRecord{Index: i, Tile: t.Clone()})
			t.SetClean()
		}
	}

	for _, p := range g.players {
		if p.OwnedTiles == 0 && !p.Defeated() {
			turn := g.turn
			p.DefeatedAt = &turn
		}
	}

	players := make(map[world.PlayerID]Player, len(g.players))
	for id, p := range g.players {
		players[id] = *p
	}
	return &Update{
		Turn:    g.turn,
		Width:   g.board.Width(),
		Height:  g.board.Height(),
		Players: players,
		Tiles:   records,
	}
}
