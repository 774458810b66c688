package gameserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tilefall/tilefall/internal/game"
	"github.com/tilefall/tilefall/internal/world"
)

// Endpoint is the runner's view of one connected player: an inbound
// action stream and an outbound update sink. Actions closes when the
// transport goes away. Send never blocks.
type Endpoint interface {
	Actions() <-chan Action
	Send(update []byte) error
	Close()
}

// proxy is the per-player state a runner keeps between ticks: the moves
// queued by the player and whether they are out of the match.
type proxy struct {
	player   world.PlayerID
	endpoint Endpoint
	pending  []world.Move
	resigned bool
}

// drain consumes every action currently queued by the endpoint and
// reports whether the player resigned. A closed action stream counts as
// resignation.
func (px *proxy) drain() bool {
	for {
		select {
		case act, ok := <-px.endpoint.Actions():
			if !ok {
				return true
			}
			switch act.Kind {
			case ActionResign:
				px.pending = px.pending[:0]
				return true
			case ActionCancelMoves:
				px.pending = px.pending[:0]
			case ActionMove:
				mv := act.Move
				mv.Player = px.player
				px.pending = append(px.pending, mv)
			}
		default:
			return false
		}
	}
}

// nextMove pops the oldest queued move. Only one move per player is
// applied each tick; the rest wait for subsequent ticks.
func (px *proxy) nextMove() (world.Move, bool) {
	if len(px.pending) == 0 {
		return world.Move{}, false
	}
	mv := px.pending[0]
	px.pending = px.pending[1:]
	return mv, true
}

// Runner drives one match: it ticks the game clock, feeds queued moves
// into the game and fans the per-player filtered updates out to the
// endpoints. The runner goroutine is the only writer of its game.
type Runner struct {
	id      uuid.UUID
	game    *game.Game
	tick    time.Duration
	proxies []*proxy
}

// NewRunner pairs endpoints with the game's players in order: the
// endpoint at index i plays PlayerID(i). The game must have been created
// for exactly these ids.
func NewRunner(g *game.Game, endpoints []Endpoint, tick time.Duration) *Runner {
	proxies := make([]*proxy, len(endpoints))
	for i, e := range endpoints {
		proxies[i] = &proxy{player: world.PlayerID(i), endpoint: e}
	}
	return &Runner{
		id:      uuid.New(),
		game:    g,
		tick:    tick,
		proxies: proxies,
	}
}

// ID returns the match id.
func (r *Runner) ID() uuid.UUID {
	return r.id
}

// Run executes the match until ctx is done or at most one player is left
// undefeated. All endpoints are closed on the way out.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("match starting", "match", r.id, "players", len(r.proxies), "tick", r.tick)
	defer r.closeEndpoints()

	// Opening update: the whole board, before the clock starts.
	r.broadcast(r.game.RenderUpdate())

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("match aborted", "match", r.id, "turn", r.game.Turn())
			return
		case <-ticker.C:
		}

		r.drainActions()
		r.game.Tick()
		r.applyMoves()
		r.broadcast(r.game.RenderUpdate())

		if r.game.Undefeated() <= 1 {
			slog.Info("match over", "match", r.id, "turn", r.game.Turn())
			return
		}
	}
}

// drainActions polls every live endpoint for queued actions.
func (r *Runner) drainActions() {
	for _, px := range r.proxies {
		if px.resigned {
			continue
		}
		if px.drain() {
			r.resign(px, "resigned")
		}
	}
}

// applyMoves feeds at most one queued move per live player to the game.
func (r *Runner) applyMoves() {
	for _, px := range r.proxies {
		if px.resigned {
			continue
		}
		if mv, ok := px.nextMove(); ok {
			r.game.ApplyMove(mv)
		}
	}
}

// broadcast sends each live player their filtered view of the update. A
// player whose sink rejects the update would otherwise miss a turn, so
// they are resigned instead.
func (r *Runner) broadcast(u *game.Update) {
	for _, px := range r.proxies {
		if px.resigned {
			continue
		}
		view := u.FilterFor(px.player)
		data, err := json.Marshal(view)
		if err != nil {
			slog.Error("failed to encode update", "match", r.id, "player", px.player, "error", err)
			continue
		}
		if err := px.endpoint.Send(data); err != nil {
			r.resign(px, err.Error())
		}
	}
}

func (r *Runner) resign(px *proxy, reason string) {
	px.resigned = true
	px.pending = nil
	r.game.Resign(px.player)
	slog.Info("player out", "match", r.id, "player", px.player, "turn", r.game.Turn(), "reason", reason)
}

func (r *Runner) closeEndpoints() {
	for _, px := range r.proxies {
		px.endpoint.Close()
	}
}
