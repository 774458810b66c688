package gameserver

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tilefall/tilefall/internal/game"
	"github.com/tilefall/tilefall/internal/world"
)

// ErrLobbyFull is returned by Enqueue when the waiting queue is at
// capacity and the player cannot be admitted.
var ErrLobbyFull = errors.New("lobby full")

// Lobby collects endpoints until enough players are waiting to start a
// match, then hands them off to a fresh Runner.
type Lobby struct {
	size  int
	tick  time.Duration
	queue chan Endpoint
	wg    sync.WaitGroup
}

// NewLobby builds a lobby that starts a match for every size endpoints,
// holding at most queueSize candidates while one is forming.
func NewLobby(size int, tick time.Duration, queueSize int) *Lobby {
	return &Lobby{
		size:  size,
		tick:  tick,
		queue: make(chan Endpoint, queueSize),
	}
}

// Enqueue offers an endpoint to the lobby without blocking.
func (l *Lobby) Enqueue(e Endpoint) error {
	select {
	case l.queue <- e:
		return nil
	default:
		return ErrLobbyFull
	}
}

// Run admits queued endpoints and spawns match runners until ctx is
// done, then closes any still-waiting endpoints and waits for running
// matches to finish.
func (l *Lobby) Run(ctx context.Context) error {
	var pending []Endpoint
	for {
		select {
		case <-ctx.Done():
			for _, e := range pending {
				e.Close()
			}
			l.drainQueue()
			l.wg.Wait()
			return nil
		case e := <-l.queue:
			pending = append(pending, e)
			slog.Debug("player admitted to lobby", "waiting", len(pending), "size", l.size)
			if len(pending) == l.size {
				l.startMatch(ctx, pending)
				pending = nil
			}
		}
	}
}

// drainQueue closes endpoints that were enqueued but never admitted.
func (l *Lobby) drainQueue() {
	for {
		select {
		case e := <-l.queue:
			e.Close()
		default:
			return
		}
	}
}

func (l *Lobby) startMatch(ctx context.Context, endpoints []Endpoint) {
	ids := make([]world.PlayerID, len(endpoints))
	for i := range ids {
		ids[i] = world.PlayerID(i)
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	r := NewRunner(game.New(ids, rng), endpoints, l.tick)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		r.Run(ctx)
	}()
}
