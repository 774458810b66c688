package gameserver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Default queue / timeout constants.
// Overridden by config values when available.
const (
	defaultActionQueueSize = 10
	defaultUpdateQueueSize = 10
	defaultWriteTimeout    = 5 * time.Second
)

var (
	// ErrClientClosed is returned by Send once the connection is gone.
	ErrClientClosed = errors.New("client closed")
	// ErrSendQueueFull is returned by Send when the client cannot keep up
	// with the update stream. The client is disconnected.
	ErrSendQueueFull = errors.New("send queue full")
)

// Client is one websocket connection serving a single player. The read
// pump decodes frames into Actions; updates queue on a bounded channel
// drained by a dedicated write pump. The write pump owns the connection
// teardown so that updates queued before Close still go out.
type Client struct {
	conn *websocket.Conn
	id   uuid.UUID

	actions chan Action
	updates chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
}

// NewClient wraps an upgraded websocket connection. The pumps start when
// Run is called.
func NewClient(conn *websocket.Conn, actionQueueSize, updateQueueSize int, writeTimeout time.Duration) *Client {
	if actionQueueSize <= 0 {
		actionQueueSize = defaultActionQueueSize
	}
	if updateQueueSize <= 0 {
		updateQueueSize = defaultUpdateQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	return &Client{
		conn:         conn,
		id:           uuid.New(),
		actions:      make(chan Action, actionQueueSize),
		updates:      make(chan []byte, updateQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection id assigned to this client.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Actions exposes the inbound action stream. The channel closes when the
// connection goes away.
func (c *Client) Actions() <-chan Action {
	return c.actions
}

// Run pumps the connection until ctx is done or the peer disconnects.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.closeCh:
		}
	}()
	c.readPump()
}

// readPump reads frames, decodes them and forwards Actions to the match.
// Malformed frames and binary frames are dropped with a log; the
// connection stays open.
func (c *Client) readPump() {
	defer close(c.actions)
	defer c.Close()

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			slog.Debug("read loop over", "client", c.id, "error", err)
			return
		}
		if kind != websocket.TextMessage {
			slog.Warn("rejecting non-text frame", "client", c.id, "type", kind)
			continue
		}

		act, err := ParseAction(data)
		if err != nil {
			slog.Warn("dropping malformed action", "client", c.id, "error", err)
			continue
		}

		select {
		case c.actions <- act:
		case <-c.closeCh:
			return
		}
	}
}

// writePump is the dedicated writer goroutine for this client. On
// shutdown it flushes queued updates, sends a close frame and closes
// the connection, which also unblocks the read pump.
func (c *Client) writePump() {
	defer func() {
		if err := c.conn.Close(); err != nil {
			slog.Debug("closing connection", "client", c.id, "error", err)
		}
	}()

	for {
		select {
		case update := <-c.updates:
			if err := c.write(update); err != nil {
				slog.Warn("write failed", "client", c.id, "error", err)
				c.Close()
				return
			}
		case <-c.closeCh:
			c.flushUpdates()
			deadline := time.Now().Add(c.writeTimeout)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

func (c *Client) write(update []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, update)
}

// flushUpdates makes a best-effort pass over updates still queued at
// shutdown so the peer sees the last state of the match.
func (c *Client) flushUpdates() {
	for {
		select {
		case update := <-c.updates:
			if err := c.write(update); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Send queues an update for async delivery. Non-blocking: a full queue
// means the client cannot keep up, so it is disconnected rather than
// allowed to stall the match or skip a turn.
func (c *Client) Send(update []byte) error {
	select {
	case <-c.closeCh:
		return ErrClientClosed
	default:
	}

	select {
	case c.updates <- update:
		return nil
	case <-c.closeCh:
		return ErrClientClosed
	default:
		slog.Warn("update queue full, disconnecting slow client", "client", c.id)
		c.Close()
		return ErrSendQueueFull
	}
}

// Close signals teardown. Safe to call multiple times. The write pump
// closes the underlying connection once queued updates are flushed, so
// the connection is only released after Run has started the pumps.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
}
