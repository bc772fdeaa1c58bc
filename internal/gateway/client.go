package gateway

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/driveline/driveline/pkg/constant"
	"github.com/mbeoliero/kit/log"
)

// Client represents a connected WebSocket client
type Client struct {
	conn      ClientConn
	UserId    int64
	ConnId    string
	server    *WsServer
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId int64, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		UserId: userId,
		ConnId: connId,
		server: server,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the client message handling
func (c *Client) Start() {
	go c.readLoop()
}

// readLoop continuously reads frames from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%d, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%d, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleFrame(message); err != nil {
			log.CtxWarn(c.ctx, "handle frame error: user_id=%d, error=%v", c.UserId, err)
		}
	}
}

// handleFrame dispatches a single inbound frame. Unknown events are dropped
// rather than closing the connection; a stale client must not lose presence
// over a protocol drift.
func (c *Client) handleFrame(message []byte) error {
	var frame InboundFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return ErrInvalidFrame
	}

	switch frame.Event {
	case constant.EventTyping, constant.EventStopTyping:
		return c.relayTyping(frame.Event, frame.Data)
	default:
		log.CtxDebug(c.ctx, "unknown frame event: %s, user_id=%d", frame.Event, c.UserId)
		return nil
	}
}

// relayTyping forwards a typing notification to the target user's connections
func (c *Client) relayTyping(event string, data json.RawMessage) error {
	var typing TypingFrame
	if err := json.Unmarshal(data, &typing); err != nil {
		return ErrInvalidFrame
	}
	if typing.To <= 0 {
		return nil
	}

	c.server.PushToUsers(event, &TypingEvent{From: c.UserId}, typing.To)
	return nil
}

// Write sends a pre-marshaled envelope to the peer
func (c *Client) Write(data []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	return c.conn.WriteMessage(data)
}

// Close closes the client connection
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.cancel()
	return c.conn.Close()
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
