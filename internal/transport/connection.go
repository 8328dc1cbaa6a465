package transport

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"planner-server/internal/app"
	"planner-server/internal/commands"
	"planner-server/internal/logging"
	"planner-server/internal/metrics"
	"planner-server/internal/room"
)

const (
	// readWait is how long a connection may stay silent (no frame, no pong)
	// before it's considered dead. Generous relative to the 45s heartbeat
	// so one missed ping doesn't trip it.
	readWait = 90 * time.Second
	// writeWait bounds a single WriteMessage call.
	writeWait = 10 * time.Second
	// maxMessageSize caps an inbound frame; oversized frames are protocol
	// abuse, not a recoverable parse error, so the connection is dropped.
	maxMessageSize = 64 * 1024
)

// connection owns one admitted WebSocket: the room/addr it belongs to, its
// outbox, and the two goroutines (readPump/writePump) generalized from the
// teacher's pkg/handlers readPump/writePump — same deadline/ticker shape,
// retargeted at the command dispatcher instead of the document/room
// broadcast channels.
type connection struct {
	conn     *websocket.Conn
	app      *app.App
	metrics  *metrics.Recorder
	logger   *zap.Logger
	roomName string
	addr     room.Addr
	out      *outbox
}

// readPump blocks reading frames until the socket errors or closes,
// dispatching each well-formed command envelope and dropping anything
// else, per spec.md §4.3's "unknown or malformed envelopes are logged and
// ignored". On exit it always disconnects the user and closes the socket.
func (c *connection) readPump() {
	defer func() {
		c.out.Close()
		c.app.DisconnectUser(context.Background(), c.roomName, c.addr)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("unexpected close", zap.String("addr", string(c.addr)), zap.Error(err))
			}
			return
		}

		c.logTrace("received frame", zap.String("addr", string(c.addr)), zap.ByteString("message", message))

		env, err := commands.Parse(message)
		if err != nil {
			c.logger.Debug("dropping malformed envelope", zap.String("addr", string(c.addr)), zap.Error(err))
			continue
		}

		if !commands.Dispatch(c.app, c.roomName, c.addr, env) {
			c.logger.Debug("dropping unknown envelope type", zap.String("type", env.Type))
		}
		c.metrics.CommandProcessed(env.Type, "handled")
	}
}

// writePump drains the connection's outbox onto the socket until it's
// told to close or a write fails, mirroring the teacher's writePump
// minus its own ping ticker — pings are driven centrally by the
// heartbeat sweep (see heartbeat.go) and arrive as ordinary frames.
func (c *connection) writePump() {
	defer c.conn.Close()

	for {
		select {
		case <-c.out.closeCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case f := <-c.out.frames:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			var err error
			switch f.kind {
			case framePing:
				err = c.conn.WriteMessage(websocket.PingMessage, nil)
			default:
				err = c.conn.WriteMessage(websocket.TextMessage, f.data)
			}
			if err != nil {
				c.logger.Debug("write error, dropping connection", zap.String("addr", string(c.addr)), zap.Error(err))
				return
			}
		}
	}
}

// logTrace is a thin helper for the handful of call sites that want
// trace-level detail (below zap's own Debug), matching spec.md's
// four-tier CLI verbosity.
func (c *connection) logTrace(msg string, fields ...zap.Field) {
	logging.Trace(c.logger, msg, fields...)
}
