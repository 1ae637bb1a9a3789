package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ExplorViz/vs-code-backend/internal/hub"
	"github.com/ExplorViz/vs-code-backend/internal/relay"
	"github.com/ExplorViz/vs-code-backend/internal/types"
)

const writeTimeout = 3 * time.Second

var errPingTimeout = errors.New("ping timeout")

type Options struct {
	// OriginPatterns are passed to websocket.AcceptOptions. A "*" entry
	// disables the origin check.
	OriginPatterns []string
	MaxMessageSize int64
	PingInterval   time.Duration
	PingTimeout    time.Duration
	OutboxSize     int
}

func (o Options) acceptOptions() *websocket.AcceptOptions {
	for _, p := range o.OriginPatterns {
		if p == "*" {
			return &websocket.AcceptOptions{InsecureSkipVerify: true}
		}
	}
	return &websocket.AcceptOptions{OriginPatterns: o.OriginPatterns}
}

func Handler(h *hub.Hub, router *relay.Router, opts Options, log *zap.Logger) http.HandlerFunc {
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, opts.acceptOptions())
		if err != nil {
			log.Debug("websocket handshake failed", zap.Error(err))
			return
		}
		conn.SetReadLimit(opts.MaxMessageSize)

		clientID := uuid.NewString()
		clog := log.With(zap.String("conn", clientID))
		clog.Debug("connected", zap.String("remote", r.RemoteAddr))

		out := make(chan types.ServerMessage, opts.OutboxSize)
		h.Register(clientID, out)
		c := relay.NewConn(clientID)

		ctx, cancel := context.WithCancelCause(r.Context())
		defer cancel(nil)

		// Writer goroutine. The outbox is closed by the hub on unregister or
		// when this client is too slow to keep up.
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					clog.Error("encode outbound message", zap.String("event", msg.Event), zap.Error(err))
					continue
				}
				wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
				err = conn.Write(wctx, websocket.MessageText, payload)
				wcancel()
				if err != nil {
					cancel(fmt.Errorf("write: %w", err))
					return
				}
			}
			// Dropped by the hub or shutting down.
			cancel(errors.New("server closed connection"))
		}()

		go heartbeat(ctx, cancel, conn, opts)

		reason := readLoop(ctx, conn, h, router, c, clog)

		// Memberships must be gone before the router sends disconnect
		// notifications.
		h.Unregister(clientID)
		router.Disconnect(c, reason)

		cancel(nil)
		<-writerDone
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

// readLoop handles frames until the connection ends and returns the
// disconnect reason.
func readLoop(ctx context.Context, conn *websocket.Conn, h *hub.Hub, router *relay.Router, c *relay.Conn, log *zap.Logger) string {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return disconnectReason(ctx, err)
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			log.Warn("bad json from client", zap.Error(err))
			h.Emit(c.ID, types.NewError("bad json"))
			continue
		}

		if err := router.Dispatch(c, cm, ackFor(h, c.ID, cm.ID)); err != nil {
			log.Warn("rejected client frame", zap.String("event", cm.Event), zap.Error(err))
			h.Emit(c.ID, types.NewError(err.Error()))
		}
	}
}

// ackFor routes the acknowledgment through the hub so it stays ordered with
// everything else sent to the client.
func ackFor(h *hub.Hub, connID string, id *uint64) relay.Ack {
	if id == nil {
		return nil
	}
	ackID := *id
	return func(args ...any) {
		h.Emit(connID, types.NewAck(ackID, args...))
	}
}

func heartbeat(ctx context.Context, cancel context.CancelCauseFunc, conn *websocket.Conn, opts Options) {
	t := time.NewTicker(opts.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, pcancel := context.WithTimeout(ctx, opts.PingTimeout)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				if ctx.Err() == nil {
					cancel(errPingTimeout)
				}
				return
			}
		}
	}
}

func disconnectReason(ctx context.Context, err error) string {
	if cause := context.Cause(ctx); cause != nil {
		if errors.Is(cause, errPingTimeout) {
			return "ping timeout"
		}
		if !errors.Is(cause, context.Canceled) {
			return cause.Error()
		}
	}
	// Treat clean close/going-away as normal:
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return "client namespace disconnect"
	case -1:
		return "transport error"
	default:
		return fmt.Sprintf("transport close (%d)", websocket.CloseStatus(err))
	}
}
