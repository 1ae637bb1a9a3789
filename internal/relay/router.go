// Package relay implements the per-connection event handling that pairs
// frontends with IDEs and forwards their traffic.
//
// A connection goes from unbound to exactly one bound channel (frontend, IDE
// or pair programming) and stays there until it disconnects. The bound
// channel is recorded on the Conn when it is joined, so routing and the
// disconnect notification do not depend on what the transport still reports
// about the connection.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ExplorViz/vs-code-backend/internal/room"
	"github.com/ExplorViz/vs-code-backend/internal/session"
	"github.com/ExplorViz/vs-code-backend/internal/types"
	ideapi "github.com/ExplorViz/vs-code-backend/pkg/types"
)

var ErrUnknownEvent = errors.New("unknown event")
var ErrBadPayload = errors.New("bad payload")

// Transport is the group messaging layer the router drives.
type Transport interface {
	room.Membership
	Join(connID, room string)
	Leave(connID, room string)
	// Broadcast sends msg to every member of room except the connection
	// with id except.
	Broadcast(room, except string, msg types.ServerMessage)
}

// Ack answers a client's request. Calling it with no arguments signals a
// rejection. A nil Ack means the client did not ask for an answer.
type Ack func(args ...any)

func (a Ack) call(args ...any) {
	if a != nil {
		a(args...)
	}
}

// Conn is the router's view of one client connection. It is not safe for
// concurrent use; the transport hands a connection's events to the router
// one at a time.
type Conn struct {
	ID    string
	bound room.Channel
}

func NewConn(id string) *Conn { return &Conn{ID: id} }

// Bound returns the channel the connection joined last, or the zero Channel.
func (c *Conn) Bound() room.Channel { return c.bound }

type Options struct {
	// ExperimentMode lets clients join pair-programming rooms nobody has
	// created yet.
	ExperimentMode bool
}

type Router struct {
	transport Transport
	topology  *room.Topology
	registry  *session.Registry
	namer     session.Namer
	opts      Options
	log       *zap.Logger
}

func NewRouter(transport Transport, registry *session.Registry, namer session.Namer, opts Options, log *zap.Logger) *Router {
	return &Router{
		transport: transport,
		topology:  room.NewTopology(transport, log),
		registry:  registry,
		namer:     namer,
		opts:      opts,
		log:       log.Named("relay"),
	}
}

// Dispatch decodes msg and runs the matching handler. Errors are returned
// only for frames the router cannot make sense of; routing failures are not
// errors. A request whose payload does not decode is still rejected through
// ack.
func (r *Router) Dispatch(c *Conn, msg types.ClientMessage, ack Ack) error {
	switch msg.Event {
	case types.EventCreatePairProgrammingRoom:
		r.CreatePairProgrammingRoom(c, ack)

	case types.EventJoinPairProgrammingRoom:
		var roomName string
		if err := decodeArg(msg, &roomName); err != nil {
			ack.call()
			return err
		}
		r.JoinPairProgrammingRoom(c, roomName, ack)

	case types.EventUpdateUserInfo:
		var p types.UserInfoPayload
		if err := decodeArg(msg, &p); err != nil {
			ack.call()
			return err
		}
		r.UpdateUserInfo(c, p.UserID, ack)

	case types.EventJoinCustomRoom:
		var p types.RoomJoinPayload
		if err := decodeArg(msg, &p); err != nil {
			ack.call()
			return err
		}
		r.JoinCustomRoom(c, p.RoomID, ack)

	case types.EventBroadcastTextSelection:
		r.BroadcastTextSelection(c, msg.Arg(0), ack)

	case ideapi.VizDo, ideapi.IDEDo:
		r.Relay(c, msg.Event, msg.Arg(0))

	case types.EventRefresh:
		r.Refresh(c, msg.Arg(0))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, msg.Event)
	}
	return nil
}

func decodeArg(msg types.ClientMessage, v any) error {
	arg := msg.Arg(0)
	if arg == nil {
		return fmt.Errorf("%w: %s: missing argument", ErrBadPayload, msg.Event)
	}
	if err := json.Unmarshal(arg, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, msg.Event, err)
	}
	return nil
}

// bind moves c into ch, leaving whatever it was bound to before.
// Re-binding the same channel only repeats the join.
func (r *Router) bind(c *Conn, ch room.Channel) {
	if !c.bound.IsZero() && c.bound != ch {
		r.transport.Leave(c.ID, c.bound.String())
	}
	r.transport.Join(c.ID, ch.String())
	c.bound = ch
}

// paired resolves the frontend or IDE channel c is in.
func (r *Router) paired(c *Conn) (room.Channel, bool) {
	if c.bound.IsZero() {
		return r.topology.Current(c.ID, room.RoleFrontend, room.RoleIDE)
	}
	return c.bound, c.bound.Paired()
}

func (r *Router) pairProgramming(c *Conn) (room.Channel, bool) {
	if c.bound.IsZero() {
		return r.topology.Current(c.ID, room.RolePairProgramming)
	}
	return c.bound, c.bound.Role == room.RolePairProgramming
}

func (r *Router) CreatePairProgrammingRoom(c *Conn, ack Ack) {
	id := r.namer.Generate()
	r.bind(c, room.Channel{SessionID: id, Role: room.RolePairProgramming})

	r.log.Debug("created and joined pair programming room",
		zap.String("conn", c.ID), zap.String("room", id))
	ack.call(id)
}

func (r *Router) JoinPairProgrammingRoom(c *Conn, roomName string, ack Ack) {
	ch := room.Channel{SessionID: roomName, Role: room.RolePairProgramming}
	if !r.opts.ExperimentMode && !r.topology.Exists(ch) {
		r.log.Debug("pair programming room does not exist",
			zap.String("conn", c.ID), zap.String("room", roomName))
		ack.call()
		return
	}

	r.bind(c, ch)
	r.log.Debug("joined pair programming room",
		zap.String("conn", c.ID), zap.String("room", roomName))
	ack.call(roomName)
}

// UpdateUserInfo puts c on the frontend side of the user's session, creating
// the session on first contact.
func (r *Router) UpdateUserInfo(c *Conn, userID string, ack Ack) {
	b, created := r.registry.Upsert(userID, c.ID)
	ch := room.Channel{SessionID: b.SessionID, Role: room.RoleFrontend}
	r.bind(c, ch)

	verb := "re-joined"
	if created {
		verb = "joined"
	}
	r.log.Debug("frontend "+verb+" session",
		zap.String("conn", c.ID), zap.String("user", userID), zap.Stringer("channel", ch))
	ack.call(b.SessionID)
}

// JoinCustomRoom puts c on the IDE side of an existing session and asks the
// session's frontend to resend its visualization state.
func (r *Router) JoinCustomRoom(c *Conn, roomID string, ack Ack) {
	if !r.topology.SessionExists(roomID) {
		r.log.Debug("no frontend connected for session",
			zap.String("conn", c.ID), zap.String("session", roomID))
		ack.call()
		return
	}

	ch := room.Channel{SessionID: roomID, Role: room.RoleIDE}
	r.bind(c, ch)
	r.log.Debug("ide joined session", zap.String("conn", c.ID), zap.Stringer("channel", ch))
	ack.call(roomID)

	opp, _ := ch.Opposite()
	if !r.topology.Exists(opp) {
		return
	}
	r.log.Debug("requesting visualization data",
		zap.Stringer("from", ch), zap.Stringer("to", opp))
	r.transport.Broadcast(opp.String(), c.ID,
		types.NewEvent(ideapi.VizDo, ideapi.ActionRequest{Action: ideapi.ActionGetVizData}))
}

// Relay forwards payload unchanged to the other half of c's session under
// the event name it arrived on. Messages from connections that are not
// paired yet are dropped.
func (r *Router) Relay(c *Conn, event string, payload json.RawMessage) {
	from, ok := r.paired(c)
	if !ok {
		r.log.Debug("dropping relay from unpaired connection",
			zap.String("conn", c.ID), zap.String("event", event))
		return
	}
	to, _ := from.Opposite()

	r.log.Debug("relaying",
		zap.String("event", event), zap.String("action", actionOf(payload)),
		zap.Stringer("from", from), zap.Stringer("to", to))
	r.transport.Broadcast(to.String(), c.ID, types.NewEvent(event, payload))
}

// Refresh wraps payload into a getVizData request for the frontend side.
func (r *Router) Refresh(c *Conn, payload json.RawMessage) {
	from, ok := r.paired(c)
	if !ok {
		r.log.Debug("dropping refresh from unpaired connection", zap.String("conn", c.ID))
		return
	}
	to, _ := from.Opposite()

	r.log.Debug("relaying refresh", zap.Stringer("from", from), zap.Stringer("to", to))
	r.transport.Broadcast(to.String(), c.ID,
		types.NewEvent(ideapi.VizDo, ideapi.Notification(ideapi.ActionGetVizData, payload)))
}

// BroadcastTextSelection shares payload with the other members of c's
// pair-programming room. A null payload is forwarded as null.
func (r *Router) BroadcastTextSelection(c *Conn, payload json.RawMessage, ack Ack) {
	ch, ok := r.pairProgramming(c)
	if !ok {
		ack.call(false)
		return
	}

	r.transport.Broadcast(ch.String(), c.ID, types.NewEvent(types.EventReceiveTextSelection, payload))
	ack.call(true)
}

// Disconnect tells the remaining half of c's session that c is gone. The
// transport must have removed c from its rooms already.
func (r *Router) Disconnect(c *Conn, reason string) {
	ch := c.bound
	c.bound = room.Channel{}
	r.log.Debug("connection closed", zap.String("conn", c.ID), zap.String("reason", reason))

	if ch.IsZero() {
		return
	}

	opp, ok := ch.Opposite()
	if !ok {
		if ch.Role != room.RolePairProgramming {
			r.log.Error("wrong channel name on disconnect",
				zap.String("conn", c.ID), zap.Stringer("channel", ch))
		}
		return
	}
	if !r.topology.Exists(opp) {
		r.log.Debug("no peer to notify", zap.Stringer("channel", opp))
		return
	}

	event, action := ideapi.VizDo, ideapi.ActionDisconnectIDE
	if ch.Role == room.RoleFrontend {
		event, action = ideapi.IDEDo, ideapi.ActionDisconnectFrontend
	}
	r.log.Debug("client closed its side of the session",
		zap.Stringer("from", ch), zap.Stringer("to", opp), zap.String("action", string(action)))
	r.transport.Broadcast(opp.String(), c.ID, types.NewEvent(event, ideapi.DisconnectNotification(action)))
}

func actionOf(payload json.RawMessage) string {
	var head struct {
		Action ideapi.Action `json:"action"`
	}
	_ = json.Unmarshal(payload, &head)
	return string(head.Action)
}
