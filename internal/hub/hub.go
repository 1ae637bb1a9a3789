package hub

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/ExplorViz/vs-code-backend/internal/types"
)

type HubMsg interface{ isHubMsg() }

// RegisterConn makes a connection addressable. Outbox receives every message
// for the connection and is closed when the connection is unregistered or
// dropped for being too slow.
type RegisterConn struct {
	ConnID string
	Outbox chan<- types.ServerMessage
}

// UnregisterConn removes a connection and all of its group memberships.
// Done is closed once that has happened.
type UnregisterConn struct {
	ConnID string
	Done   chan struct{}
}

type JoinRoom struct {
	ConnID string
	Room   string
}

type LeaveRoom struct {
	ConnID string
	Room   string
}

// BroadcastRoom delivers Msg to every member of Room except Except.
type BroadcastRoom struct {
	Room   string
	Except string
	Msg    types.ServerMessage
}

// EmitConn delivers Msg to a single connection.
type EmitConn struct {
	ConnID string
	Msg    types.ServerMessage
}

type GetRooms struct {
	ConnID string
	Reply  chan RoomSet
}

type GetSize struct {
	Room  string
	Reply chan int
}

type GetStats struct {
	Reply chan Stats
}

type ShutdownHub struct{}

func (RegisterConn) isHubMsg()   {}
func (UnregisterConn) isHubMsg() {}
func (JoinRoom) isHubMsg()       {}
func (LeaveRoom) isHubMsg()      {}
func (BroadcastRoom) isHubMsg()  {}
func (EmitConn) isHubMsg()       {}
func (GetRooms) isHubMsg()       {}
func (GetSize) isHubMsg()        {}
func (GetStats) isHubMsg()       {}
func (ShutdownHub) isHubMsg()    {}

type RoomSet struct {
	Rooms []string
	Known bool
}

type Stats struct {
	Connections int
	Rooms       int
}

// Hub owns group membership for every live connection. All state is touched
// only by the loop goroutine; the exported methods are thin wrappers that
// post to the inbox.
type Hub struct {
	inbox   chan HubMsg
	conns   map[string]chan<- types.ServerMessage
	members map[string]map[string]struct{} // room -> conn ids
	rooms   map[string]map[string]struct{} // conn id -> rooms
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		conns:   make(map[string]chan<- types.ServerMessage),
		members: make(map[string]map[string]struct{}),
		rooms:   make(map[string]map[string]struct{}),
		log:     log.Named("hub"),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case RegisterConn:
				if _, ok := h.conns[msg.ConnID]; ok {
					h.log.Warn("connection registered twice", zap.String("conn", msg.ConnID))
					break
				}
				h.conns[msg.ConnID] = msg.Outbox
				h.rooms[msg.ConnID] = make(map[string]struct{})

			case UnregisterConn:
				h.remove(msg.ConnID)
				close(msg.Done)

			case JoinRoom:
				joined, ok := h.rooms[msg.ConnID]
				if !ok {
					h.log.Warn("join from unknown connection",
						zap.String("conn", msg.ConnID), zap.String("room", msg.Room))
					break
				}
				joined[msg.Room] = struct{}{}
				if h.members[msg.Room] == nil {
					h.members[msg.Room] = make(map[string]struct{})
				}
				h.members[msg.Room][msg.ConnID] = struct{}{}

			case LeaveRoom:
				h.leave(msg.ConnID, msg.Room)

			case BroadcastRoom:
				for id := range h.members[msg.Room] {
					if id == msg.Except {
						continue
					}
					h.deliver(id, msg.Msg)
				}

			case EmitConn:
				h.deliver(msg.ConnID, msg.Msg)

			case GetRooms:
				joined, ok := h.rooms[msg.ConnID]
				set := RoomSet{Known: ok}
				for r := range joined {
					set.Rooms = append(set.Rooms, r)
				}
				slices.Sort(set.Rooms)
				msg.Reply <- set

			case GetSize:
				msg.Reply <- len(h.members[msg.Room])

			case GetStats:
				msg.Reply <- Stats{Connections: len(h.conns), Rooms: len(h.members)}

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

// deliver never blocks the loop. A connection whose outbox is full is
// dropped; closing the outbox tells its writer to hang up.
func (h *Hub) deliver(id string, msg types.ServerMessage) {
	out, ok := h.conns[id]
	if !ok {
		return
	}
	select {
	case out <- msg:
	default:
		h.log.Warn("outbox full, dropping slow connection", zap.String("conn", id))
		h.remove(id)
	}
}

func (h *Hub) leave(id, room string) {
	delete(h.rooms[id], room)
	if set, ok := h.members[room]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(h.members, room)
		}
	}
}

func (h *Hub) remove(id string) {
	out, ok := h.conns[id]
	if !ok {
		return
	}
	for room := range h.rooms[id] {
		h.leave(id, room)
	}
	delete(h.rooms, id)
	delete(h.conns, id)
	close(out)
}

func (h *Hub) shutdown() {
	for id := range h.conns {
		h.remove(id)
	}
}

func (h *Hub) send(m HubMsg) bool {
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) Register(connID string, outbox chan<- types.ServerMessage) {
	h.send(RegisterConn{ConnID: connID, Outbox: outbox})
}

// Unregister returns once the connection has left every room, so anything
// the caller does afterwards observes the membership without it.
func (h *Hub) Unregister(connID string) {
	done := make(chan struct{})
	if !h.send(UnregisterConn{ConnID: connID, Done: done}) {
		return
	}
	select {
	case <-done:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Join(connID, room string) {
	h.send(JoinRoom{ConnID: connID, Room: room})
}

func (h *Hub) Leave(connID, room string) {
	h.send(LeaveRoom{ConnID: connID, Room: room})
}

func (h *Hub) Broadcast(room, except string, msg types.ServerMessage) {
	h.send(BroadcastRoom{Room: room, Except: except, Msg: msg})
}

func (h *Hub) Emit(connID string, msg types.ServerMessage) {
	h.send(EmitConn{ConnID: connID, Msg: msg})
}

// Rooms lists the rooms connID is in, sorted by name. ok is false for
// unknown connections.
func (h *Hub) Rooms(connID string) ([]string, bool) {
	reply := make(chan RoomSet, 1)
	if !h.send(GetRooms{ConnID: connID, Reply: reply}) {
		return nil, false
	}
	select {
	case set := <-reply:
		return set.Rooms, set.Known
	case <-h.ctx.Done():
		return nil, false
	}
}

func (h *Hub) Size(room string) int {
	reply := make(chan int, 1)
	if !h.send(GetSize{Room: room, Reply: reply}) {
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-h.ctx.Done():
		return 0
	}
}

func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	if !h.send(GetStats{Reply: reply}) {
		return Stats{}
	}
	select {
	case s := <-reply:
		return s
	case <-h.ctx.Done():
		return Stats{}
	}
}

// Close closes every outbox and stops the loop. It is safe to call more than
// once.
func (h *Hub) Close() {
	h.send(ShutdownHub{})
	<-h.done
}
