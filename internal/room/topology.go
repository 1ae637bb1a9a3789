package room

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Membership is the read side of the group transport.
type Membership interface {
	// Rooms lists the groups connID currently belongs to. ok is false when
	// the connection is unknown to the transport.
	Rooms(connID string) (rooms []string, ok bool)
	// Size returns the number of members in the named group.
	Size(name string) int
}

type Topology struct {
	members Membership
	log     *zap.Logger
}

func NewTopology(members Membership, log *zap.Logger) *Topology {
	return &Topology{members: members, log: log.Named("topology")}
}

// Exists reports whether c has at least one member.
func (t *Topology) Exists(c Channel) bool {
	if c.IsZero() {
		return false
	}
	return t.members.Size(c.String()) > 0
}

// SessionExists reports whether a frontend is connected to sessionID. IDE
// clients may only join sessions for which this holds.
func (t *Topology) SessionExists(sessionID string) bool {
	return t.Exists(Channel{SessionID: sessionID, Role: RoleFrontend})
}

// Current derives the channel connID is in from the transport's membership,
// returning the first one whose role is in roles. Callers must not rely on
// which channel wins if a connection sits in several matching ones.
func (t *Topology) Current(connID string, roles ...Role) (Channel, bool) {
	rooms, ok := t.members.Rooms(connID)
	if !ok {
		t.log.Error("room set for connection is undefined, nothing will be emitted",
			zap.String("conn", connID))
		return Channel{}, false
	}

	for _, name := range rooms {
		c, ok := Parse(name)
		if !ok {
			if strings.Contains(name, separator) {
				t.log.Error("channel name violates naming contract",
					zap.String("conn", connID), zap.String("channel", name))
			}
			continue
		}
		if slices.Contains(roles, c.Role) {
			return c, true
		}
	}
	return Channel{}, false
}
