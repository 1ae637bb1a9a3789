// Package room names the broadcast groups a session is made of and answers
// questions about their membership.
//
// A session created by a frontend is split into two channels,
// "<session>:frontend" and "<session>:ide". Relay traffic always flows from
// one of them to its opposite. Pair-programming rooms use a single channel,
// "<room>:pairprogramming", with no opposite.
package room

import (
	"strings"
)

type Role string

const (
	RoleFrontend        Role = "frontend"
	RoleIDE             Role = "ide"
	RolePairProgramming Role = "pairprogramming"
)

const separator = ":"

func (r Role) valid() bool {
	switch r {
	case RoleFrontend, RoleIDE, RolePairProgramming:
		return true
	}
	return false
}

// Channel is one role-scoped group within a session. The zero Channel means
// "not bound to anything".
type Channel struct {
	SessionID string
	Role      Role
}

// Name returns the group name for sessionID and role.
func Name(sessionID string, role Role) string {
	return sessionID + separator + string(role)
}

func (c Channel) String() string {
	if c.IsZero() {
		return ""
	}
	return Name(c.SessionID, c.Role)
}

func (c Channel) IsZero() bool { return c == Channel{} }

// Paired reports whether c is the frontend or IDE half of a session.
func (c Channel) Paired() bool {
	return c.Role == RoleFrontend || c.Role == RoleIDE
}

// Opposite swaps frontend and IDE within the same session. Pair-programming
// and zero channels have no opposite.
func (c Channel) Opposite() (Channel, bool) {
	switch c.Role {
	case RoleFrontend:
		return Channel{SessionID: c.SessionID, Role: RoleIDE}, true
	case RoleIDE:
		return Channel{SessionID: c.SessionID, Role: RoleFrontend}, true
	default:
		return Channel{}, false
	}
}

// Parse is the inverse of Channel.String. It fails for names without a
// session part or without a known role suffix.
func Parse(name string) (Channel, bool) {
	i := strings.LastIndex(name, separator)
	if i <= 0 {
		return Channel{}, false
	}
	c := Channel{SessionID: name[:i], Role: Role(name[i+1:])}
	if !c.Role.valid() {
		return Channel{}, false
	}
	return c, true
}
