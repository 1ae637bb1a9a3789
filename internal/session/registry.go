package session

import "sync"

// Binding ties a user to the session it was first assigned and to the
// connection that most recently identified as that user.
type Binding struct {
	UserID       string `json:"userId"`
	SessionID    string `json:"room"`
	ConnectionID string `json:"socketId"`
}

// Namer generates fresh session ids.
type Namer interface {
	Generate() string
}

// Registry maps user ids to bindings. Entries live as long as the registry;
// there is no removal.
type Registry struct {
	mu       sync.RWMutex
	namer    Namer
	bindings map[string]Binding
}

func NewRegistry(namer Namer) *Registry {
	return &Registry{
		namer:    namer,
		bindings: make(map[string]Binding),
	}
}

func (r *Registry) Lookup(userID string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[userID]
	return b, ok
}

// Upsert returns the binding for userID, creating one with a freshly
// generated session id if the user is unknown. A known user keeps its
// session id; only the connection id is replaced. created reports whether a
// new binding was made.
func (r *Registry) Upsert(userID, connID string) (b Binding, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[userID]
	if !ok {
		b = Binding{UserID: userID, SessionID: r.namer.Generate()}
		created = true
	}
	b.ConnectionID = connID
	r.bindings[userID] = b
	return b, created
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
