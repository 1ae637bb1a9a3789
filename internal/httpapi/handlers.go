package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ExplorViz/vs-code-backend/internal/room"
	"github.com/ExplorViz/vs-code-backend/internal/session"
)

// Counter is the part of the hub the introspection endpoints read.
type Counter interface {
	Size(name string) int
}

type sessionView struct {
	SessionID string `json:"sessionId"`
	Frontends int    `json:"frontends"`
	IDEs      int    `json:"ides"`
	Exists    bool   `json:"exists"`
}

// SessionInfo reports how many clients sit on each side of a session.
func SessionInfo(c Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		view := sessionView{
			SessionID: id,
			Frontends: c.Size(room.Name(id, room.RoleFrontend)),
			IDEs:      c.Size(room.Name(id, room.RoleIDE)),
		}
		view.Exists = view.Frontends > 0
		writeJSON(w, http.StatusOK, view)
	}
}

type StatsFunc func() (connections, bindings int)

func Stats(stats StatsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conns, bindings := stats()
		writeJSON(w, http.StatusOK, struct {
			Connections int `json:"connections"`
			Bindings    int `json:"bindings"`
		}{conns, bindings})
	}
}

// UserInfo returns the binding stored for a user id.
func UserInfo(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := reg.Lookup(chi.URLParam(r, "userID"))
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
