package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ExplorViz/vs-code-backend/internal/hub"
	"github.com/ExplorViz/vs-code-backend/internal/session"
)

type Deps struct {
	Hub      *hub.Hub
	Registry *session.Registry
	// Socket serves the websocket endpoint.
	Socket   http.Handler
	BasePath string
	Log      *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log.Named("http")))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/stats", Stats(func() (int, int) {
		return d.Hub.Stats().Connections, d.Registry.Len()
	}))
	r.Get("/sessions/{sessionID}", SessionInfo(d.Hub))
	r.Get("/users/{userID}", UserInfo(d.Registry))

	// Clients connect with and without the trailing slash.
	r.Get(d.BasePath, d.Socket.ServeHTTP)
	if trimmed := strings.TrimSuffix(d.BasePath, "/"); trimmed != d.BasePath && trimmed != "" {
		r.Get(trimmed, d.Socket.ServeHTTP)
	}
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
