// Package api exposes a search session over JSON HTTP endpoints and a
// websocket event stream.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/docsearch/pkg/health"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/rubiojr/docsearch/pkg/realtime"
	"github.com/rubiojr/docsearch/pkg/session"
)

type Server struct {
	svc             *session.Service
	hub             *realtime.Hub
	monitor         *health.Monitor
	suggestionLimit int
	upgrader        websocket.Upgrader
	logger          *log.Logger
}

type Option func(*Server)

// WithSuggestionLimit caps the suggestions returned per request.
func WithSuggestionLimit(n int) Option {
	return func(s *Server) { s.suggestionLimit = n }
}

// NewServer returns a Server for svc. hub and monitor may be nil, in which
// case /api/events is unavailable and /health reports no diagnostics.
func NewServer(svc *session.Service, hub *realtime.Hub, monitor *health.Monitor, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		hub:     hub,
		monitor: monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log.ForService("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
