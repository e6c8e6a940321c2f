package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/MikeSquared-Agency/scribe/internal/chat"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

// Store is the persistence surface the API needs.
type Store interface {
	WriteTranscript(ctx context.Context, name, source string, res *chat.Result) (uuid.UUID, error)
	GetTranscript(ctx context.Context, id uuid.UUID) (store.Transcript, error)
	ListTranscripts(ctx context.Context) ([]store.Transcript, error)
	ListMessages(ctx context.Context, transcriptID uuid.UUID) ([]chat.Message, error)
}

// Publisher announces ingested transcripts on the swarm bus.
type Publisher interface {
	Publish(subject string, data any) error
}

type Server struct {
	router *chi.Mux
	port   int
	store  Store
	bus    Publisher // may be nil
	parser *chat.Parser
	logger *slog.Logger
}

func NewServer(port int, apiToken string, db Store, bus Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		store:  db,
		bus:    bus,
		parser: chat.NewParser(logger),
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/scribe/status", s.status)

	router.Route("/api/v1/transcripts", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/", s.uploadTranscript)
		r.Get("/", s.listTranscripts)
		r.Get("/{id}/messages", s.getMessages)
		r.Get("/{id}/messages.csv", s.getMessagesCSV)
		r.Get("/{id}/stats/users", s.getUserStats)
		r.Get("/{id}/stats/overview", s.getOverview)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the expected bearer
// token. An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "scribe",
		"status": "ready",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
