// internal/httpserver/server.go
//
// HTTP server wiring for the arcade backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Match endpoints: create, list, inspect, drive and close live matches.
//   - Live stream: GET /matches/{id}/ws (JSON or msgpack frames).
//   - Score endpoints: leaderboard and record CRUD; edits need an admin token.
//   - Daily endpoints: mounted under /daily.
//
// Notes:
//   - The websocket route sits outside the request timeout.
//   - Game transitions that are not allowed are reported as "accepted": false,
//     never as HTTP errors.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/lacey1998/FishMIner-Game/internal/checkpoint"
	"github.com/lacey1998/FishMIner-Game/internal/config"
	"github.com/lacey1998/FishMIner-Game/internal/game"
	"github.com/lacey1998/FishMIner-Game/internal/scores"
	"github.com/lacey1998/FishMIner-Game/internal/store"
)

// Deps are the collaborators a Server needs. Checkpoints may be nil.
type Deps struct {
	Matches     store.Store
	Scores      scores.Store
	Checkpoints *checkpoint.Store
	Game        game.Config
	Env         config.Env
}

type Server struct {
	r           *chi.Mux
	matches     store.Store
	scores      scores.Store
	checkpoints *checkpoint.Store
	game        game.Config
	env         config.Env
	now         func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:           chi.NewRouter(),
		matches:     d.Matches,
		scores:      d.Scores,
		checkpoints: d.Checkpoints,
		game:        d.Game,
		env:         d.Env,
		now:         time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)

	// long-lived; no timeout, no JSON header
	s.r.Get("/matches/{id}/ws", s.handleMatchStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"fishminer","endpoints":["/health","/matches","/matches/{id}/ws","/scores","/daily","/auth/token"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountMatches(r)
		s.mountScores(r)
		s.mountDaily(r)
		s.mountAuth(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by main's http.Server and by tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.env.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeStoreError maps not-found sentinels to 404 and everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, scores.ErrNotFound) || errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	log.Error().Err(err).Msg("store error")
	writeError(w, http.StatusInternalServerError, "internal")
}
