// internal/httpserver/routes_matches.go
//
// Live match endpoints:
//   - POST   /matches                 → create an idle match {name, mode}
//   - GET    /matches                 → list live matches
//   - GET    /matches/{id}            → current view
//   - POST   /matches/{id}/start      → {accepted, state}
//   - POST   /matches/{id}/restart    → {accepted, state}
//   - POST   /matches/{id}/catch      → {accepted, state}
//   - DELETE /matches/{id}            → stop and forget the match
//   - GET    /matches/{id}/checkpoint → last local snapshot, even for a match
//     lost in a crash

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lacey1998/FishMIner-Game/internal/arcade"
	"github.com/lacey1998/FishMIner-Game/internal/game"
)

type newMatchReq struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type newMatchRes struct {
	MatchID string         `json:"matchId"`
	Match   arcade.Summary `json:"match"`
}

type actionRes struct {
	Accepted bool      `json:"accepted"`
	State    game.View `json:"state"`
}

// mountMatches uses flat routes; /matches/{id}/ws is registered outside
// this group.
func (s *Server) mountMatches(r chi.Router) {
	r.Post("/matches", s.handleNewMatch)
	r.Get("/matches", s.handleListMatches)
	r.Get("/matches/{id}", s.handleGetMatch)
	r.Delete("/matches/{id}", s.handleDeleteMatch)
	r.Post("/matches/{id}/start", s.matchAction((*arcade.Match).Start))
	r.Post("/matches/{id}/restart", s.matchAction((*arcade.Match).Restart))
	r.Post("/matches/{id}/catch", s.matchAction((*arcade.Match).Catch))
	r.Get("/matches/{id}/checkpoint", s.handleMatchCheckpoint)
}

func (s *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	var req newMatchReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	mode, err := arcade.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_mode")
		return
	}
	m, err := s.newMatch(r.Context(), req.Name, mode)
	if err != nil {
		log.Error().Err(err).Msg("create match")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusCreated, newMatchRes{MatchID: m.ID, Match: m.Summary()})
}

// newMatch builds a match wired to the score store and checkpoints and
// registers it.
func (s *Server) newMatch(ctx context.Context, name string, mode arcade.Mode) (*arcade.Match, error) {
	id := arcade.NewID()
	opts := arcade.Options{
		ID:        id,
		Name:      name,
		Mode:      mode,
		Config:    s.game,
		DailySalt: s.env.DailySalt,
		Scores:    s.scores,
		Logger:    log.Logger,
		Now:       s.now,
	}
	if s.checkpoints != nil {
		opts.Observers = append(opts.Observers, s.checkpoints.Recorder(id))
	}
	m, err := arcade.New(opts)
	if err != nil {
		return nil, err
	}
	if err := s.matches.Save(ctx, m); err != nil {
		m.Close()
		return nil, err
	}
	log.Info().Str("match", m.ID).Str("mode", string(m.Mode)).Str("name", m.Name).Msg("match created")
	return m, nil
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	all, err := s.matches.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]arcade.Summary, 0, len(all))
	for _, m := range all {
		out = append(out, m.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupMatch(w http.ResponseWriter, r *http.Request) (*arcade.Match, bool) {
	m, err := s.matches.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	return m, true
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	v, err := m.View()
	if err != nil {
		writeMatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.matches.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// matchAction adapts one of Start, Restart or Catch into a handler.
func (s *Server) matchAction(act func(*arcade.Match) (bool, game.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := s.lookupMatch(w, r)
		if !ok {
			return
		}
		accepted, v, err := act(m)
		if err != nil {
			writeMatchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, actionRes{Accepted: accepted, State: v})
	}
}

func (s *Server) handleMatchCheckpoint(w http.ResponseWriter, r *http.Request) {
	snap, ok, err := s.checkpoints.Load(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn().Err(err).Msg("load checkpoint")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeMatchError(w http.ResponseWriter, err error) {
	if errors.Is(err, arcade.ErrClosed) {
		writeError(w, http.StatusGone, "match_closed")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal")
}
