// internal/httpserver/routes_scores.go
//
// High score endpoints:
//   - GET    /scores?limit=N → top N (default 10, max 100)
//   - GET    /scores/{id}    → one record
//   - POST   /scores         → submit {name, score, reason, mode}
//   - PATCH  /scores/{id}    → admin: edit name and/or score
//   - DELETE /scores/{id}    → admin: remove a record
//
// Matches submit their own final scores; POST is for clients that play
// without a server-side match.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lacey1998/FishMIner-Game/internal/arcade"
	"github.com/lacey1998/FishMIner-Game/internal/scores"
)

type newScoreReq struct {
	Name   string `json:"name"`
	Score  *int   `json:"score"`
	Reason string `json:"reason"`
	Mode   string `json:"mode"`
}

type patchScoreReq struct {
	Name  *string `json:"name"`
	Score *int    `json:"score"`
}

func (s *Server) mountScores(r chi.Router) {
	r.Route("/scores", func(r chi.Router) {
		r.Get("/", s.handleTopScores)
		r.Post("/", s.handleCreateScore)
		r.Get("/{id}", s.handleGetScore)
		r.With(s.requireAdmin()).Patch("/{id}", s.handlePatchScore)
		r.With(s.requireAdmin()).Delete("/{id}", s.handleDeleteScore)
	})
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	top, err := s.scores.Top(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	rec, err := s.scores.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	var req newScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Score == nil {
		writeError(w, http.StatusBadRequest, "score_required")
		return
	}
	mode, err := arcade.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_mode")
		return
	}
	rec, err := s.scores.Create(r.Context(), scores.Record{
		Name:   req.Name,
		Score:  *req.Score,
		Reason: req.Reason,
		Mode:   string(mode),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("record", rec.ID).Str("name", rec.Name).Int("score", rec.Score).Msg("score created")
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handlePatchScore(w http.ResponseWriter, r *http.Request) {
	var req patchScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Name == nil && req.Score == nil {
		writeError(w, http.StatusBadRequest, "empty_patch")
		return
	}
	rec, err := s.scores.Update(r.Context(), chi.URLParam(r, "id"), scores.Patch{Name: req.Name, Score: req.Score})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	if err := s.scores.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
