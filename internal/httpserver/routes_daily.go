// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
//   - POST /daily/new         → create a daily match {name}
//   - GET  /daily/leaderboard → today's best daily scores (or ?date=YYYY-MM-DD)
//
// Every daily match created on the same UTC day draws the same items.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lacey1998/FishMIner-Game/internal/arcade"
	"github.com/lacey1998/FishMIner-Game/internal/daily"
	"github.com/lacey1998/FishMIner-Game/internal/scores"
)

const dailyBoardSize = 20

type dailyNewRes struct {
	MatchID string `json:"matchId"`
	Date    string `json:"date"`
}

type dailyBoardRes struct {
	Date    string          `json:"date"`
	Entries []scores.Record `json:"entries"`
}

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	var req newMatchReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	m, err := s.newMatch(r.Context(), req.Name, arcade.ModeDaily)
	if err != nil {
		log.Error().Err(err).Msg("create daily match")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusCreated, dailyNewRes{MatchID: m.ID, Date: daily.DateKey(m.CreatedAt)})
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	entries, err := s.scores.Daily(r.Context(), date, dailyBoardSize)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyBoardRes{Date: date, Entries: entries})
}
