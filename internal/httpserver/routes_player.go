// internal/httpserver/routes_player.go
//
// Player routes:
//   - POST /api/player/register     → create or sign in by nickname + passcode
//   - GET  /api/player/{id}/status  → clear counts and credited puzzle ids
//   - GET  /api/rankings/{type}     → top players (total | country | capital)
//   - POST /api/score/update        → credit a cleared puzzle (auth required)
//
// Credits are idempotent: repeating a score update for the same puzzle
// answers alreadyCredited=true with the unchanged count.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/keshimasu/internal/game"
	"github.com/robalobadob/keshimasu/internal/players"
)

func (s *Server) mountPlayer(r chi.Router) {
	r.Post("/player/register", s.handleRegister)
	r.Get("/player/{id}/status", s.handlePlayerStatus)
	r.Get("/rankings/{type}", s.handleRankings)
	r.With(requireAuth).Post("/score/update", s.handleScoreUpdate)
}

type registerReq struct {
	Nickname string `json:"nickname"`
	Passcode string `json:"passcode"`
}

type registerRes struct {
	Player  *players.Player `json:"player"`
	Token   string          `json:"token"`
	Created bool            `json:"created"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	p, created, err := s.players.Register(r.Context(), req.Nickname, req.Passcode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	tok, exp, err := s.signToken(p)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, registerRes{Player: p, Token: tok, Created: created})
}

type statusRes struct {
	ID            int64                 `json:"id"`
	Nickname      string                `json:"nickname"`
	CountryClears int                   `json:"country_clears"`
	CapitalClears int                   `json:"capital_clears"`
	Credited      map[game.Mode][]int64 `json:"credited"`
}

func (s *Server) handlePlayerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_player_id")
		return
	}
	p, err := s.players.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	credited, err := s.ledger.CreditedAll(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusRes{
		ID:            p.ID,
		Nickname:      p.Nickname,
		CountryClears: p.CountryClears,
		CapitalClears: p.CapitalClears,
		Credited:      credited,
	})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	typ := players.RankingType(chi.URLParam(r, "type"))
	limit := s.cfg.RankingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	entries, err := s.players.Rankings(r.Context(), typ, limit)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": typ, "entries": entries})
}

type scoreReq struct {
	PlayerID int64  `json:"playerId"`
	Mode     string `json:"mode"`
	PuzzleID int64  `json:"puzzleId"`
}

func (s *Server) handleScoreUpdate(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if !decodeJSON(w, r, &req) {
		return
	}
	me := currentPlayer(r)
	if req.PlayerID != me.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	credit, err := s.ledger.CreditClear(r.Context(), me.ID, mode, req.PuzzleID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credit)
}
