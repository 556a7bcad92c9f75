// internal/httpserver/routes_puzzles.go
//
// Puzzle catalog routes:
//   - GET  /api/puzzles/{mode}       → every puzzle of a mode, creation order
//   - GET  /api/puzzles/{mode}/next  → the caller's next uncredited puzzle
//   - POST /api/puzzles              → add an authored 8x5 template
//
// Guests always start from the first puzzle of a mode; signed-in players
// continue from their ledger.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/keshimasu/internal/game"
	"github.com/robalobadob/keshimasu/internal/ledger"
	"github.com/robalobadob/keshimasu/internal/words"
)

func (s *Server) mountPuzzles(r chi.Router) {
	r.Post("/puzzles", s.handleCreatePuzzle)
	r.Get("/puzzles/{mode}", s.handleListPuzzles)
	r.Get("/puzzles/{mode}/next", s.handleNextPuzzle)
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	mode, err := game.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	list, err := s.puzzles.List(r.Context(), mode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if list == nil {
		list = []game.Puzzle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "puzzles": list})
}

type nextRes struct {
	ModeComplete  bool         `json:"modeComplete"`
	Puzzle        *game.Puzzle `json:"puzzle,omitempty"`
	ProblemNumber int          `json:"problemNumber,omitempty"`
}

// nextFor picks the next puzzle of mode for me (nil for guests) and its
// problem number, clears(mode)+1.
func (s *Server) nextFor(ctx context.Context, me *authPlayer, mode game.Mode) (nextRes, error) {
	if me == nil {
		list, err := s.puzzles.List(ctx, mode)
		if err != nil {
			return nextRes{}, err
		}
		p, ok := ledger.NextPuzzle(mode, nil, list)
		if !ok {
			return nextRes{ModeComplete: true}, nil
		}
		return nextRes{Puzzle: &p, ProblemNumber: 1}, nil
	}

	pl, err := s.players.Get(ctx, me.ID)
	if err != nil {
		return nextRes{}, err
	}
	p, ok, err := s.ledger.Next(ctx, me.ID, mode, s.puzzles)
	if err != nil {
		return nextRes{}, err
	}
	if !ok {
		return nextRes{ModeComplete: true}, nil
	}
	return nextRes{Puzzle: &p, ProblemNumber: pl.Clears(mode) + 1}, nil
}

func (s *Server) handleNextPuzzle(w http.ResponseWriter, r *http.Request) {
	mode, err := game.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	res, err := s.nextFor(r.Context(), currentPlayer(r), mode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type createPuzzleReq struct {
	Mode    string     `json:"mode"`
	Board   [][]string `json:"board"`
	Creator string     `json:"creator"`
}

// parseBoard normalizes every cell of a request grid and validates it as a
// full template.
func parseBoard(grid [][]string) (game.Board, error) {
	norm := make([][]string, len(grid))
	for i, row := range grid {
		norm[i] = make([]string, len(row))
		for j, v := range row {
			norm[i][j] = words.Normalize(v)
		}
	}
	return game.BoardFromGrid(norm)
}

func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req createPuzzleReq
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	board, err := parseBoard(req.Board)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	creator := req.Creator
	if me := currentPlayer(r); me != nil && creator == "" {
		creator = me.Nickname
	}
	p, err := s.puzzles.Create(r.Context(), mode, board, creator)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
