// internal/httpserver/routes_play.go
//
// Play routes. The server owns each game.Session; clients drive it by id.
//   - POST /api/play/new    → start a session (next puzzle, a given puzzle,
//                              or a test play of an unsaved board)
//   - POST /api/play/click  → feed one coordinate to the selection
//   - POST /api/play/clear  → commit the selection (wildcards answered inline)
//   - POST /api/play/reset  → restore the template
//   - GET  /api/play/{id}   → current state
//
// A session started by a signed-in player belongs to that player. When a
// ranked session's board empties, the clear is credited in the ledger before
// the response is written.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/keshimasu/internal/game"
	"github.com/robalobadob/keshimasu/internal/ledger"
	"github.com/robalobadob/keshimasu/internal/words"
)

func (s *Server) mountPlay(r chi.Router) {
	r.Route("/play", func(r chi.Router) {
		r.Post("/new", s.handlePlayNew)
		r.Post("/click", s.handlePlayClick)
		r.Post("/clear", s.handlePlayClear)
		r.Post("/reset", s.handlePlayReset)
		r.Get("/{id}", s.handlePlayState)
	})
}

type playNewReq struct {
	Mode     string     `json:"mode"`
	PuzzleID int64      `json:"puzzleId,omitempty"`
	Board    [][]string `json:"board,omitempty"`
}

type playNewRes struct {
	SessionID     string     `json:"sessionId"`
	PuzzleID      int64      `json:"puzzleId"`
	Mode          game.Mode  `json:"mode"`
	Creator       string     `json:"creator"`
	ProblemNumber int        `json:"problemNumber,omitempty"`
	Ranked        bool       `json:"ranked"`
	State         game.State `json:"state"`
}

var errModeComplete = errors.New("mode complete")

// puzzleFor resolves which puzzle a play/new request starts, and its
// problem number (0 for test plays).
func (s *Server) puzzleFor(ctx context.Context, me *authPlayer, mode game.Mode, req playNewReq) (game.Puzzle, int, error) {
	switch {
	case len(req.Board) > 0:
		board, err := parseBoard(req.Board)
		if err != nil {
			return game.Puzzle{}, 0, err
		}
		p := game.Puzzle{Mode: mode, Board: board}
		if me != nil {
			p.Creator = me.Nickname
		}
		return p, 0, nil

	case req.PuzzleID != 0:
		p, err := s.puzzles.Get(ctx, req.PuzzleID)
		if err != nil {
			return game.Puzzle{}, 0, err
		}
		if p.Mode != mode {
			return game.Puzzle{}, 0, ledger.ErrModeMismatch
		}
		n := 1
		if me != nil {
			pl, err := s.players.Get(ctx, me.ID)
			if err != nil {
				return game.Puzzle{}, 0, err
			}
			n = pl.Clears(mode) + 1
		}
		return p, n, nil

	default:
		next, err := s.nextFor(ctx, me, mode)
		if err != nil {
			return game.Puzzle{}, 0, err
		}
		if next.ModeComplete {
			return game.Puzzle{}, 0, errModeComplete
		}
		return *next.Puzzle, next.ProblemNumber, nil
	}
}

func (s *Server) handlePlayNew(w http.ResponseWriter, r *http.Request) {
	var req playNewReq
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	me := currentPlayer(r)
	p, number, err := s.puzzleFor(r.Context(), me, mode, req)
	if errors.Is(err, errModeComplete) {
		writeJSON(w, http.StatusOK, map[string]bool{"modeComplete": true})
		return
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var playerID int64
	if me != nil {
		playerID = me.ID
	}
	sess := game.NewSession(s.newID(), p, s.lex.Dictionary(mode), playerID)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeErr(w, r, err)
		return
	}
	hlog.FromRequest(r).Debug().Str("sessionId", sess.ID).Int64("puzzleId", p.ID).
		Int64("playerId", playerID).Msg("session started")

	writeJSON(w, http.StatusCreated, playNewRes{
		SessionID:     sess.ID,
		PuzzleID:      p.ID,
		Mode:          mode,
		Creator:       p.Creator,
		ProblemNumber: number,
		Ranked:        sess.Ranked(),
		State:         sess.Snapshot(),
	})
}

// session loads the session named id and checks the caller may drive it.
func (s *Server) session(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return nil, false
	}
	if sess.PlayerID != 0 {
		if me := currentPlayer(r); me == nil || me.ID != sess.PlayerID {
			writeError(w, http.StatusForbidden, "forbidden")
			return nil, false
		}
	}
	return sess, true
}

type sessionReq struct {
	SessionID string `json:"sessionId"`
}

type clickReq struct {
	SessionID string `json:"sessionId"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

func (s *Server) handlePlayClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r, req.SessionID)
	if !ok {
		return
	}
	if _, err := sess.Click(game.Coord{Row: req.Row, Col: req.Col}); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type clearReq struct {
	SessionID string   `json:"sessionId"`
	Wildcards []string `json:"wildcards"`
}

type clearRes struct {
	game.ClearResult
	State       game.State     `json:"state"`
	Credit      *ledger.Credit `json:"credit,omitempty"`
	CreditError string         `json:"creditError,omitempty"`
}

func (s *Server) handlePlayClear(w http.ResponseWriter, r *http.Request) {
	var req clearReq
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r, req.SessionID)
	if !ok {
		return
	}

	answers := make([]string, len(req.Wildcards))
	for i, a := range req.Wildcards {
		answers[i] = words.Normalize(a)
	}
	result, err := sess.Clear(game.Replacements(answers))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	logger := hlog.FromRequest(r)
	logger.Debug().Str("sessionId", sess.ID).Str("word", result.Word).Msg("word cleared")
	res := clearRes{ClearResult: result, State: sess.Snapshot()}

	if result.Completed {
		logger.Info().Str("sessionId", sess.ID).Int64("puzzleId", sess.Puzzle.ID).
			Int64("playerId", sess.PlayerID).Msg("puzzle completed")
		if sess.Ranked() {
			credit, err := s.ledger.CreditClear(r.Context(), sess.PlayerID, sess.Puzzle.Mode, sess.Puzzle.ID)
			if err != nil {
				// The board is already empty; the client can retry via /score/update.
				logger.Error().Err(err).Int64("puzzleId", sess.Puzzle.ID).Msg("credit on completion")
				res.CreditError = "credit_failed"
			} else {
				res.Credit = &credit
			}
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlayReset(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r, req.SessionID)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handlePlayState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
