package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/keshimasu/internal/catalog"
	"github.com/robalobadob/keshimasu/internal/game"
	"github.com/robalobadob/keshimasu/internal/ledger"
	"github.com/robalobadob/keshimasu/internal/players"
	"github.com/robalobadob/keshimasu/internal/store"
)

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrNotInDictionary, http.StatusUnprocessableEntity, "not_in_dictionary"},
	{game.ErrAlreadyUsed, http.StatusUnprocessableEntity, "already_used"},
	{game.ErrInvalidWildcardInput, http.StatusUnprocessableEntity, "invalid_wildcard_input"},
	{game.ErrSelectionTooShort, http.StatusUnprocessableEntity, "selection_too_short"},
	{game.ErrOutOfBounds, http.StatusBadRequest, "out_of_bounds"},
	{game.ErrHiddenCell, http.StatusBadRequest, "hidden_cell"},
	{game.ErrUnknownMode, http.StatusBadRequest, "unknown_mode"},
	{game.ErrBadTemplate, http.StatusBadRequest, "bad_board"},
	{players.ErrInvalidNickname, http.StatusBadRequest, "invalid_nickname"},
	{players.ErrInvalidPasscode, http.StatusBadRequest, "invalid_passcode"},
	{players.ErrPasscodeMismatch, http.StatusUnauthorized, "passcode_mismatch"},
	{players.ErrUnknownRanking, http.StatusBadRequest, "unknown_ranking"},
	{players.ErrNotFound, http.StatusNotFound, "player_not_found"},
	{ledger.ErrPlayerNotFound, http.StatusNotFound, "player_not_found"},
	{ledger.ErrPuzzleNotFound, http.StatusNotFound, "puzzle_not_found"},
	{ledger.ErrModeMismatch, http.StatusBadRequest, "mode_mismatch"},
	{catalog.ErrNotFound, http.StatusNotFound, "puzzle_not_found"},
	{store.ErrNotFound, http.StatusNotFound, "session_not_found"},
}

// writeErr maps a domain error to its status and code. Anything unmapped is
// logged and reported as 500 internal.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeError(w, e.status, e.code)
			return
		}
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal")
}
