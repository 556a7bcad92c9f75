package game

import "errors"

var (
	// ErrNotInDictionary: the resolved word is not a member of the mode's word list.
	ErrNotInDictionary = errors.New("not in dictionary")
	// ErrAlreadyUsed: the word was already cleared during this board attempt.
	ErrAlreadyUsed = errors.New("word already used")
	// ErrInvalidWildcardInput: a wildcard slot got no answer or a non-letter.
	ErrInvalidWildcardInput = errors.New("invalid wildcard input")
	// ErrHiddenCell: the click landed above the visible rows.
	ErrHiddenCell = errors.New("cell is not visible")
	// ErrSelectionTooShort: a clear needs at least two selected cells.
	ErrSelectionTooShort = errors.New("selection too short")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrUnknownMode       = errors.New("unknown mode")
	ErrBadTemplate       = errors.New("bad board template")
)
