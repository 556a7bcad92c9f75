// internal/game/engine.go
//
// Play session for a single puzzle attempt.
// Responsibilities:
//   - Own the live board, the current selection and the used-word set.
//   - Apply clicks through the selection automaton.
//   - Commit a clear: resolve the word, empty the cells, settle gravity.
//   - Report completion exactly once when the board runs out of cells.
//
// Notes:
//   - A Session is safe for concurrent use; every method takes the session
//     lock, so clicks and clears for one session never interleave.
//   - A rejected clear leaves board, selection and used words untouched.

package game

import "sync"

// Session is the explicit handle for one puzzle attempt.
type Session struct {
	ID       string
	PlayerID int64 // 0 for guests
	Puzzle   Puzzle

	mu        sync.Mutex
	dict      Dictionary
	board     Board
	sel       Selection
	used      *UsedWords
	completed bool
}

// NewSession starts an attempt from a clone of the puzzle template.
func NewSession(id string, p Puzzle, dict Dictionary, playerID int64) *Session {
	return &Session{
		ID:       id,
		PlayerID: playerID,
		Puzzle:   p,
		dict:     dict,
		board:    p.Board.Clone(),
		used:     NewUsedWords(),
	}
}

// State is a point-in-time copy of the session for callers to render.
type State struct {
	Board       Board     `json:"board"`
	VisibleRows int       `json:"visibleRows"`
	Selection   Selection `json:"selection"`
	CanClear    bool      `json:"canClear"`
	UsedWords   []string  `json:"usedWords"`
	Remaining   int       `json:"remaining"`
	Completed   bool      `json:"completed"`
}

// ClearResult describes a successful clear.
type ClearResult struct {
	Word    string    `json:"word"`
	Cleared Selection `json:"cleared"`
	// Completed is true only on the clear that emptied the board.
	Completed bool `json:"completed"`
}

// Ranked returns true when a completion should credit the player's progress:
// a signed-in player on a catalog puzzle (test plays of new puzzles have no id).
func (s *Session) Ranked() bool { return s.PlayerID != 0 && s.Puzzle.ID != 0 }

// Click feeds one coordinate into the selection automaton.
// Only the bottom VisibleRows rows are clickable. Clicks on empty cells are
// ignored; there is nothing there to select.
func (s *Session) Click(c Coord) (Selection, error) {
	if !c.InBounds() {
		return nil, ErrOutOfBounds
	}
	if !c.Visible() {
		return nil, ErrHiddenCell
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.At(c).IsEmpty() {
		return clone(s.sel), nil
	}
	s.sel = Advance(s.sel, c)
	return clone(s.sel), nil
}

// Clear commits the current selection. resolve answers wildcard prompts.
func (s *Session) Clear(resolve WildcardResolver) (ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.CanClear() {
		return ClearResult{}, ErrSelectionTooShort
	}

	cells := make([]Cell, len(s.sel))
	for i, c := range s.sel {
		cells[i] = s.board.At(c)
	}
	word, err := Resolve(cells, resolve, s.dict, s.used)
	if err != nil {
		return ClearResult{}, err
	}

	res := ClearResult{Word: word, Cleared: s.sel}
	s.used.Add(word)
	s.board.Clear(s.sel)
	s.board.Settle()
	s.sel = nil

	if s.board.IsEmpty() && !s.completed {
		s.completed = true
		res.Completed = true
	}
	return res, nil
}

// Reset restores the template and forgets selection and used words.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = s.Puzzle.Board.Clone()
	s.sel = nil
	s.used = NewUsedWords()
	s.completed = false
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Board:       s.board.Clone(),
		VisibleRows: VisibleRows,
		Selection:   clone(s.sel),
		CanClear:    s.sel.CanClear(),
		UsedWords:   s.used.List(),
		Remaining:   s.board.Remaining(),
		Completed:   s.completed,
	}
}
