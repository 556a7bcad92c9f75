// internal/game/types.go
//
// Core type definitions for the Keshimasu game engine.
// Defines:
//   - Mode:   puzzle category (country / capital).
//   - Cell:   one board square (katakana letter, wildcard, or empty).
//   - Coord:  a (row, col) position on the fixed 8x5 grid.
//   - Board:  the grid itself, with typed clone/clear helpers.
//   - Puzzle: immutable template a play session is started from.

package game

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	Rows = 8
	Cols = 5
	// VisibleRows is how many bottom rows the player can see and click.
	VisibleRows = 5
)

// Mode selects the dictionary, catalog and progress counter a puzzle belongs to.
type Mode string

const (
	ModeCountry Mode = "country"
	ModeCapital Mode = "capital"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeCountry, ModeCapital}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCountry || m == ModeCapital
}

// ParseMode converts a request string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Cell is the value held by one board square.
type Cell string

const (
	Empty    Cell = ""
	Wildcard Cell = "F"
)

func (c Cell) IsEmpty() bool    { return c == Empty }
func (c Cell) IsWildcard() bool { return c == Wildcard }

// ValidLetter reports whether r is a katakana letter (ァ..ヺ) or the long
// vowel mark ー. Punctuation and iteration marks in the block are rejected.
func ValidLetter(r rune) bool {
	return (r >= 0x30A1 && r <= 0x30FA) || r == 0x30FC
}

// ParseCell validates a single template character (letter or wildcard).
func ParseCell(s string) (Cell, bool) {
	if s == string(Wildcard) {
		return Wildcard, true
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || !ValidLetter(r) {
		return Empty, false
	}
	return Cell(s), true
}

// Coord identifies a cell on the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether c lies on the 8x5 grid.
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Cols
}

// Visible reports whether c is in one of the bottom VisibleRows rows.
func (c Coord) Visible() bool { return c.Row >= Rows-VisibleRows }

// Board is the rows x columns matrix of cells for one puzzle.
type Board [Rows][Cols]Cell

// Clone returns an independent copy of b.
func (b *Board) Clone() Board {
	var out Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			out[r][c] = b[r][c]
		}
	}
	return out
}

// At returns the cell at c. Callers check bounds first.
func (b *Board) At(c Coord) Cell { return b[c.Row][c.Col] }

// Clear empties every selected cell. Gravity is not applied.
func (b *Board) Clear(sel Selection) {
	for _, c := range sel {
		b[c.Row][c.Col] = Empty
	}
}

// Remaining counts non-empty cells.
func (b *Board) Remaining() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if !b[r][c].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// IsEmpty reports whether every cell has been cleared.
func (b *Board) IsEmpty() bool { return b.Remaining() == 0 }

// BoardFromRows builds a board from one string per row, one character per
// column. "." marks an empty cell.
func BoardFromRows(rows []string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrBadTemplate, Rows, len(rows))
	}
	for r, line := range rows {
		runes := []rune(line)
		if len(runes) != Cols {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadTemplate, r, len(runes), Cols)
		}
		for c, ch := range runes {
			if ch == '.' {
				continue
			}
			cell, ok := ParseCell(string(ch))
			if !ok {
				return b, fmt.Errorf("%w: row %d col %d: %q", ErrBadTemplate, r, c, ch)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

// BoardFromGrid validates a request-shaped [][]string into a full template.
// Every cell must hold a letter or the wildcard.
func BoardFromGrid(grid [][]string) (Board, error) {
	var b Board
	if len(grid) != Rows {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrBadTemplate, Rows, len(grid))
	}
	for r, row := range grid {
		if len(row) != Cols {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadTemplate, r, len(row), Cols)
		}
		for c, v := range row {
			cell, ok := ParseCell(v)
			if !ok {
				return b, fmt.Errorf("%w: row %d col %d: %q", ErrBadTemplate, r, c, v)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

// Puzzle is an immutable board template plus catalog metadata.
type Puzzle struct {
	ID        int64     `json:"id"`
	Mode      Mode      `json:"mode"`
	Board     Board     `json:"board"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
}
