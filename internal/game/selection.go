// internal/game/selection.go
//
// Cell-selection automaton.
//
// A selection is a straight, gap-free run of coordinates along one row or one
// column. Advance is the only transition: it consumes a clicked coordinate and
// returns the next selection. It never fails; a click that cannot extend the
// run restarts it at the clicked cell.

package game

// Direction is the axis a selection is locked to once it has two cells.
type Direction int

const (
	DirNone Direction = iota
	DirHorizontal
	DirVertical
)

func (d Direction) String() string {
	switch d {
	case DirHorizontal:
		return "horizontal"
	case DirVertical:
		return "vertical"
	default:
		return "none"
	}
}

// Selection is an ordered run of distinct coordinates.
type Selection []Coord

// CanClear reports whether the selection is long enough to commit.
func (s Selection) CanClear() bool { return len(s) >= 2 }

// IndexOf returns the position of c in s, or -1.
func (s Selection) IndexOf(c Coord) int {
	for i, x := range s {
		if x == c {
			return i
		}
	}
	return -1
}

// Direction reports the lock implied by the cells already selected.
func (s Selection) Direction() Direction {
	if len(s) < 2 {
		return DirNone
	}
	first := s[0]
	sameRow, sameCol := true, true
	for _, c := range s[1:] {
		if c.Row != first.Row {
			sameRow = false
		}
		if c.Col != first.Col {
			sameCol = false
		}
	}
	switch {
	case sameRow:
		return DirHorizontal
	case sameCol:
		return DirVertical
	default:
		return DirNone
	}
}

// Advance applies one click to sel and returns the resulting selection.
// The returned slice never aliases sel.
//
//   - empty selection: start at c
//   - c already selected at i: truncate to sel[:i+1]
//   - c not adjacent to the last cell: restart at c
//   - second cell: accept and lock the axis
//   - later cells: accept only along the locked row/column, else restart
func Advance(sel Selection, c Coord) Selection {
	if len(sel) == 0 {
		return Selection{c}
	}
	if i := sel.IndexOf(c); i >= 0 {
		return clone(sel[:i+1])
	}

	last := sel[len(sel)-1]
	if !adjacent(last, c) {
		return Selection{c}
	}
	if len(sel) == 1 {
		return append(clone(sel), c)
	}

	first := sel[0]
	switch sel.Direction() {
	case DirHorizontal:
		if c.Row == first.Row {
			return append(clone(sel), c)
		}
	case DirVertical:
		if c.Col == first.Col {
			return append(clone(sel), c)
		}
	}
	return Selection{c}
}

// adjacent: exactly one unit apart along exactly one axis.
func adjacent(a, b Coord) bool {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	return (dr == 0 && dc == 1) || (dr == 1 && dc == 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clone(s Selection) Selection {
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return out
}
