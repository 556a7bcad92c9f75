package game

// Settle drops every remaining cell to the bottom of its column, keeping the
// top-to-bottom order of the survivors. Columns are independent.
func (b *Board) Settle() {
	for c := 0; c < Cols; c++ {
		col := make([]Cell, Rows)
		for r := 0; r < Rows; r++ {
			col[r] = b[r][c]
		}
		col = settleColumn(col)
		for r := 0; r < Rows; r++ {
			b[r][c] = col[r]
		}
	}
}

// Settle is the value form of Board.Settle; the input is left untouched.
func Settle(b Board) Board {
	out := b.Clone()
	out.Settle()
	return out
}

// settleColumn returns a new column of the same height with the non-empty
// values packed at the end (the bottom).
func settleColumn(col []Cell) []Cell {
	out := make([]Cell, len(col))
	w := len(col) - 1
	for r := len(col) - 1; r >= 0; r-- {
		if !col[r].IsEmpty() {
			out[w] = col[r]
			w--
		}
	}
	return out
}
