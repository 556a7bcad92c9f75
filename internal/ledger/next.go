package ledger

import (
	"context"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/keshimasu/internal/game"
)

// NextPuzzle picks the earliest-created puzzle of mode whose id is not in
// credited. ok=false means every puzzle of the mode is credited.
func NextPuzzle(mode game.Mode, credited []int64, catalog []game.Puzzle) (game.Puzzle, bool) {
	done := mapset.New[int64]()
	for _, id := range credited {
		done.Put(id)
	}

	var (
		best  game.Puzzle
		found bool
	)
	for _, p := range catalog {
		if p.Mode != mode || done.Has(p.ID) {
			continue
		}
		if !found || before(p, best) {
			best, found = p, true
		}
	}
	return best, found
}

// before orders by creation time, then id.
func before(a, b game.Puzzle) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Catalog lists a mode's puzzles.
type Catalog interface {
	List(ctx context.Context, mode game.Mode) ([]game.Puzzle, error)
}

// Next loads the player's credited set and the catalog, then applies NextPuzzle.
func (l *Ledger) Next(ctx context.Context, playerID int64, mode game.Mode, cat Catalog) (game.Puzzle, bool, error) {
	credited, err := l.Credited(ctx, playerID, mode)
	if err != nil {
		return game.Puzzle{}, false, err
	}
	puzzles, err := cat.List(ctx, mode)
	if err != nil {
		return game.Puzzle{}, false, err
	}
	p, ok := NextPuzzle(mode, credited, puzzles)
	return p, ok, nil
}
