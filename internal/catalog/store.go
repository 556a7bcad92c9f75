// internal/catalog/store.go
//
// Puzzle catalog persisted in the puzzles table.
//   - List(mode): puzzles in creation order (created_at, then id).
//   - Get(id):    one puzzle.
//   - Create:     store an authored 8x5 template as given.
//   - Seed:       insert the embedded seed catalog when the table is empty.
//
// Templates are immutable once stored; nothing here updates a row.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/keshimasu/assets"
	"github.com/robalobadob/keshimasu/internal/database"
	"github.com/robalobadob/keshimasu/internal/game"
)

var ErrNotFound = errors.New("puzzle not found")

// DefaultCreator is shown for seed puzzles without a named author.
const DefaultCreator = "標準問題"

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// List returns every puzzle of mode in stable creation order.
func (s *Store) List(ctx context.Context, mode game.Mode) ([]game.Puzzle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, board_data, creator, created_at
		 FROM puzzles WHERE mode=?
		 ORDER BY created_at ASC, id ASC`, string(mode))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.Puzzle
	for rows.Next() {
		p, err := scanPuzzle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get loads one puzzle by id.
func (s *Store) Get(ctx context.Context, id int64) (game.Puzzle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, board_data, creator, created_at FROM puzzles WHERE id=?`, id)
	p, err := scanPuzzle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Puzzle{}, ErrNotFound
	}
	return p, err
}

// Create stores a new template. Every one of the 40 cells must be filled.
func (s *Store) Create(ctx context.Context, mode game.Mode, board game.Board, creator string) (game.Puzzle, error) {
	if !mode.Valid() {
		return game.Puzzle{}, game.ErrUnknownMode
	}
	if board.Remaining() != game.Rows*game.Cols {
		return game.Puzzle{}, fmt.Errorf("%w: %d empty cells", game.ErrBadTemplate, game.Rows*game.Cols-board.Remaining())
	}
	creator = strings.TrimSpace(creator)
	if creator == "" {
		creator = DefaultCreator
	}

	var p game.Puzzle
	err := database.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		p, err = insertPuzzle(ctx, tx, mode, board, creator)
		return err
	})
	if err != nil {
		return game.Puzzle{}, err
	}
	log.Info().Int64("puzzleId", p.ID).Str("mode", string(mode)).Str("creator", creator).Msg("puzzle created")
	return p, nil
}

// Seed inserts the seed catalog, in mode then file order, if no puzzle exists
// yet. It returns how many puzzles were inserted.
func (s *Store) Seed(ctx context.Context, seeds assets.SeedCatalog) (int, error) {
	inserted := 0
	err := database.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		inserted = 0
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			log.Info().Int("puzzles", count).Msg("puzzles already exist, skipping seed")
			return nil
		}
		for _, mode := range game.Modes {
			for i, sp := range seeds[string(mode)] {
				board, err := game.BoardFromRows(sp.Rows)
				if err != nil {
					return fmt.Errorf("seed %s #%d: %w", mode, i, err)
				}
				creator := sp.Creator
				if creator == "" {
					creator = DefaultCreator
				}
				if _, err := insertPuzzle(ctx, tx, mode, board, creator); err != nil {
					return fmt.Errorf("seed %s #%d: %w", mode, i, err)
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		log.Info().Int("puzzles", inserted).Msg("seed puzzles inserted")
	}
	return inserted, nil
}

func insertPuzzle(ctx context.Context, tx *sql.Tx, mode game.Mode, board game.Board, creator string) (game.Puzzle, error) {
	data, err := json.Marshal(board)
	if err != nil {
		return game.Puzzle{}, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO puzzles (mode, board_data, creator, created_at) VALUES (?,?,?,?)`,
		string(mode), string(data), creator, now.Format(time.RFC3339))
	if err != nil {
		return game.Puzzle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Puzzle{}, err
	}
	return game.Puzzle{ID: id, Mode: mode, Board: board, Creator: creator, CreatedAt: now}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPuzzle(row scanner) (game.Puzzle, error) {
	var (
		p       game.Puzzle
		mode    string
		data    string
		created string
	)
	if err := row.Scan(&p.ID, &mode, &data, &p.Creator, &created); err != nil {
		return game.Puzzle{}, err
	}
	p.Mode = game.Mode(mode)
	if err := json.Unmarshal([]byte(data), &p.Board); err != nil {
		return game.Puzzle{}, fmt.Errorf("puzzle %d board_data: %w", p.ID, err)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return game.Puzzle{}, fmt.Errorf("puzzle %d created_at: %w", p.ID, err)
	}
	p.CreatedAt = t
	return p, nil
}
