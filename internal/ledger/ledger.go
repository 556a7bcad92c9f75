// internal/ledger/ledger.go
//
// Progress ledger: which puzzles each player has been credited for, per mode.
//
// The credits table is the source of truth (one row per player/mode/puzzle).
// players.country_clears / capital_clears are cached counts that are only
// ever written as COUNT(*) of that set, in the same transaction that inserts
// the credit row, so the two can never disagree.
//
// Every write goes through withPlayer, which opens an immediate transaction
// (writers serialize at BEGIN) and loads the player row before running the
// critical section. Two concurrent CreditClear calls for the same puzzle
// therefore see each other: the first inserts, the second reads
// "already credited".

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/keshimasu/internal/database"
	"github.com/robalobadob/keshimasu/internal/game"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPuzzleNotFound = errors.New("puzzle not found")
	// ErrModeMismatch: the puzzle exists but belongs to the other mode.
	ErrModeMismatch = errors.New("puzzle belongs to another mode")
)

// Credit is the outcome of CreditClear. AlreadyCredited is a normal result.
type Credit struct {
	NewCount        int  `json:"newScore"`
	AlreadyCredited bool `json:"alreadyCredited"`
}

type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger { return &Ledger{db: db} }

// playerRow is the locked player state handed to a critical section.
type playerRow struct {
	id     int64
	clears map[game.Mode]int
}

// withPlayer runs fn in one transaction holding the write lock, with the
// player's row already loaded. fn's error rolls everything back.
func (l *Ledger) withPlayer(ctx context.Context, playerID int64, fn func(tx *sql.Tx, p *playerRow) error) error {
	return database.RunTx(ctx, l.db, func(tx *sql.Tx) error {
		p := playerRow{id: playerID, clears: make(map[game.Mode]int, 2)}
		var country, capital int
		err := tx.QueryRowContext(ctx,
			`SELECT country_clears, capital_clears FROM players WHERE id=?`, playerID,
		).Scan(&country, &capital)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		if err != nil {
			return fmt.Errorf("load player %d: %w", playerID, err)
		}
		p.clears[game.ModeCountry] = country
		p.clears[game.ModeCapital] = capital
		return fn(tx, &p)
	})
}

// CreditClear records that playerID completed puzzleID in mode. Repeated or
// concurrent calls with the same arguments credit exactly once.
func (l *Ledger) CreditClear(ctx context.Context, playerID int64, mode game.Mode, puzzleID int64) (Credit, error) {
	if !mode.Valid() {
		return Credit{}, game.ErrUnknownMode
	}
	var out Credit
	err := l.withPlayer(ctx, playerID, func(tx *sql.Tx, p *playerRow) error {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM credits WHERE player_id=? AND mode=? AND puzzle_id=?`,
			playerID, string(mode), puzzleID,
		).Scan(&one)
		if err == nil {
			out = Credit{NewCount: p.clears[mode], AlreadyCredited: true}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read credits: %w", err)
		}

		var puzzleMode string
		err = tx.QueryRowContext(ctx, `SELECT mode FROM puzzles WHERE id=?`, puzzleID).Scan(&puzzleMode)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPuzzleNotFound
		}
		if err != nil {
			return fmt.Errorf("read puzzle: %w", err)
		}
		if game.Mode(puzzleMode) != mode {
			return ErrModeMismatch
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credits (player_id, mode, puzzle_id) VALUES (?,?,?)`,
			playerID, string(mode), puzzleID,
		); err != nil {
			return fmt.Errorf("insert credit: %w", err)
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM credits WHERE player_id=? AND mode=?`,
			playerID, string(mode),
		).Scan(&count); err != nil {
			return fmt.Errorf("count credits: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET `+clearsColumn(mode)+`=? WHERE id=?`, count, playerID,
		); err != nil {
			return fmt.Errorf("update clears: %w", err)
		}
		out = Credit{NewCount: count}
		return nil
	})
	if err != nil {
		return Credit{}, err
	}

	ev := log.Info().Int64("playerId", playerID).Str("mode", string(mode)).
		Int64("puzzleId", puzzleID).Int("count", out.NewCount)
	if out.AlreadyCredited {
		ev.Msg("already credited")
	} else {
		ev.Msg("clear credited")
	}
	return out, nil
}

// Credited returns the puzzle ids credited to playerID in mode, ascending.
func (l *Ledger) Credited(ctx context.Context, playerID int64, mode game.Mode) ([]int64, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT puzzle_id FROM credits WHERE player_id=? AND mode=? ORDER BY puzzle_id`,
		playerID, string(mode))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CreditedAll returns Credited for every mode.
func (l *Ledger) CreditedAll(ctx context.Context, playerID int64) (map[game.Mode][]int64, error) {
	out := make(map[game.Mode][]int64, len(game.Modes))
	for _, m := range game.Modes {
		ids, err := l.Credited(ctx, playerID, m)
		if err != nil {
			return nil, err
		}
		out[m] = ids
	}
	return out, nil
}

func clearsColumn(mode game.Mode) string {
	if mode == game.ModeCapital {
		return "capital_clears"
	}
	return "country_clears"
}
