// internal/players/players.go
//
// Player accounts keyed by nickname.
//   - Register: create on first use, otherwise verify the passcode.
//   - Get:      load by id.
//   - Rankings: top players by clears (total, country or capital).
//
// Passcodes are stored as bcrypt hashes. Clear counts are read-only here;
// the ledger package is the only writer.

package players

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/keshimasu/internal/database"
	"github.com/robalobadob/keshimasu/internal/game"
)

var (
	ErrNotFound         = errors.New("player not found")
	ErrInvalidNickname  = errors.New("nickname must be 1-10 characters")
	ErrInvalidPasscode  = errors.New("passcode must be 1-72 bytes")
	ErrPasscodeMismatch = errors.New("passcode does not match")
	ErrUnknownRanking   = errors.New("unknown ranking type")
)

// GuestNickname is the shared guest account, never ranked.
const GuestNickname = "ゲスト"

const maxNickname = 10

type Player struct {
	ID            int64     `json:"id"`
	Nickname      string    `json:"nickname"`
	PasscodeHash  string    `json:"-"`
	CountryClears int       `json:"country_clears"`
	CapitalClears int       `json:"capital_clears"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Clears returns the count for one mode.
func (p *Player) Clears(m game.Mode) int {
	if m == game.ModeCapital {
		return p.CapitalClears
	}
	return p.CountryClears
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// NormalizeNickname trims whitespace and checks the length in characters.
func NormalizeNickname(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n == 0 || n > maxNickname {
		return "", ErrInvalidNickname
	}
	return s, nil
}

// Register returns the player named nickname, creating it when the name is
// new. An existing name must present the passcode it was created with.
// created reports whether a new row was inserted.
func (s *Store) Register(ctx context.Context, nickname, passcode string) (p *Player, created bool, err error) {
	nickname, err = NormalizeNickname(nickname)
	if err != nil {
		return nil, false, err
	}
	if passcode == "" || len(passcode) > 72 {
		return nil, false, ErrInvalidPasscode
	}

	existing, err := s.byNickname(ctx, nickname)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(existing.PasscodeHash), []byte(passcode)) != nil {
			return nil, false, ErrPasscodeMismatch
		}
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	var id int64
	err = database.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO players (nickname, passcode_hash, created_at) VALUES (?,?,?)
			 ON CONFLICT(nickname) DO NOTHING`,
			nickname, string(h), now.Format(time.RFC3339))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errNicknameRace
		}
		id, err = res.LastInsertId()
		return err
	})
	if errors.Is(err, errNicknameRace) {
		// Someone registered the same name between our read and write.
		return s.Register(ctx, nickname, passcode)
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert player: %w", err)
	}

	log.Info().Int64("playerId", id).Str("nickname", nickname).Msg("player registered")
	return &Player{ID: id, Nickname: nickname, PasscodeHash: string(h), CreatedAt: now}, true, nil
}

var errNicknameRace = errors.New("nickname taken concurrently")

// Get loads a player by id.
func (s *Store) Get(ctx context.Context, id int64) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nickname, passcode_hash, country_clears, capital_clears, created_at
		 FROM players WHERE id=?`, id)
	return scanPlayer(row)
}

func (s *Store) byNickname(ctx context.Context, nickname string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nickname, passcode_hash, country_clears, capital_clears, created_at
		 FROM players WHERE nickname=?`, nickname)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (*Player, error) {
	var (
		p       Player
		created string
	)
	err := row.Scan(&p.ID, &p.Nickname, &p.PasscodeHash, &p.CountryClears, &p.CapitalClears, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("player %d created_at: %w", p.ID, err)
	}
	p.CreatedAt = t
	return &p, nil
}
