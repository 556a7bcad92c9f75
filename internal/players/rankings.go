package players

import (
	"context"
	"fmt"
)

// RankingType selects the score a ranking orders by.
type RankingType string

const (
	RankTotal   RankingType = "total"
	RankCountry RankingType = "country"
	RankCapital RankingType = "capital"
)

// scoreExpr maps a RankingType to its SQL score expression. Only these
// fixed strings ever reach the query text.
var scoreExpr = map[RankingType]string{
	RankTotal:   "country_clears + capital_clears",
	RankCountry: "country_clears",
	RankCapital: "capital_clears",
}

// Entry is one ranking row. Rank starts at 1.
type Entry struct {
	Rank     int    `json:"rank"`
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// Rankings returns the top limit players by the chosen score. Players with
// equal scores are ordered by id; the guest account is left out.
func (s *Store) Rankings(ctx context.Context, typ RankingType, limit int) ([]Entry, error) {
	expr, ok := scoreExpr[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRanking, typ)
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nickname, `+expr+` AS score
		 FROM players
		 WHERE nickname <> ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`, GuestNickname, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Nickname, &e.Score); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}
