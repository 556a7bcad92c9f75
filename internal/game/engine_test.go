package game

import (
	"errors"
	"testing"
)

var countryRows = []string{
	"チュウゴク",
	"タイペルー",
	"エクアドル",
	"イラクチリ",
	"ノルウェー",
	"マリドイツ",
	"デンマーク",
	"ウクライナ",
}

// spans lists the [from, to) column ranges of the words in each row above.
var countrySpans = [][][2]int{
	{{0, 5}},
	{{0, 2}, {2, 5}},
	{{0, 5}},
	{{0, 3}, {3, 5}},
	{{0, 5}},
	{{0, 2}, {2, 5}},
	{{0, 5}},
	{{0, 5}},
}

var countryDict = setDict{
	"チュウゴク": true, "タイ": true, "ペルー": true, "エクアドル": true,
	"イラク": true, "チリ": true, "ノルウェー": true, "マリ": true,
	"ドイツ": true, "デンマーク": true, "ウクライナ": true, "ニホン": true,
}

func newTestSession(t *testing.T, rows []string) *Session {
	t.Helper()
	b, err := BoardFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return NewSession("s1", Puzzle{ID: 1, Mode: ModeCountry, Board: b}, countryDict, 7)
}

func clickRun(t *testing.T, s *Session, row, from, to int) {
	t.Helper()
	for c := from; c < to; c++ {
		if _, err := s.Click(Coord{Row: row, Col: c}); err != nil {
			t.Fatalf("Click(%d,%d): %v", row, c, err)
		}
	}
}

func TestSessionPlaysWholePuzzle(t *testing.T) {
	s := newTestSession(t, countryRows)
	completions := 0
	clears := 0
	// Bottom row first: clearing a full row shifts every row down by one.
	for i := Rows - 1; i >= 0; i-- {
		for _, span := range countrySpans[i] {
			clickRun(t, s, Rows-1, span[0], span[1])
			res, err := s.Clear(nil)
			if err != nil {
				t.Fatalf("row %d span %v: %v (state %+v)", i, span, err, s.Snapshot())
			}
			clears++
			if res.Completed {
				completions++
			}
		}
	}
	if completions != 1 {
		t.Fatalf("completions = %d, want exactly 1", completions)
	}
	st := s.Snapshot()
	if !st.Completed || st.Remaining != 0 {
		t.Fatalf("final state = %+v", st)
	}
	if len(st.UsedWords) != clears {
		t.Fatalf("used words = %d, want %d", len(st.UsedWords), clears)
	}
	// Nothing left to select; further clears are rejected, no second signal.
	if _, err := s.Click(Coord{Row: 7, Col: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Clear(nil); !errors.Is(err, ErrSelectionTooShort) {
		t.Fatalf("clear on empty board err = %v", err)
	}
}

func TestSessionRejectedClearLeavesState(t *testing.T) {
	s := newTestSession(t, countryRows)
	clickRun(t, s, 7, 0, 3) // ウクラ
	before := s.Snapshot()

	if _, err := s.Clear(nil); !errors.Is(err, ErrNotInDictionary) {
		t.Fatalf("err = %v, want ErrNotInDictionary", err)
	}
	after := s.Snapshot()
	if after.Board != before.Board || len(after.Selection) != 3 || len(after.UsedWords) != 0 {
		t.Fatalf("state changed after rejection: %+v", after)
	}
}

func TestSessionWildcardCancelLeavesState(t *testing.T) {
	rows := append([]string(nil), countryRows...)
	rows[7] = "ウクFイナ"
	s := newTestSession(t, rows)
	clickRun(t, s, 7, 0, 5)
	before := s.Snapshot()

	if _, err := s.Clear(Replacements(nil)); !errors.Is(err, ErrInvalidWildcardInput) {
		t.Fatalf("err = %v, want ErrInvalidWildcardInput", err)
	}
	if after := s.Snapshot(); after.Board != before.Board || len(after.Selection) != 5 {
		t.Fatalf("state changed after cancelled wildcard: %+v", after)
	}

	res, err := s.Clear(Replacements([]string{"ラ"}))
	if err != nil {
		t.Fatalf("Clear with answer: %v", err)
	}
	if res.Word != "ウクライナ" {
		t.Fatalf("word = %q", res.Word)
	}
}

func TestSessionAlreadyUsedWord(t *testing.T) {
	s := newTestSession(t, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
		".....",
		"タイ...",
		"タイ...",
	})
	clickRun(t, s, 7, 0, 2)
	if _, err := s.Clear(nil); err != nil {
		t.Fatal(err)
	}
	clickRun(t, s, 7, 0, 2)
	if _, err := s.Clear(nil); !errors.Is(err, ErrAlreadyUsed) {
		t.Fatalf("err = %v, want ErrAlreadyUsed", err)
	}
}

func TestSessionClickRules(t *testing.T) {
	s := newTestSession(t, []string{
		".....",
		".....",
		".....",
		".....",
		".....",
		".....",
		".....",
		"ニホン..",
	})
	if _, err := s.Click(Coord{Row: 8, Col: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("out of bounds err = %v", err)
	}
	if _, err := s.Click(Coord{Row: 0, Col: 0}); !errors.Is(err, ErrHiddenCell) {
		t.Fatalf("hidden row err = %v", err)
	}
	got, err := s.Click(Coord{Row: Rows - VisibleRows, Col: 0})
	if err != nil || len(got) != 0 {
		t.Fatalf("click on empty cell = %v, %v", got, err)
	}
	if _, err := s.Clear(nil); !errors.Is(err, ErrSelectionTooShort) {
		t.Fatalf("clear with nothing selected err = %v", err)
	}
	clickRun(t, s, 7, 0, 3)
	res, err := s.Clear(nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Word != "ニホン" || !res.Completed {
		t.Fatalf("result = %+v", res)
	}
}

func TestSessionHiddenRowsBecomeClickable(t *testing.T) {
	s := newTestSession(t, countryRows)
	top := Coord{Row: 0, Col: 0}
	if _, err := s.Click(top); !errors.Is(err, ErrHiddenCell) {
		t.Fatalf("click on row 0 err = %v, want ErrHiddenCell", err)
	}
	if _, err := s.Click(Coord{Row: Rows - VisibleRows - 1, Col: 4}); !errors.Is(err, ErrHiddenCell) {
		t.Fatalf("click just above the visible rows err = %v", err)
	}
	if st := s.Snapshot(); len(st.Selection) != 0 || st.VisibleRows != VisibleRows {
		t.Fatalf("state after hidden clicks = %+v", st)
	}

	// Clearing the bottom three rows drops チュウゴク from row 0 to row 3.
	for _, span := range [][2]int{{0, 5}, {0, 5}, {0, 2}, {2, 5}} {
		clickRun(t, s, Rows-1, span[0], span[1])
		if _, err := s.Clear(nil); err != nil {
			t.Fatalf("span %v: %v", span, err)
		}
	}
	if _, err := s.Click(top); !errors.Is(err, ErrHiddenCell) {
		t.Fatalf("row 0 should stay hidden, err = %v", err)
	}
	clickRun(t, s, Rows-VisibleRows, 0, 5)
	res, err := s.Clear(nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Word != "チュウゴク" {
		t.Fatalf("word = %q, want チュウゴク", res.Word)
	}
}

func TestSessionReset(t *testing.T) {
	s := newTestSession(t, countryRows)
	clickRun(t, s, 7, 0, 5)
	if _, err := s.Clear(nil); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	st := s.Snapshot()
	if st.Board != s.Puzzle.Board || len(st.UsedWords) != 0 || len(st.Selection) != 0 || st.Completed {
		t.Fatalf("reset state = %+v", st)
	}
	// The template itself is never touched by play.
	if s.Puzzle.Board[7][0] != "ウ" {
		t.Fatal("template mutated")
	}
}

func TestSessionRanked(t *testing.T) {
	p := Puzzle{ID: 3, Mode: ModeCapital}
	if !NewSession("a", p, countryDict, 1).Ranked() {
		t.Fatal("player on catalog puzzle should be ranked")
	}
	if NewSession("b", p, countryDict, 0).Ranked() {
		t.Fatal("guest should not be ranked")
	}
	if NewSession("c", Puzzle{Mode: ModeCapital}, countryDict, 1).Ranked() {
		t.Fatal("test play should not be ranked")
	}
}
