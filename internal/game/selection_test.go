package game

import (
	"math/rand"
	"reflect"
	"testing"
)

func sel(coords ...[2]int) Selection {
	out := Selection{}
	for _, c := range coords {
		out = append(out, Coord{Row: c[0], Col: c[1]})
	}
	return out
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		name  string
		start Selection
		click Coord
		want  Selection
	}{
		{"empty starts", nil, Coord{3, 2}, sel([2]int{3, 2})},
		{"second cell horizontal", sel([2]int{0, 0}), Coord{0, 1}, sel([2]int{0, 0}, [2]int{0, 1})},
		{"second cell vertical", sel([2]int{4, 2}), Coord{5, 2}, sel([2]int{4, 2}, [2]int{5, 2})},
		{"second cell backwards", sel([2]int{4, 2}), Coord{4, 1}, sel([2]int{4, 2}, [2]int{4, 1})},
		{"diagonal restarts", sel([2]int{4, 2}), Coord{5, 3}, sel([2]int{5, 3})},
		{"far cell restarts", sel([2]int{0, 0}, [2]int{0, 1}), Coord{6, 4}, sel([2]int{6, 4})},
		{"extends along row", sel([2]int{0, 0}, [2]int{0, 1}), Coord{0, 2}, sel([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2})},
		{"extends along column", sel([2]int{1, 3}, [2]int{2, 3}), Coord{3, 3}, sel([2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3})},
		{"turning corner resets", sel([2]int{0, 0}, [2]int{0, 1}), Coord{1, 1}, sel([2]int{1, 1})},
		{"scenario B truncates", sel([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}), Coord{0, 1}, sel([2]int{0, 0}, [2]int{0, 1})},
		{"click first truncates to one", sel([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}), Coord{0, 0}, sel([2]int{0, 0})},
		{"click last keeps all", sel([2]int{0, 0}, [2]int{0, 1}), Coord{0, 1}, sel([2]int{0, 0}, [2]int{0, 1})},
		// Vertical adjacency compares rows with rows: (2,1) is two rows below (0,1).
		{"vertical gap restarts", sel([2]int{0, 1}), Coord{2, 1}, sel([2]int{2, 1})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Advance(tc.start, tc.click)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Advance(%v, %v) = %v, want %v", tc.start, tc.click, got, tc.want)
			}
		})
	}
}

func TestAdvanceDoesNotAlias(t *testing.T) {
	start := make(Selection, 2, 8)
	start[0], start[1] = Coord{0, 0}, Coord{0, 1}
	a := Advance(start, Coord{0, 2})
	b := Advance(start, Coord{1, 1})
	if len(a) != 3 || a[2] != (Coord{0, 2}) {
		t.Fatalf("first result clobbered: %v", a)
	}
	if len(b) != 1 {
		t.Fatalf("second result = %v, want restart", b)
	}
	truncated := Advance(a, Coord{0, 0})
	truncated = append(truncated, Coord{7, 4})
	if a[1] != (Coord{0, 1}) {
		t.Fatalf("truncation aliased input: %v", a)
	}
}

func TestCanClear(t *testing.T) {
	if (Selection{}).CanClear() {
		t.Fatal("empty selection can clear")
	}
	if sel([2]int{0, 0}).CanClear() {
		t.Fatal("single cell can clear")
	}
	if !sel([2]int{0, 0}, [2]int{0, 1}).CanClear() {
		t.Fatal("two cells cannot clear")
	}
}

func TestDirection(t *testing.T) {
	if d := sel([2]int{0, 0}).Direction(); d != DirNone {
		t.Fatalf("single cell direction = %v", d)
	}
	if d := sel([2]int{2, 0}, [2]int{2, 1}).Direction(); d != DirHorizontal {
		t.Fatalf("row direction = %v", d)
	}
	if d := sel([2]int{2, 0}, [2]int{3, 0}).Direction(); d != DirVertical {
		t.Fatalf("column direction = %v", d)
	}
}

// checkLine asserts the straight-line invariant on every selection.
func checkLine(t *testing.T, s Selection) {
	t.Helper()
	if len(s) == 0 {
		t.Fatal("advance produced an empty selection")
	}
	seen := map[Coord]bool{}
	for _, c := range s {
		if seen[c] {
			t.Fatalf("repeated coordinate in %v", s)
		}
		seen[c] = true
	}
	if len(s) < 2 {
		return
	}
	dir := s.Direction()
	if dir == DirNone {
		t.Fatalf("selection %v is neither a row nor a column", s)
	}
	for i := 1; i < len(s); i++ {
		if !adjacent(s[i-1], s[i]) {
			t.Fatalf("gap between %v and %v in %v", s[i-1], s[i], s)
		}
	}
}

func TestAdvanceRandomWalkKeepsLine(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var s Selection
	for step := 0; step < 5000; step++ {
		var c Coord
		if len(s) > 0 && rng.Intn(3) > 0 {
			// bias toward neighbours of the last cell so long runs happen
			last := s[len(s)-1]
			d := [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}[rng.Intn(4)]
			c = Coord{Row: last.Row + d[0], Col: last.Col + d[1]}
			if !c.InBounds() {
				continue
			}
		} else {
			c = Coord{Row: rng.Intn(Rows), Col: rng.Intn(Cols)}
		}
		prev := s
		s = Advance(s, c)
		checkLine(t, s)
		if i := prev.IndexOf(c); i >= 0 && len(s) != i+1 {
			t.Fatalf("reclick at %d of %v gave %v", i, prev, s)
		}
	}
}
