package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/keshimasu/internal/game"
)

type noWords struct{}

func (noWords) Contains(string) bool { return false }

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.NewSession("abc", game.Puzzle{Mode: game.ModeCountry}, noWords{}, 0)

	if _, err := m.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Save: %v", err)
	}
	if err := m.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "abc")
	if err != nil || got != s {
		t.Fatalf("Get = %p, %v; want %p", got, err, s)
	}
	if err := m.Delete(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Fatalf("Len after Delete = %d", m.Len())
	}
	if err := m.Delete(ctx, "abc"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	p := game.Puzzle{Mode: game.ModeCapital}
	_ = m.Save(ctx, game.NewSession("old", p, noWords{}, 0))
	clock = clock.Add(20 * time.Minute)
	_ = m.Save(ctx, game.NewSession("new", p, noWords{}, 0))
	clock = clock.Add(20 * time.Minute)

	if n := m.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if _, err := m.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old session survived: %v", err)
	}
	if _, err := m.Get(ctx, "new"); err != nil {
		t.Fatalf("new session gone: %v", err)
	}
}
