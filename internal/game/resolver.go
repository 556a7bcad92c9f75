// internal/game/resolver.go
//
// Word resolution for a committed selection.
//
// Steps:
//   1. Join the selected cells into a raw token.
//   2. Ask the caller for a replacement for every wildcard, left to right.
//      Any missing or invalid answer aborts the whole resolution.
//   3. Check the candidate against the dictionary, then the used-word set.
//
// Resolve never mutates anything; the session applies the result.

package game

import (
	"strings"
	"unicode/utf8"

	"github.com/zyedidia/generic/mapset"
)

// Dictionary answers exact membership for normalized words of one mode.
type Dictionary interface {
	Contains(word string) bool
}

// WildcardResolver supplies the letter for the wildcard at position
// (0-based index into the selection). context is the raw token, wildcards
// included. ok=false means the player gave no answer.
type WildcardResolver func(position int, context string) (letter string, ok bool)

// Replacements returns a WildcardResolver that hands out answers in order,
// one per wildcard slot.
func Replacements(answers []string) WildcardResolver {
	next := 0
	return func(int, string) (string, bool) {
		if next >= len(answers) {
			return "", false
		}
		a := answers[next]
		next++
		return a, true
	}
}

// Resolve turns the selected cells into a validated word.
func Resolve(cells []Cell, resolve WildcardResolver, dict Dictionary, used *UsedWords) (string, error) {
	var raw strings.Builder
	wild := false
	for _, c := range cells {
		raw.WriteString(string(c))
		if c.IsWildcard() {
			wild = true
		}
	}
	token := raw.String()

	word := token
	if wild {
		if resolve == nil {
			return "", ErrInvalidWildcardInput
		}
		var b strings.Builder
		for i, c := range cells {
			if !c.IsWildcard() {
				b.WriteString(string(c))
				continue
			}
			letter, ok := resolve(i, token)
			if !ok || !validReplacement(letter) {
				return "", ErrInvalidWildcardInput
			}
			b.WriteString(letter)
		}
		word = b.String()
	}

	if dict == nil || !dict.Contains(word) {
		return "", ErrNotInDictionary
	}
	if used != nil && used.Has(word) {
		return "", ErrAlreadyUsed
	}
	return word, nil
}

// validReplacement: exactly one katakana letter, never the wildcard itself.
func validReplacement(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return ValidLetter(r)
}

// UsedWords is the per-attempt record of cleared words, in clear order.
type UsedWords struct {
	order []string
	set   mapset.Set[string]
}

func NewUsedWords() *UsedWords {
	return &UsedWords{set: mapset.New[string]()}
}

func (u *UsedWords) Has(w string) bool { return u.set.Has(w) }

func (u *UsedWords) Add(w string) {
	if u.set.Has(w) {
		return
	}
	u.set.Put(w)
	u.order = append(u.order, w)
}

// List returns the words in the order they were cleared.
func (u *UsedWords) List() []string {
	out := make([]string, len(u.order))
	copy(out, u.order)
	return out
}

func (u *UsedWords) Len() int { return len(u.order) }
