// internal/words/words.go
//
// Dictionary management for the game engine.
//
// Responsibilities:
//   - Load one word list per mode from a configured file or the embedded default.
//   - Keep each list as a hash set of normalized words for O(1) exact lookup.
//   - Normalize player input (see normalize.go) before lookups.
//
// Word lists:
//   - "country": country names in katakana.
//   - "capital": capital city names in katakana.
//
// Constraints:
//   • Words are at least two letters, katakana only.
//   • Lines that are blank or start with '#' are skipped.

package words

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/keshimasu/assets"
	"github.com/robalobadob/keshimasu/internal/game"
)

// Dictionary is the word set for one mode. It satisfies game.Dictionary.
type Dictionary struct {
	mode game.Mode
	set  mapset.Set[string]
}

// Contains is an exact-string lookup; callers normalize first.
func (d *Dictionary) Contains(w string) bool { return d.set.Has(w) }

func (d *Dictionary) Mode() game.Mode { return d.mode }

// Size reports how many words the dictionary holds.
func (d *Dictionary) Size() int { return d.set.Size() }

func newDictionary(mode game.Mode, list []string) *Dictionary {
	d := &Dictionary{mode: mode, set: mapset.New[string]()}
	for _, w := range list {
		w = Normalize(w)
		if isWord(w) {
			d.set.Put(w)
		}
	}
	return d
}

// Lexicon bundles the dictionaries of every mode.
type Lexicon struct {
	dicts map[game.Mode]*Dictionary
}

// New builds a Lexicon from in-memory word lists.
func New(lists map[game.Mode][]string) *Lexicon {
	l := &Lexicon{dicts: make(map[game.Mode]*Dictionary, len(game.Modes))}
	for _, m := range game.Modes {
		l.dicts[m] = newDictionary(m, lists[m])
	}
	return l
}

// Load reads each mode's list from files[mode] when set, otherwise from the
// embedded defaults. An empty dictionary is an error.
func Load(files map[game.Mode]string) (*Lexicon, error) {
	lists := make(map[game.Mode][]string, len(game.Modes))
	for _, m := range game.Modes {
		var (
			list []string
			err  error
		)
		if path := files[m]; path != "" {
			list, err = readWordFile(path)
		} else {
			list, err = assets.WordList(string(m))
		}
		if err != nil {
			return nil, fmt.Errorf("words: load %s: %w", m, err)
		}
		lists[m] = list
	}

	l := New(lists)
	for _, m := range game.Modes {
		n := l.dicts[m].Size()
		if n == 0 {
			return nil, fmt.Errorf("words: %s list is empty", m)
		}
		log.Debug().Str("mode", string(m)).Int("words", n).Msg("dictionary loaded")
	}
	return l, nil
}

// Dictionary returns the word set for m. Unknown modes get an empty set.
func (l *Lexicon) Dictionary(m game.Mode) *Dictionary {
	if d, ok := l.dicts[m]; ok {
		return d
	}
	return newDictionary(m, nil)
}

// Contains normalizes w and reports membership in m's dictionary.
func (l *Lexicon) Contains(m game.Mode, w string) bool {
	return l.Dictionary(m).Contains(Normalize(w))
}

// Stats returns the word count per mode.
func (l *Lexicon) Stats() map[game.Mode]int {
	out := make(map[game.Mode]int, len(l.dicts))
	for m, d := range l.dicts {
		out[m] = d.Size()
	}
	return out
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// isWord reports whether w is two or more katakana letters.
func isWord(w string) bool {
	n := 0
	for _, r := range w {
		if !game.ValidLetter(r) {
			return false
		}
		n++
	}
	return n >= 2
}
