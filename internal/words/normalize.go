package words

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize maps player input onto the puzzle script:
// half-width katakana and full-width Latin are folded to canonical width,
// combining marks are composed (NFC), hiragana becomes katakana and ASCII
// letters are upper-cased so "f" reads as the wildcard.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = width.Fold.String(s)
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x3041 && r <= 0x3096:
			return r + 0x60
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}
		return r
	}, s)
}
