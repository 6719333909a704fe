// Package namekey folds display names into comparison keys.
package namekey

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// A cases.Caser keeps per-call state and must not be shared across goroutines.
var folders = sync.Pool{New: func() any { return cases.Fold() }}

// Fold returns a key under which two renderings of the same display name
// compare equal: compatibility-normalised, case-folded, tatweel and
// diacritics removed, whitespace collapsed. It does not try to reconcile
// spelling variants; distinct spellings stay distinct.
func Fold(name string) string {
	s := norm.NFKC.String(name)
	folder := folders.Get().(cases.Caser)
	folder.Reset()
	s = folder.String(s)
	folders.Put(folder)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == 'ـ':
			continue
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsSpace(r) || r == '.' || r == ',':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Contains reports whether needle occurs in haystack after folding both.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
