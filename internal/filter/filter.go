package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter drops postings whose title or company mentions an excluded
// keyword. Matching is case-insensitive and diacritic-insensitive, so
// "Sénior" still matches an exclude entry of "senior".
type Filter struct {
	exclude []string
}

func New(exclude []string) *Filter {
	f := &Filter{}
	for _, kw := range exclude {
		kw = normalize(kw)
		if kw != "" {
			f.exclude = append(f.exclude, kw)
		}
	}
	return f
}

// Excluded reports whether any of the given text fields mentions an
// excluded keyword, and which one matched first.
func (f *Filter) Excluded(fields ...string) (string, bool) {
	if f == nil || len(f.exclude) == 0 {
		return "", false
	}
	for _, field := range fields {
		field = normalize(field)
		for _, kw := range f.exclude {
			if strings.Contains(field, kw) {
				return kw, true
			}
		}
	}
	return "", false
}

// normalize lowercases and strips diacritics (é -> e) so keyword
// matching survives accented spellings.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.TrimSpace(result))
}
