package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases text after NFC normalization so that composed and decomposed
// spellings of the same word (an accented letter typed either way) compare equal.
// A Caser is stateful, so a fresh one is built per call.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	return cases.Lower(language.Und).String(norm.NFC.String(text))
}

// FoldTrim trims surrounding whitespace and folds the remainder.
func FoldTrim(text string) string {
	return Fold(strings.TrimSpace(text))
}

// Join folds each non-empty part and joins them with a single space.
func Join(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return Fold(b.String())
}
