package request

import (
	"strings"

	"vibeline/internal/textutil"
)

// MatchText is the folded text a request is matched against: song name,
// artist, vibe, and note joined by spaces.
func MatchText(r Request) string {
	return textutil.Join(r.SongName, r.Artist, r.Vibe, r.Note)
}

// Matches reports whether any non-empty tag occurs as a substring of the
// request's match text. An empty tag set never matches.
func Matches(r Request, tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	return containsAny(MatchText(r), tags)
}

func containsAny(text string, tags []string) bool {
	for _, tag := range tags {
		folded := textutil.Fold(tag)
		if folded == "" {
			continue
		}
		if strings.Contains(text, folded) {
			return true
		}
	}
	return false
}
