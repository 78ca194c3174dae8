package request

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"

	"vibeline/internal/textutil"
)

// Preferences is the DJ's tag set. The persisted shape keeps three lists for
// compatibility; matching uses their union and new tags land in Genres.
type Preferences struct {
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
	Styles  []string `json:"styles"`
}

// NormalizeTag trims and case-folds a tag. An empty result means the tag is
// ignored.
func NormalizeTag(tag string) string {
	return textutil.FoldTrim(tag)
}

// Tags returns the normalized union of all lists, in first-seen order,
// without empties or duplicates.
func (p Preferences) Tags() []string {
	all := make([]string, 0, len(p.Genres)+len(p.Artists)+len(p.Styles))
	for _, list := range [][]string{p.Genres, p.Artists, p.Styles} {
		for _, tag := range list {
			if normalized := NormalizeTag(tag); normalized != "" {
				all = append(all, normalized)
			}
		}
	}
	return lo.Uniq(all)
}

// Has reports whether the normalized tag is already present.
func (p Preferences) Has(tag string) bool {
	normalized := NormalizeTag(tag)
	return normalized != "" && slices.Contains(p.Tags(), normalized)
}

// WithTag returns the preferences with tag added to Genres. The second result
// is false when the tag is empty after normalization or already present.
func (p Preferences) WithTag(tag string) (Preferences, bool) {
	normalized := NormalizeTag(tag)
	if normalized == "" || p.Has(normalized) {
		return p, false
	}
	next := p.Clone()
	next.Genres = append(next.Genres, normalized)
	return next, true
}

// WithoutTag returns the preferences with every occurrence of tag removed
// from all lists. The second result is false when nothing matched.
func (p Preferences) WithoutTag(tag string) (Preferences, bool) {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		return p, false
	}
	keep := func(item string, _ int) bool { return NormalizeTag(item) != normalized }
	next := Preferences{
		Genres:  lo.Filter(p.Genres, keep),
		Artists: lo.Filter(p.Artists, keep),
		Styles:  lo.Filter(p.Styles, keep),
	}
	changed := len(next.Genres) != len(p.Genres) ||
		len(next.Artists) != len(p.Artists) ||
		len(next.Styles) != len(p.Styles)
	if !changed {
		return p, false
	}
	return next, true
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Genres:  slices.Clone(p.Genres),
		Artists: slices.Clone(p.Artists),
		Styles:  slices.Clone(p.Styles),
	}
}

// MarshalJSON always writes arrays, never null.
func (p Preferences) MarshalJSON() ([]byte, error) {
	type plain Preferences
	return json.Marshal(plain{
		Genres:  nonNil(p.Genres),
		Artists: nonNil(p.Artists),
		Styles:  nonNil(p.Styles),
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
