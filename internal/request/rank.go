package request

import (
	"cmp"
	"slices"
)

// Ranked pairs a request with its precomputed preference match.
type Ranked struct {
	Request Request
	Match   bool
}

// Rank orders requests for the DJ view. Matches are computed once per request
// against the union of the preference tags.
func Rank(requests []Request, prefs Preferences) []Ranked {
	tags := prefs.Tags()
	ranked := make([]Ranked, len(requests))
	for i, r := range requests {
		ranked[i] = Ranked{Request: r, Match: Matches(r, tags)}
	}
	slices.SortStableFunc(ranked, CompareRanked)
	return ranked
}

// RankRequests is Rank without the match flags.
func RankRequests(requests []Request, prefs Preferences) []Request {
	ranked := Rank(requests, prefs)
	out := make([]Request, len(ranked))
	for i, r := range ranked {
		out[i] = r.Request
	}
	return out
}

// CompareRanked is the ranking comparator. Bid and match only separate two
// pending requests; every other pair falls through to newest first.
func CompareRanked(a, b Ranked) int {
	if c := cmp.Compare(a.Request.Status.Bucket(), b.Request.Status.Bucket()); c != 0 {
		return c
	}
	if a.Request.Status == StatusPending && b.Request.Status == StatusPending {
		if c := cmp.Compare(b.Request.BidAmount(), a.Request.BidAmount()); c != 0 {
			return c
		}
		if a.Match != b.Match {
			if a.Match {
				return -1
			}
			return 1
		}
	}
	return b.Request.Timestamp.Compare(a.Request.Timestamp)
}

// NewestFirst orders requests by timestamp descending, keeping input order on
// ties. Used for per-user history.
func NewestFirst(requests []Request) []Request {
	out := slices.Clone(requests)
	slices.SortStableFunc(out, func(a, b Request) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}
