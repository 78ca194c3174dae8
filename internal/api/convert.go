package api

import (
	"time"

	"vibeline/internal/notify"
	"vibeline/internal/queue"
	"vibeline/internal/request"
)

// FromRequest converts a request into its transport representation.
func FromRequest(r request.Request, match bool) RequestItem {
	item := RequestItem{
		ID:        r.ID,
		SongName:  r.SongName,
		Artist:    r.Artist,
		Vibe:      r.Vibe,
		Note:      r.Note,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Status:    string(r.Status),
		Bucket:    r.Status.Bucket(),
		Match:     match,
		Timestamp: r.Timestamp.UnixMilli(),
	}
	if !r.Timestamp.IsZero() {
		item.RequestedAt = r.Timestamp.UTC().Format(dateTimeFormat)
	}
	if r.Bid != nil {
		item.BidAmount = r.Bid.Amount.String()
		item.BidCurrency = string(r.Bid.Currency)
		item.BidNetwork = string(r.Bid.Network)
	}
	return item
}

// FromRanked converts the ranked DJ view, preserving order.
func FromRanked(ranked []request.Ranked) []RequestItem {
	items := make([]RequestItem, len(ranked))
	for i, r := range ranked {
		items[i] = FromRequest(r.Request, r.Match)
	}
	return items
}

// FromRequests converts requests without match information.
func FromRequests(requests []request.Request) []RequestItem {
	items := make([]RequestItem, len(requests))
	for i, r := range requests {
		items[i] = FromRequest(r, false)
	}
	return items
}

// FromPreferences converts a preference set.
func FromPreferences(p request.Preferences) Preferences {
	return Preferences{
		Genres:  nonNil(p.Genres),
		Artists: nonNil(p.Artists),
		Styles:  nonNil(p.Styles),
		Tags:    nonNil(p.Tags()),
	}
}

// FromStats converts queue statistics.
func FromStats(s queue.Stats) QueueStats {
	counts := make(map[string]int, len(s.ByStatus))
	for status, n := range s.ByStatus {
		counts[string(status)] = n
	}
	return QueueStats{
		Total:        s.Total,
		Counts:       counts,
		Pending:      s.Pending(),
		Matched:      s.Matched,
		MatchPercent: s.MatchPercent,
		TopBid:       s.TopBid.String(),
	}
}

// FromEvent converts a hub event.
func FromEvent(evt notify.Event) Event {
	return Event{
		Sequence:  evt.Sequence,
		Timestamp: evt.Timestamp.UTC().Format(dateTimeFormat),
		Kind:      string(evt.Kind),
		Key:       evt.Key,
		RequestID: evt.RequestID,
		Status:    evt.Status,
	}
}

// FromEvents converts a batch of hub events.
func FromEvents(events []notify.Event) []Event {
	out := make([]Event, len(events))
	for i, evt := range events {
		out[i] = FromEvent(evt)
	}
	return out
}

// ToSubmission converts the wire form into the core submission.
func (r SubmitRequest) ToSubmission() request.Submission {
	return request.Submission{
		SongName:    r.SongName,
		Artist:      r.Artist,
		Vibe:        r.Vibe,
		Note:        r.Note,
		UserID:      r.UserID,
		UserName:    r.UserName,
		BidAmount:   r.BidAmount,
		BidCurrency: r.BidCurrency,
		BidNetwork:  r.BidNetwork,
	}
}

// ParseTime parses RequestedAt for display. Invalid values yield the zero time.
func ParseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BidLabel renders the bid columns as "25 USDT (Base)", or "" without a bid.
func (i RequestItem) BidLabel() string {
	if i.BidAmount == "" {
		return ""
	}
	label := i.BidAmount
	if i.BidCurrency != "" {
		label += " " + i.BidCurrency
	}
	if i.BidNetwork != "" {
		label += " (" + i.BidNetwork + ")"
	}
	return label
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
