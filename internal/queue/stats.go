package queue

import (
	"context"
	"math"

	"github.com/samber/lo"

	"vibeline/internal/request"
)

// Stats summarizes the queue for status displays.
type Stats struct {
	Total    int
	ByStatus map[request.Status]int
	// Matched counts requests, of any status, that match a preference tag.
	Matched int
	// MatchPercent is Matched over Total, rounded; zero for an empty queue.
	MatchPercent int
	// TopBid is the highest bid among pending requests.
	TopBid request.Amount
}

// Pending is the count shown on the DJ's pending badge.
func (s Stats) Pending() int {
	return s.ByStatus[request.StatusPending]
}

// Stats computes counts by status and the preference match ratio.
func (c *Controller) Stats(ctx context.Context) (Stats, error) {
	ranked, err := c.Ranked(ctx)
	if err != nil {
		return Stats{}, err
	}
	byStatus := lo.CountValuesBy(ranked, func(r request.Ranked) request.Status { return r.Request.Status })
	for _, status := range request.Statuses() {
		if _, ok := byStatus[status]; !ok {
			byStatus[status] = 0
		}
	}
	matched := lo.CountBy(ranked, func(r request.Ranked) bool { return r.Match })
	pendingBids := lo.FilterMap(ranked, func(r request.Ranked, _ int) (request.Amount, bool) {
		return r.Request.BidAmount(), r.Request.Status == request.StatusPending
	})

	stats := Stats{
		Total:    len(ranked),
		ByStatus: byStatus,
		Matched:  matched,
		TopBid:   lo.Max(pendingBids),
	}
	if stats.Total > 0 {
		stats.MatchPercent = int(math.Round(float64(matched) * 100 / float64(stats.Total)))
	}
	return stats, nil
}
