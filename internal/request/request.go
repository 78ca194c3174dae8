package request

import (
	"encoding/json"
	"fmt"
	"time"
)

// Request is a single song request in the queue.
type Request struct {
	ID        string
	SongName  string
	Artist    string
	Vibe      string
	Note      string
	UserID    string
	UserName  string
	Status    Status
	Timestamp time.Time
	Bid       *Bid
}

// BidAmount returns the bid value used for ranking; requests without a bid
// rank as zero.
func (r Request) BidAmount() Amount {
	if r.Bid == nil {
		return 0
	}
	return r.Bid.Amount
}

// HasBid reports whether a bid was attached. A zero bid still counts; only
// an absent bid does not.
func (r Request) HasBid() bool {
	return r.Bid != nil
}

// Clone returns a copy that shares no pointers with r.
func (r Request) Clone() Request {
	if r.Bid != nil {
		bid := *r.Bid
		r.Bid = &bid
	}
	return r
}

// wireRequest is the persisted and legacy-compatible JSON shape.
type wireRequest struct {
	ID          string  `json:"id"`
	SongName    string  `json:"songName"`
	Artist      string  `json:"artist"`
	Vibe        string  `json:"vibe"`
	Note        string  `json:"note"`
	UserID      string  `json:"userId"`
	UserName    string  `json:"userName"`
	Status      string  `json:"status"`
	Timestamp   int64   `json:"timestamp"`
	BidAmount   *string `json:"bidAmount,omitempty"`
	BidCurrency string  `json:"bidCurrency,omitempty"`
	BidNetwork  string  `json:"bidNetwork,omitempty"`
}

// MarshalJSON encodes the request with millisecond timestamps and the bid
// amount as a decimal string.
func (r Request) MarshalJSON() ([]byte, error) {
	wire := wireRequest{
		ID:        r.ID,
		SongName:  r.SongName,
		Artist:    r.Artist,
		Vibe:      r.Vibe,
		Note:      r.Note,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Status:    string(r.Status),
		Timestamp: r.Timestamp.UnixMilli(),
	}
	if r.Bid != nil {
		amount := r.Bid.Amount.String()
		wire.BidAmount = &amount
		wire.BidCurrency = string(r.Bid.Currency)
		wire.BidNetwork = string(r.Bid.Network)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the persisted shape. Unknown statuses are an error;
// a bid amount that does not parse as a non-negative decimal is dropped.
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire wireRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	status, ok := ParseStatus(wire.Status)
	if !ok {
		return fmt.Errorf("request %q: unknown status %q", wire.ID, wire.Status)
	}
	decoded := Request{
		ID:        wire.ID,
		SongName:  wire.SongName,
		Artist:    wire.Artist,
		Vibe:      wire.Vibe,
		Note:      wire.Note,
		UserID:    wire.UserID,
		UserName:  wire.UserName,
		Status:    status,
		Timestamp: time.UnixMilli(wire.Timestamp).UTC(),
	}
	if wire.BidAmount != nil {
		if amount, err := ParseAmount(*wire.BidAmount); err == nil {
			bid := &Bid{Amount: amount}
			if c, ok := ParseCurrency(wire.BidCurrency); ok {
				bid.Currency = c
			}
			if n, ok := ParseNetwork(wire.BidNetwork); ok {
				bid.Network = n
			}
			decoded.Bid = bid
		}
	}
	*r = decoded
	return nil
}
