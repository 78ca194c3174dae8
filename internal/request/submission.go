package request

import (
	"strings"
	"time"

	"vibeline/internal/services"
)

// DefaultUserName is used when a submission carries no display name.
const DefaultUserName = "Guest"

// Submission is the untrusted input for a new request. Bid fields arrive as
// strings and are parsed by Build.
type Submission struct {
	SongName    string
	Artist      string
	Vibe        string
	Note        string
	UserID      string
	UserName    string
	BidAmount   string
	BidCurrency string
	BidNetwork  string
}

// Build validates the submission and produces a pending request with the
// given id and timestamp. Currency and network are ignored without an amount.
func (s Submission) Build(id string, at time.Time) (Request, error) {
	songName := strings.TrimSpace(s.SongName)
	artist := strings.TrimSpace(s.Artist)
	if songName == "" {
		return Request{}, invalid("songName is required")
	}
	if artist == "" {
		return Request{}, invalid("artist is required")
	}
	userName := strings.TrimSpace(s.UserName)
	if userName == "" {
		userName = DefaultUserName
	}
	bid, err := s.bid()
	if err != nil {
		return Request{}, err
	}
	return Request{
		ID:        id,
		SongName:  songName,
		Artist:    artist,
		Vibe:      strings.TrimSpace(s.Vibe),
		Note:      strings.TrimSpace(s.Note),
		UserID:    strings.TrimSpace(s.UserID),
		UserName:  userName,
		Status:    StatusPending,
		Timestamp: at.UTC().Truncate(time.Millisecond),
		Bid:       bid,
	}, nil
}

func (s Submission) bid() (*Bid, error) {
	if strings.TrimSpace(s.BidAmount) == "" {
		return nil, nil
	}
	amount, err := ParseAmount(s.BidAmount)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "request", "submit", "invalid bidAmount", err)
	}
	bid := &Bid{Amount: amount}
	if raw := strings.TrimSpace(s.BidCurrency); raw != "" {
		c, ok := ParseCurrency(raw)
		if !ok {
			return nil, invalid("unsupported bidCurrency " + raw)
		}
		bid.Currency = c
	}
	if raw := strings.TrimSpace(s.BidNetwork); raw != "" {
		n, ok := ParseNetwork(raw)
		if !ok {
			return nil, invalid("unsupported bidNetwork " + raw)
		}
		bid.Network = n
	}
	return bid, nil
}

func invalid(message string) error {
	return services.Wrap(services.ErrValidation, "request", "submit", message, nil)
}
