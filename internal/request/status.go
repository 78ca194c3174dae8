package request

import (
	"fmt"
	"strings"

	"vibeline/internal/services"
)

// Status represents the lifecycle of a song request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
)

var allStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusCompleted,
	StatusPaid,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

type statusTransition struct {
	from Status
	to   Status
}

var allowedTransitions = map[statusTransition]struct{}{
	{from: StatusPending, to: StatusAccepted}:   {},
	{from: StatusPending, to: StatusRejected}:   {},
	{from: StatusAccepted, to: StatusCompleted}: {},
	{from: StatusCompleted, to: StatusPaid}:     {},
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a string to a Status, reporting whether it is known.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Bucket is the coarse ordering group used as the primary ranking key.
// Paid and rejected share the last bucket.
func (s Status) Bucket() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAccepted:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(s.Next()) == 0
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	var next []Status
	for _, candidate := range allStatuses {
		if s.CanTransitionTo(candidate) {
			next = append(next, candidate)
		}
	}
	return next
}

// CanTransitionTo reports whether moving from s to next follows the lifecycle.
func (s Status) CanTransitionTo(next Status) bool {
	_, ok := allowedTransitions[statusTransition{from: s, to: next}]
	return ok
}

// ValidateTransition returns an error wrapping services.ErrInvalidTransition when
// from -> to is not an edge of the lifecycle, or services.ErrValidation when to
// is not a known status.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return services.Wrap(services.ErrValidation, "request", "transition", fmt.Sprintf("unknown status %q", to), nil)
	}
	if !from.CanTransitionTo(to) {
		return services.Wrap(services.ErrInvalidTransition, "request", "transition", fmt.Sprintf("%s -> %s", from, to), nil)
	}
	return nil
}
