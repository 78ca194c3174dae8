package api

import (
	"context"
	"strings"

	"vibeline/internal/queue"
	"vibeline/internal/request"
	"vibeline/internal/services"
	"vibeline/internal/services/shoutout"
)

// Queue is the set of queue operations the service exposes.
type Queue interface {
	Submit(ctx context.Context, sub request.Submission) (request.Request, error)
	Get(ctx context.Context, id string) (request.Request, error)
	Transition(ctx context.Context, id string, next request.Status) (request.Request, error)
	ClearAll(ctx context.Context) (int, error)
	Ranked(ctx context.Context) ([]request.Ranked, error)
	ForUser(ctx context.Context, userID string) ([]request.Request, error)
	Preferences(ctx context.Context) (request.Preferences, error)
	AddTag(ctx context.Context, tag string) (request.Preferences, bool, error)
	RemoveTag(ctx context.Context, tag string) (request.Preferences, bool, error)
	Stats(ctx context.Context) (queue.Stats, error)
}

// Shoutouts generates DJ announcements.
type Shoutouts interface {
	Generate(ctx context.Context, r request.Request) shoutout.Result
}

// QueueService exposes queue operations returning API DTOs.
type QueueService struct {
	queue     Queue
	shoutouts Shoutouts
}

// NewQueueService constructs a QueueService. shoutouts may be nil, in which
// case Shoutout always returns the fallback text.
func NewQueueService(q Queue, shoutouts Shoutouts) *QueueService {
	if q == nil {
		return nil
	}
	return &QueueService{queue: q, shoutouts: shoutouts}
}

// List returns the ranked DJ view, or one user's requests newest first.
func (s *QueueService) List(ctx context.Context, req ListRequest) (ListResponse, error) {
	if userID := strings.TrimSpace(req.UserID); userID != "" {
		mine, err := s.queue.ForUser(ctx, userID)
		if err != nil {
			return ListResponse{}, err
		}
		return ListResponse{Items: FromRequests(mine)}, nil
	}
	ranked, err := s.queue.Ranked(ctx)
	if err != nil {
		return ListResponse{}, err
	}
	return ListResponse{Items: FromRanked(ranked)}, nil
}

// Describe fetches a single request with its current match flag.
func (s *QueueService) Describe(ctx context.Context, id string) (RequestItem, error) {
	r, err := s.queue.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return RequestItem{}, err
	}
	prefs, err := s.queue.Preferences(ctx)
	if err != nil {
		return RequestItem{}, err
	}
	return FromRequest(r, request.Matches(r, prefs.Tags())), nil
}

// Submit validates and stores a new request.
func (s *QueueService) Submit(ctx context.Context, req SubmitRequest) (RequestItem, error) {
	created, err := s.queue.Submit(ctx, req.ToSubmission())
	if err != nil {
		return RequestItem{}, err
	}
	prefs, err := s.queue.Preferences(ctx)
	if err != nil {
		return FromRequest(created, false), nil
	}
	return FromRequest(created, request.Matches(created, prefs.Tags())), nil
}

// Transition parses the target status and applies it.
func (s *QueueService) Transition(ctx context.Context, req TransitionRequest) (RequestItem, error) {
	next, ok := request.ParseStatus(req.Status)
	if !ok {
		return RequestItem{}, services.Wrap(services.ErrValidation, "api", "transition", "unknown status "+req.Status, nil)
	}
	updated, err := s.queue.Transition(ctx, strings.TrimSpace(req.ID), next)
	if err != nil {
		return RequestItem{}, err
	}
	prefs, err := s.queue.Preferences(ctx)
	if err != nil {
		return FromRequest(updated, false), nil
	}
	return FromRequest(updated, request.Matches(updated, prefs.Tags())), nil
}

// Clear removes every request.
func (s *QueueService) Clear(ctx context.Context) (ClearResponse, error) {
	removed, err := s.queue.ClearAll(ctx)
	if err != nil {
		return ClearResponse{}, err
	}
	return ClearResponse{Removed: removed}, nil
}

// Preferences returns the current tag set.
func (s *QueueService) Preferences(ctx context.Context) (Preferences, error) {
	prefs, err := s.queue.Preferences(ctx)
	if err != nil {
		return Preferences{}, err
	}
	return FromPreferences(prefs), nil
}

// AddTag adds one preference tag. Empty and duplicate tags leave the set
// unchanged and report Changed=false.
func (s *QueueService) AddTag(ctx context.Context, req TagRequest) (TagResponse, error) {
	prefs, changed, err := s.queue.AddTag(ctx, req.Tag)
	if err != nil {
		return TagResponse{}, err
	}
	return TagResponse{Tags: nonNil(prefs.Tags()), Changed: changed}, nil
}

// RemoveTag removes one preference tag.
func (s *QueueService) RemoveTag(ctx context.Context, req TagRequest) (TagResponse, error) {
	prefs, changed, err := s.queue.RemoveTag(ctx, req.Tag)
	if err != nil {
		return TagResponse{}, err
	}
	return TagResponse{Tags: nonNil(prefs.Tags()), Changed: changed}, nil
}

// Shoutout generates the DJ announcement for request id.
func (s *QueueService) Shoutout(ctx context.Context, id string) (ShoutoutResponse, error) {
	r, err := s.queue.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return ShoutoutResponse{}, err
	}
	if s.shoutouts == nil {
		return ShoutoutResponse{Text: shoutout.Fallback(r), Fallback: true}, nil
	}
	result := s.shoutouts.Generate(ctx, r)
	return ShoutoutResponse{Text: result.Text, Fallback: result.Fallback}, nil
}

// Stats returns queue counts.
func (s *QueueService) Stats(ctx context.Context) (QueueStats, error) {
	stats, err := s.queue.Stats(ctx)
	if err != nil {
		return QueueStats{}, err
	}
	return FromStats(stats), nil
}
