package ipc

import "vibeline/internal/api"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse is the daemon status snapshot.
type StatusResponse = api.Status

type (
	ListRequest       = api.ListRequest
	ListResponse      = api.ListResponse
	DescribeRequest   = api.DescribeRequest
	SubmitRequest     = api.SubmitRequest
	TransitionRequest = api.TransitionRequest
	ItemResponse      = api.ItemResponse
	ClearResponse     = api.ClearResponse
	TagRequest        = api.TagRequest
	TagResponse       = api.TagResponse
	ShoutoutResponse  = api.ShoutoutResponse
	EventsRequest     = api.EventsRequest
	EventsResponse    = api.EventsResponse
	Preferences       = api.Preferences
	RequestItem       = api.RequestItem
)

// ClearRequest removes every request from the queue.
type ClearRequest struct{}

// PreferencesRequest fetches the DJ preference lists.
type PreferencesRequest struct{}

// ShoutoutRequest asks for an announcement line for one request.
type ShoutoutRequest struct {
	ID string `json:"id"`
}

// TestNotificationRequest asks the daemon to send a test push.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the test push outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse reports whether shutdown was scheduled.
type StopResponse struct {
	Stopping bool `json:"stopping"`
}
