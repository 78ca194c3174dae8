package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RequestItem describes a song request in a transport-friendly format.
type RequestItem struct {
	ID          string `json:"id"`
	SongName    string `json:"songName"`
	Artist      string `json:"artist"`
	Vibe        string `json:"vibe"`
	Note        string `json:"note"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Status      string `json:"status"`
	Bucket      int    `json:"bucket"`
	Match       bool   `json:"match"`
	Timestamp   int64  `json:"timestamp"`
	RequestedAt string `json:"requestedAt"`
	BidAmount   string `json:"bidAmount,omitempty"`
	BidCurrency string `json:"bidCurrency,omitempty"`
	BidNetwork  string `json:"bidNetwork,omitempty"`
}

// SubmitRequest carries a listener's request form.
type SubmitRequest struct {
	SongName    string `json:"songName"`
	Artist      string `json:"artist"`
	Vibe        string `json:"vibe,omitempty"`
	Note        string `json:"note,omitempty"`
	UserID      string `json:"userId,omitempty"`
	UserName    string `json:"userName,omitempty"`
	BidAmount   string `json:"bidAmount,omitempty"`
	BidCurrency string `json:"bidCurrency,omitempty"`
	BidNetwork  string `json:"bidNetwork,omitempty"`
}

// TransitionRequest moves a request to a new status.
type TransitionRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListRequest selects the ranked DJ view, or one user's history when UserID
// is set.
type ListRequest struct {
	UserID string `json:"userId,omitempty"`
}

// ListResponse wraps a collection of requests.
type ListResponse struct {
	Items []RequestItem `json:"items"`
}

// ItemResponse wraps a single request.
type ItemResponse struct {
	Item RequestItem `json:"item"`
}

// DescribeRequest looks up one request by id.
type DescribeRequest struct {
	ID string `json:"id"`
}

// ClearResponse reports how many requests were removed.
type ClearResponse struct {
	Removed int `json:"removed"`
}

// Preferences is the DJ's tag set.
type Preferences struct {
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
	Styles  []string `json:"styles"`
	Tags    []string `json:"tags"`
}

// TagRequest adds or removes one preference tag.
type TagRequest struct {
	Tag string `json:"tag"`
}

// TagResponse reports the resulting tag set and whether it changed.
type TagResponse struct {
	Tags    []string `json:"tags"`
	Changed bool     `json:"changed"`
}

// ShoutoutResponse carries a generated DJ announcement.
type ShoutoutResponse struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// QueueStats summarizes the queue.
type QueueStats struct {
	Total        int            `json:"total"`
	Counts       map[string]int `json:"counts"`
	Pending      int            `json:"pending"`
	Matched      int            `json:"matched"`
	MatchPercent int            `json:"matchPercent"`
	TopBid       string         `json:"topBid"`
}

// Status aggregates daemon runtime information.
type Status struct {
	Running     bool       `json:"running"`
	PID         int        `json:"pid"`
	Backend     string     `json:"backend"`
	StorePath   string     `json:"storePath,omitempty"`
	LockPath    string     `json:"lockPath"`
	SocketPath  string     `json:"socketPath"`
	APIBind     string     `json:"apiBind,omitempty"`
	Shoutouts   bool       `json:"shoutouts"`
	Subscribers int        `json:"subscribers"`
	LastEvent   uint64     `json:"lastEvent"`
	Queue       QueueStats `json:"queue"`
}

// Event is a change notification.
type Event struct {
	Sequence  uint64 `json:"seq"`
	Timestamp string `json:"ts"`
	Kind      string `json:"kind"`
	Key       string `json:"key,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// EventsRequest asks for events after Since. With Follow set the call waits up
// to WaitMillis for new events when none are buffered.
type EventsRequest struct {
	Since      uint64 `json:"since"`
	Limit      int    `json:"limit"`
	Follow     bool   `json:"follow"`
	WaitMillis int    `json:"waitMillis,omitempty"`
}

// EventsResponse returns buffered events and the cursor for the next call.
type EventsResponse struct {
	Events []Event `json:"events"`
	Next   uint64  `json:"next"`
}
