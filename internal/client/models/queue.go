package models

import (
	"encoding/json"
	"time"
)

// QueuedRequest is a mutating request persisted while offline and replayed
// later. EnqueuedAt is unix milliseconds.
type QueuedRequest struct {
	ID         string          `json:"id"`
	URL        string          `json:"url"`
	Method     string          `json:"method"`
	Body       json.RawMessage `json:"data,omitempty"`
	EnqueuedAt int64           `json:"timestamp"`
	Attempts   int             `json:"attempts,omitempty"`
}

// Time returns EnqueuedAt as a time.Time.
func (r QueuedRequest) Time() time.Time {
	return time.UnixMilli(r.EnqueuedAt)
}
