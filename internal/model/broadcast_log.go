package model

import "time"

// BroadcastLog is an append-only audit record, one per recipient per
// campaign run. Entries are never mutated or deleted.
type BroadcastLog struct {
	Phone    string    `json:"phone"`
	Name     string    `json:"name"`
	Message  string    `json:"message"`
	MediaURL string    `json:"media_url,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}
