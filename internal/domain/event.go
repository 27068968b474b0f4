package domain

import "time"

// ViewEvent records one applied user action in a view session. Events are
// published for usage analytics; they carry no backend data.
type ViewEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Action     string    `json:"action"`
	View       string    `json:"view"`
	Date       string    `json:"date,omitempty"`
	StormID    string    `json:"storm_id,omitempty"`
	City       string    `json:"city,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
