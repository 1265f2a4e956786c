package entity

import "time"

// Search status values.
const (
	SearchStatusRunning   = "running"
	SearchStatusCompleted = "completed"
	SearchStatusError     = "error"
)

// SearchParams are the caller-supplied parameters scoping one scrape run.
type SearchParams struct {
	Industry       string `json:"industry"`
	Location       string `json:"location"`
	Keywords       string `json:"keywords"`
	AdCount        int    `json:"ad_count"`
	FilterRelevant bool   `json:"filter_relevant"`
}

// Search mirrors the `searches` table and scopes one end-to-end run of
// the scrape pipeline.
type Search struct {
	ID        int64     `json:"id"`
	Industry  string    `json:"industry"`
	Location  string    `json:"location"`
	Keywords  string    `json:"keywords"`
	Status    string    `json:"status"`
	TotalAds  int       `json:"total_ads"`
	CreatedAt time.Time `json:"created_at"`
}
