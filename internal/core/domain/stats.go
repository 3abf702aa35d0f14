package domain

import "time"

// ItemCounts aggregates listings by moderation state.
type ItemCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Swapped  int `json:"swapped"`
}

// SwapCounts aggregates swaps by lifecycle state.
type SwapCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

// DashboardStats is the admin overview aggregate. It is assembled from
// read-only counts and may be served from cache; GeneratedAt tells the
// consumer how stale it is.
type DashboardStats struct {
	ActiveUsers int        `json:"active_users"`
	Items       ItemCounts `json:"items"`
	Swaps       SwapCounts `json:"swaps"`
	GeneratedAt time.Time  `json:"generated_at"`
}
