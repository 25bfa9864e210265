package models

import "time"

// CheckStatus represents the outcome of a single reservation request
type CheckStatus string

const (
	StatusAvailable    CheckStatus = "available"
	StatusUnavailable  CheckStatus = "unavailable"
	StatusRateLimited  CheckStatus = "rate_limited"
	StatusBadRequest   CheckStatus = "bad_request"
	StatusUnauthorized CheckStatus = "unauthorized"
	StatusUnclassified CheckStatus = "unclassified"
	StatusError        CheckStatus = "error"
)

// MaxGamertagLength is the longest gamertag the reservation API accepts
const MaxGamertagLength = 15

// Credentials authorize reservation requests for the whole run
type Credentials struct {
	Authorization string `json:"authorization"`
	ReservationID string `json:"reservationID"`
}

// RateLimitInfo is the throttling window reported with a 429 response
type RateLimitInfo struct {
	CurrentRequests int `json:"currentRequests"`
	MaxRequests     int `json:"maxRequests"`
	PeriodInSeconds int `json:"periodInSeconds"`
}

// CheckResult holds the result of a gamertag check
type CheckResult struct {
	Gamertag   string         `json:"gamertag"`
	Status     CheckStatus    `json:"status"`
	StatusCode int            `json:"status_code,omitempty"`
	Body       string         `json:"body,omitempty"`
	RateLimit  *RateLimitInfo `json:"rate_limit,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	Error      string         `json:"error,omitempty"`
}

// Rejection records a candidate dropped before any request was made
type Rejection struct {
	Gamertag string `json:"gamertag"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}
