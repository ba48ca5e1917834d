// Package commitment defines the commitment domain model.
package commitment

import "time"

// Status is a commitment's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusFulfilled Status = "fulfilled"
	StatusWithdrawn Status = "withdrawn"
	StatusExpired   Status = "expired"
)

// Statuses lists every valid status, in lifecycle order.
var Statuses = []string{
	string(StatusActive),
	string(StatusFulfilled),
	string(StatusWithdrawn),
	string(StatusExpired),
}

// Commitment is an on-chain backed pledge tracked by the service.
type Commitment struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Asset       string    `json:"asset"`
	Amount      float64   `json:"amount"`
	Status      Status    `json:"status"`
	TxHash      string    `json:"txHash,omitempty"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusFulfilled, StatusWithdrawn, StatusExpired:
		return true
	}
	return false
}
