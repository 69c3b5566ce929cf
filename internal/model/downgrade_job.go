package model

import "time"

// DowngradeJob is the queue payload asking the orchestrator to move a user to the NORMAL tier.
type DowngradeJob struct {
	UserID      string    `json:"user_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}
