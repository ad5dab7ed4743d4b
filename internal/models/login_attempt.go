package models

import "time"

// LoginAttempt is one durable log entry for an authentication attempt,
// success or failure. Rows are append-only: the only deletions are the
// administrative Reset and the retention cleanup job.
type LoginAttempt struct {
	ID             string
	IdentifierHash string // hex SHA-256 of the canonical (email, IP) pair
	Email          string // informational, not used for lockout decisions
	IPAddress      string // informational
	UserAgent      string // stored for forensic review
	AttemptTime    time.Time
	Success        bool
	LockedUntil    *time.Time // set only on the failure that triggers a lockout
}
