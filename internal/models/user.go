package models

import (
	"time"
)

// User is a SwapIt account holder: a student who lists items and borrows
// from others on campus.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Dorm          string // Dorm or campus building, shown on listings
	EmailVerified bool
	Role          string // "user", "admin"
	Status        string // "active", "suspended", "disabled"
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
