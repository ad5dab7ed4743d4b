package models

import "time"

// Listing categories accepted by the API
const (
	CategoryElectronics = "electronics"
	CategoryTextbooks   = "textbooks"
	CategorySports      = "sports"
	CategoryKitchen     = "kitchen"
	CategoryTools       = "tools"
	CategoryOther       = "other"
)

// Listing is an item a student offers for lending.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Condition   string // "new", "like_new", "good", "fair", "worn"
	DailyRate   int    // cents per day, 0 means free to borrow
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
