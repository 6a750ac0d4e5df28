package signup

import "time"

// Signup is an early-access registration. Email is the natural key;
// a record is never modified after it is created.
type Signup struct {
	ID               int64     // Storage-assigned surrogate identifier
	Email            string    // Unique email address, stored as submitted (trimmed)
	Name             string    // Optional display name
	UseCase          string    // Optional: what the submitter wants notifications for
	Location         string    // Optional: city or region
	CommuteChallenge string    // Optional: free-form description of the commute pain point
	Device           string    // Optional: phone platform
	CreatedAt        time.Time // Set once at insert
	UpdatedAt        time.Time // Set at insert
}
