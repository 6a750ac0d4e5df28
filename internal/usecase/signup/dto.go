package signup

import (
	"time"

	domain "early-access-api/internal/domain/signup"
)

// CreateSignupRequest represents a submitted early-access form.
// Only Email is required; the optional fields are length-bounded.
type CreateSignupRequest struct {
	Email            string `json:"email" validate:"required,max=254,email"`
	Name             string `json:"name" validate:"omitempty,max=100"`
	UseCase          string `json:"useCase" validate:"omitempty,max=100"`
	Location         string `json:"location" validate:"omitempty,max=100"`
	CommuteChallenge string `json:"commuteChallenge" validate:"omitempty,max=1000"`
	Device           string `json:"device" validate:"omitempty,max=100"`
}

// CreateSignupResponse represents the stored record after a successful signup.
type CreateSignupResponse struct {
	Signup Signup
}

// ListSignupsRequest represents the request payload for listing signups.
type ListSignupsRequest struct {
	Page  int64
	Limit int64
}

// ListSignupsResponse represents the response payload for signup listing.
type ListSignupsResponse struct {
	Signups    []Signup
	Pagination *domain.Pagination
}

// ConnectionStatus is the outcome of a storage round trip.
// Err is the raw failure and Error its text, for logs only.
type ConnectionStatus struct {
	Connected  bool
	Configured bool
	Error      string
	Err        error
}

// Signup represents a signup DTO for API responses.
type Signup struct {
	ID               int64
	Email            string
	Name             string
	UseCase          string
	Location         string
	CommuteChallenge string
	Device           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func fromDomain(s domain.Signup) Signup {
	return Signup{
		ID:               s.ID,
		Email:            s.Email,
		Name:             s.Name,
		UseCase:          s.UseCase,
		Location:         s.Location,
		CommuteChallenge: s.CommuteChallenge,
		Device:           s.Device,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
