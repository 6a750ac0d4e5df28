package handler

import (
	"time"

	"early-access-api/internal/usecase/signup"
)

// Outcome reasons returned to the UI.
const (
	ReasonValidation   = "validation"
	ReasonDuplicate    = "duplicate"
	ReasonUnavailable  = "unavailable"
	ReasonUnauthorized = "unauthorized"
)

// User-facing messages. Raw error text never reaches the client.
const (
	MessageCreated     = "You're on the early access list!"
	MessageDuplicate   = "This email is already on the early access list."
	MessageUnavailable = "We couldn't save your signup right now. Please try again."
	MessageInvalidJSON = "Request body must be a JSON object."
)

// SignupRecord represents a stored signup in HTTP responses
type SignupRecord struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	UseCase          string    `json:"useCase,omitempty"`
	Location         string    `json:"location,omitempty"`
	CommuteChallenge string    `json:"commuteChallenge,omitempty"`
	Device           string    `json:"device,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SignupResponse represents the HTTP response for a signup submission
type SignupResponse struct {
	Success bool              `json:"success"`
	Reason  string            `json:"reason,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Record  *SignupRecord     `json:"record,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// ListSignupsResponse represents the HTTP response for listing signups
type ListSignupsResponse struct {
	Signups    []SignupRecord `json:"signups"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

func toRecord(s signup.Signup) SignupRecord {
	return SignupRecord{
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
