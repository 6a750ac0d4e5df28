package signup

import "context"

// Service defines the interface for signup business logic operations.
type Service interface {
	Validate(in CreateSignupRequest) (CreateSignupRequest, error)
	CheckExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, in CreateSignupRequest) (*CreateSignupResponse, error)
	TestConnection(ctx context.Context) ConnectionStatus
	ListSignups(ctx context.Context, in ListSignupsRequest) (*ListSignupsResponse, error)
}
