package auth

import (
	"context"

	"github.com/lunchpicker/lunchpicker/internal/models"
)

// Authenticator is the identity provider: it turns credentials into a user whose
// ID and display name the rest of the system relies on.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// An empty display name defaults to the local part of the email.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
