package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/auth"
	"github.com/lunchpicker/lunchpicker/internal/middleware"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

// callerID returns the authenticated user ID or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// loadCaller resolves the authenticated user. A token for a deleted account is
// treated as no identity at all.
func loadCaller(ctx context.Context, users storage.UserStore) (*models.User, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
