package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/auth"
	"github.com/lunchpicker/lunchpicker/internal/middleware"
	"github.com/lunchpicker/lunchpicker/internal/storage"
	"github.com/lunchpicker/lunchpicker/internal/validation"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	validator     *validation.Validator
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, v *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		validator:     v,
		logger:        logger,
	}
}

// sessionCookie carries token for browser clients. An empty token expires the cookie.
func sessionCookie(token string, ttl time.Duration) string {
	c := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
	if token == "" {
		c.MaxAge = -1
	}
	return c.String()
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	req.Msg.Email = strings.TrimSpace(req.Msg.Email)
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError("Register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError("Register", err)
	}

	resp := connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user), Token: token})
	resp.Header().Set("Set-Cookie", sessionCookie(token, s.jwtManager.TokenDuration()))

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return resp, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError("Login", err)
	}

	resp := connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token})
	resp.Header().Set("Set-Cookie", sessionCookie(token, s.jwtManager.TokenDuration()))

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return resp, nil
}

// Logout expires the session cookie. Tokens are stateless, so bearer clients
// simply discard theirs.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx))

	resp := connect.NewResponse(&api.LogoutResponse{})
	resp.Header().Set("Set-Cookie", sessionCookie("", 0))
	return resp, nil
}

// Me returns the currently authenticated user's information.
func (s *AuthService) Me(ctx context.Context, req *connect.Request[api.MeRequest]) (*connect.Response[api.MeResponse], error) {
	user, err := loadCaller(ctx, s.users)
	if err != nil {
		return nil, toConnectError("Me", err)
	}

	s.logger.Info("Me request", "user_id", user.ID)
	return connect.NewResponse(&api.MeResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile changes the caller's display name. Existing group member
// snapshots keep the name they were taken with.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateProfile request", "user_id", userID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	nickname := strings.TrimSpace(req.Msg.Nickname)
	if err := s.users.UpdateUserDisplayName(ctx, userID, nickname); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
		}
		return nil, toConnectError("UpdateProfile", err)
	}

	user, err := loadCaller(ctx, s.users)
	if err != nil {
		return nil, toConnectError("UpdateProfile", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}
