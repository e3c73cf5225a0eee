package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/auth"
	"github.com/lunchpicker/lunchpicker/internal/discovery"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
	"github.com/lunchpicker/lunchpicker/internal/storage"
)

var (
	errGroupNotFound = errors.New("group not found")
	errNotOwner      = errors.New("only the group owner can do this")
	errNotLeader     = errors.New("only a group leader can change member status")
	errNotMember     = errors.New("you are not a member of this group")
	errMemberMissing = errors.New("member not found")
	errVotingClosed  = errors.New("voting is closed")
	errCodeExhausted = errors.New("could not allocate a unique group code")
	errBusy          = errors.New("group is busy, please retry")
	errInternal      = errors.New("internal server error")
)

// toConnectError maps domain and storage errors onto Connect codes. Anything it
// does not recognise is logged and reported as a bare internal error.
func toConnectError(op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, errGroupNotFound),
		errors.Is(err, errMemberMissing),
		errors.Is(err, models.ErrCandidateNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New("not found"))
	case errors.Is(err, errNotOwner),
		errors.Is(err, errNotLeader),
		errors.Is(err, errNotMember),
		errors.Is(err, errVotingClosed):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, discovery.ErrInvalidCoordinates):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, overpass.ErrUpstream):
		slog.Warn(op+" upstream failure", "error", err)
		return connect.NewError(connect.CodeUnavailable, overpass.ErrUpstream)
	case errors.Is(err, storage.ErrVersionConflict):
		slog.Warn(op+" gave up after repeated write conflicts", "error", err)
		return connect.NewError(connect.CodeAborted, errBusy)
	}

	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
