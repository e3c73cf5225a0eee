package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
	"github.com/lunchpicker/lunchpicker/internal/validation"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// ExclusionService manages the caller's list of venues never to suggest again.
type ExclusionService struct {
	store     storage.ExclusionStore
	validator *validation.Validator
}

func NewExclusionService(store storage.ExclusionStore, v *validation.Validator) *ExclusionService {
	return &ExclusionService{store: store, validator: v}
}

// ListExclusions returns the caller's exclusions, newest first.
func (s *ExclusionService) ListExclusions(ctx context.Context, req *connect.Request[api.ListExclusionsRequest]) (*connect.Response[api.ListExclusionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.store.ListExclusions(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListExclusions", err)
	}

	out := make([]*api.Exclusion, len(list))
	for i, e := range list {
		out[i] = toAPIExclusion(e)
	}
	return connect.NewResponse(&api.ListExclusionsResponse{Exclusions: out}), nil
}

// AddExclusion records a venue on the caller's exclusion list. Adding a venue
// that is already excluded refreshes its cached details.
func (s *ExclusionService) AddExclusion(ctx context.Context, req *connect.Request[api.AddExclusionRequest]) (*connect.Response[api.AddExclusionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddExclusion request received", "user_id", userID, "poi_type", req.Msg.POIType, "poi_id", req.Msg.POIID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}
	poiID, err := strconv.ParseInt(strings.TrimSpace(req.Msg.POIID), 10, 64)
	if err != nil {
		return nil, invalidArgument(fmt.Errorf("invalid poiid: %q is not numeric", req.Msg.POIID))
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		name = models.UnnamedVenue
	}

	e := &models.Exclusion{
		UserID:  userID,
		POIType: strings.TrimSpace(req.Msg.POIType),
		POIID:   poiID,
		Name:    name,
		Address: strings.TrimSpace(req.Msg.Address),
		Lat:     req.Msg.Lat,
		Lon:     req.Msg.Lon,
	}
	if err := s.store.UpsertExclusion(ctx, e); err != nil {
		return nil, toConnectError("AddExclusion", err)
	}

	slog.Info("Exclusion saved", "exclusion_id", e.ID)

	return connect.NewResponse(&api.AddExclusionResponse{Exclusion: toAPIExclusion(e)}), nil
}

// RemoveExclusion deletes one of the caller's exclusions. Another user's
// exclusion is reported as not found.
func (s *ExclusionService) RemoveExclusion(ctx context.Context, req *connect.Request[api.RemoveExclusionRequest]) (*connect.Response[api.RemoveExclusionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveExclusion request received", "user_id", userID, "exclusion_id", req.Msg.ExclusionID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	err = s.store.DeleteExclusion(ctx, req.Msg.ExclusionID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("exclusion not found"))
	}
	if err != nil {
		return nil, toConnectError("RemoveExclusion", err)
	}

	return connect.NewResponse(&api.RemoveExclusionResponse{}), nil
}
