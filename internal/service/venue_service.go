package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/discovery"
	"github.com/lunchpicker/lunchpicker/internal/metrics"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// VenueService searches for lunch venues near the caller.
type VenueService struct {
	finder  *discovery.Finder
	metrics *metrics.Metrics
}

func NewVenueService(finder *discovery.Finder, m *metrics.Metrics) *VenueService {
	return &VenueService{finder: finder, metrics: m}
}

// SearchVenues returns nearby venues sorted by distance, flagging the caller's
// exclusions. Bad coordinates are rejected before the POI source is contacted.
func (s *VenueService) SearchVenues(ctx context.Context, req *connect.Request[api.SearchVenuesRequest]) (*connect.Response[api.SearchVenuesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	params, err := discovery.ParseParams(req.Msg.Lat, req.Msg.Lon, req.Msg.Radius, req.Msg.Cuisine)
	if err != nil {
		return nil, invalidArgument(err)
	}
	slog.Info("SearchVenues request received",
		"user_id", userID,
		"lat", params.Lat,
		"lon", params.Lon,
		"radius", params.Radius,
		"cuisine", params.Cuisine,
	)

	venues, err := s.finder.Search(ctx, userID, params)
	if err != nil {
		if errors.Is(err, overpass.ErrUpstream) {
			s.metrics.UpstreamErrors.Inc()
		}
		return nil, toConnectError("SearchVenues", err)
	}

	out := make([]*api.Venue, len(venues))
	for i, v := range venues {
		out[i] = toAPIVenue(v)
	}

	slog.Info("SearchVenues successful", "results", len(out))

	return connect.NewResponse(&api.SearchVenuesResponse{Venues: out, Radius: params.Radius}), nil
}
