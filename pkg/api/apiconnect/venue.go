package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// VenueServiceName is the fully-qualified name of the VenueService.
const VenueServiceName = "lunchpicker.v1.VenueService"

// Procedure paths of the VenueService RPCs.
const (
	VenueServiceSearchVenuesProcedure = "/lunchpicker.v1.VenueService/SearchVenues"
)

// VenueServiceHandler is implemented by the server side of the VenueService.
type VenueServiceHandler interface {
	SearchVenues(context.Context, *connect.Request[api.SearchVenuesRequest]) (*connect.Response[api.SearchVenuesResponse], error)
}

// NewVenueServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it under.
func NewVenueServiceHandler(svc VenueServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(VenueServiceSearchVenuesProcedure, connect.NewUnaryHandler(VenueServiceSearchVenuesProcedure, svc.SearchVenues, opts...))
	return "/" + VenueServiceName + "/", mux
}

// VenueServiceClient is a client for the VenueService.
type VenueServiceClient struct {
	searchVenues *connect.Client[api.SearchVenuesRequest, api.SearchVenuesResponse]
}

// NewVenueServiceClient creates a client for the VenueService at baseURL.
func NewVenueServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *VenueServiceClient {
	opts = clientOptions(opts)
	return &VenueServiceClient{
		searchVenues: connect.NewClient[api.SearchVenuesRequest, api.SearchVenuesResponse](httpClient, baseURL+VenueServiceSearchVenuesProcedure, opts...),
	}
}

func (c *VenueServiceClient) SearchVenues(ctx context.Context, req *connect.Request[api.SearchVenuesRequest]) (*connect.Response[api.SearchVenuesResponse], error) {
	return c.searchVenues.CallUnary(ctx, req)
}
