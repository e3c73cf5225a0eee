package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// ExclusionServiceName is the fully-qualified name of the ExclusionService.
const ExclusionServiceName = "lunchpicker.v1.ExclusionService"

// Procedure paths of the ExclusionService RPCs.
const (
	ExclusionServiceListExclusionsProcedure  = "/lunchpicker.v1.ExclusionService/ListExclusions"
	ExclusionServiceAddExclusionProcedure    = "/lunchpicker.v1.ExclusionService/AddExclusion"
	ExclusionServiceRemoveExclusionProcedure = "/lunchpicker.v1.ExclusionService/RemoveExclusion"
)

// ExclusionServiceHandler is implemented by the server side of the ExclusionService.
type ExclusionServiceHandler interface {
	ListExclusions(context.Context, *connect.Request[api.ListExclusionsRequest]) (*connect.Response[api.ListExclusionsResponse], error)
	AddExclusion(context.Context, *connect.Request[api.AddExclusionRequest]) (*connect.Response[api.AddExclusionResponse], error)
	RemoveExclusion(context.Context, *connect.Request[api.RemoveExclusionRequest]) (*connect.Response[api.RemoveExclusionResponse], error)
}

// NewExclusionServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it under.
func NewExclusionServiceHandler(svc ExclusionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExclusionServiceListExclusionsProcedure, connect.NewUnaryHandler(ExclusionServiceListExclusionsProcedure, svc.ListExclusions, opts...))
	mux.Handle(ExclusionServiceAddExclusionProcedure, connect.NewUnaryHandler(ExclusionServiceAddExclusionProcedure, svc.AddExclusion, opts...))
	mux.Handle(ExclusionServiceRemoveExclusionProcedure, connect.NewUnaryHandler(ExclusionServiceRemoveExclusionProcedure, svc.RemoveExclusion, opts...))
	return "/" + ExclusionServiceName + "/", mux
}

// ExclusionServiceClient is a client for the ExclusionService.
type ExclusionServiceClient struct {
	listExclusions  *connect.Client[api.ListExclusionsRequest, api.ListExclusionsResponse]
	addExclusion    *connect.Client[api.AddExclusionRequest, api.AddExclusionResponse]
	removeExclusion *connect.Client[api.RemoveExclusionRequest, api.RemoveExclusionResponse]
}

// NewExclusionServiceClient creates a client for the ExclusionService at baseURL.
func NewExclusionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExclusionServiceClient {
	opts = clientOptions(opts)
	return &ExclusionServiceClient{
		listExclusions:  connect.NewClient[api.ListExclusionsRequest, api.ListExclusionsResponse](httpClient, baseURL+ExclusionServiceListExclusionsProcedure, opts...),
		addExclusion:    connect.NewClient[api.AddExclusionRequest, api.AddExclusionResponse](httpClient, baseURL+ExclusionServiceAddExclusionProcedure, opts...),
		removeExclusion: connect.NewClient[api.RemoveExclusionRequest, api.RemoveExclusionResponse](httpClient, baseURL+ExclusionServiceRemoveExclusionProcedure, opts...),
	}
}

func (c *ExclusionServiceClient) ListExclusions(ctx context.Context, req *connect.Request[api.ListExclusionsRequest]) (*connect.Response[api.ListExclusionsResponse], error) {
	return c.listExclusions.CallUnary(ctx, req)
}

func (c *ExclusionServiceClient) AddExclusion(ctx context.Context, req *connect.Request[api.AddExclusionRequest]) (*connect.Response[api.AddExclusionResponse], error) {
	return c.addExclusion.CallUnary(ctx, req)
}

func (c *ExclusionServiceClient) RemoveExclusion(ctx context.Context, req *connect.Request[api.RemoveExclusionRequest]) (*connect.Response[api.RemoveExclusionResponse], error) {
	return c.removeExclusion.CallUnary(ctx, req)
}
