package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "lunchpicker.v1.GroupService"

// Procedure paths of the GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure      = "/lunchpicker.v1.GroupService/CreateGroup"
	GroupServiceListMyGroupsProcedure     = "/lunchpicker.v1.GroupService/ListMyGroups"
	GroupServiceGetGroupProcedure         = "/lunchpicker.v1.GroupService/GetGroup"
	GroupServiceJoinGroupProcedure        = "/lunchpicker.v1.GroupService/JoinGroup"
	GroupServiceSetParticipationProcedure = "/lunchpicker.v1.GroupService/SetParticipation"
	GroupServiceAddAnnouncementProcedure  = "/lunchpicker.v1.GroupService/AddAnnouncement"
	GroupServiceAddCandidateProcedure     = "/lunchpicker.v1.GroupService/AddCandidate"
	GroupServiceCloseGroupProcedure       = "/lunchpicker.v1.GroupService/CloseGroup"
	GroupServiceDeleteGroupProcedure      = "/lunchpicker.v1.GroupService/DeleteGroup"
	GroupServiceVoteProcedure             = "/lunchpicker.v1.GroupService/Vote"
	GroupServiceCloseVotingProcedure      = "/lunchpicker.v1.GroupService/CloseVoting"
	GroupServiceSetMemberStatusProcedure  = "/lunchpicker.v1.GroupService/SetMemberStatus"
)

// GroupServiceHandler is implemented by the server side of the GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListMyGroups(context.Context, *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	SetParticipation(context.Context, *connect.Request[api.SetParticipationRequest]) (*connect.Response[api.SetParticipationResponse], error)
	AddAnnouncement(context.Context, *connect.Request[api.AddAnnouncementRequest]) (*connect.Response[api.AddAnnouncementResponse], error)
	AddCandidate(context.Context, *connect.Request[api.AddCandidateRequest]) (*connect.Response[api.AddCandidateResponse], error)
	CloseGroup(context.Context, *connect.Request[api.CloseGroupRequest]) (*connect.Response[api.CloseGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	Vote(context.Context, *connect.Request[api.VoteRequest]) (*connect.Response[api.VoteResponse], error)
	CloseVoting(context.Context, *connect.Request[api.CloseVotingRequest]) (*connect.Response[api.CloseVotingResponse], error)
	SetMemberStatus(context.Context, *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it under.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceListMyGroupsProcedure, connect.NewUnaryHandler(GroupServiceListMyGroupsProcedure, svc.ListMyGroups, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceJoinGroupProcedure, connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...))
	mux.Handle(GroupServiceSetParticipationProcedure, connect.NewUnaryHandler(GroupServiceSetParticipationProcedure, svc.SetParticipation, opts...))
	mux.Handle(GroupServiceAddAnnouncementProcedure, connect.NewUnaryHandler(GroupServiceAddAnnouncementProcedure, svc.AddAnnouncement, opts...))
	mux.Handle(GroupServiceAddCandidateProcedure, connect.NewUnaryHandler(GroupServiceAddCandidateProcedure, svc.AddCandidate, opts...))
	mux.Handle(GroupServiceCloseGroupProcedure, connect.NewUnaryHandler(GroupServiceCloseGroupProcedure, svc.CloseGroup, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceVoteProcedure, connect.NewUnaryHandler(GroupServiceVoteProcedure, svc.Vote, opts...))
	mux.Handle(GroupServiceCloseVotingProcedure, connect.NewUnaryHandler(GroupServiceCloseVotingProcedure, svc.CloseVoting, opts...))
	mux.Handle(GroupServiceSetMemberStatusProcedure, connect.NewUnaryHandler(GroupServiceSetMemberStatusProcedure, svc.SetMemberStatus, opts...))
	return "/" + GroupServiceName + "/", mux
}

// GroupServiceClient is a client for the GroupService.
type GroupServiceClient struct {
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	listMyGroups     *connect.Client[api.ListMyGroupsRequest, api.ListMyGroupsResponse]
	getGroup         *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	joinGroup        *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	setParticipation *connect.Client[api.SetParticipationRequest, api.SetParticipationResponse]
	addAnnouncement  *connect.Client[api.AddAnnouncementRequest, api.AddAnnouncementResponse]
	addCandidate     *connect.Client[api.AddCandidateRequest, api.AddCandidateResponse]
	closeGroup       *connect.Client[api.CloseGroupRequest, api.CloseGroupResponse]
	deleteGroup      *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	vote             *connect.Client[api.VoteRequest, api.VoteResponse]
	closeVoting      *connect.Client[api.CloseVotingRequest, api.CloseVotingResponse]
	setMemberStatus  *connect.Client[api.SetMemberStatusRequest, api.SetMemberStatusResponse]
}

// NewGroupServiceClient creates a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup:      connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		listMyGroups:     connect.NewClient[api.ListMyGroupsRequest, api.ListMyGroupsResponse](httpClient, baseURL+GroupServiceListMyGroupsProcedure, opts...),
		getGroup:         connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		joinGroup:        connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		setParticipation: connect.NewClient[api.SetParticipationRequest, api.SetParticipationResponse](httpClient, baseURL+GroupServiceSetParticipationProcedure, opts...),
		addAnnouncement:  connect.NewClient[api.AddAnnouncementRequest, api.AddAnnouncementResponse](httpClient, baseURL+GroupServiceAddAnnouncementProcedure, opts...),
		addCandidate:     connect.NewClient[api.AddCandidateRequest, api.AddCandidateResponse](httpClient, baseURL+GroupServiceAddCandidateProcedure, opts...),
		closeGroup:       connect.NewClient[api.CloseGroupRequest, api.CloseGroupResponse](httpClient, baseURL+GroupServiceCloseGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		vote:             connect.NewClient[api.VoteRequest, api.VoteResponse](httpClient, baseURL+GroupServiceVoteProcedure, opts...),
		closeVoting:      connect.NewClient[api.CloseVotingRequest, api.CloseVotingResponse](httpClient, baseURL+GroupServiceCloseVotingProcedure, opts...),
		setMemberStatus:  connect.NewClient[api.SetMemberStatusRequest, api.SetMemberStatusResponse](httpClient, baseURL+GroupServiceSetMemberStatusProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	return c.listMyGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SetParticipation(ctx context.Context, req *connect.Request[api.SetParticipationRequest]) (*connect.Response[api.SetParticipationResponse], error) {
	return c.setParticipation.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddAnnouncement(ctx context.Context, req *connect.Request[api.AddAnnouncementRequest]) (*connect.Response[api.AddAnnouncementResponse], error) {
	return c.addAnnouncement.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddCandidate(ctx context.Context, req *connect.Request[api.AddCandidateRequest]) (*connect.Response[api.AddCandidateResponse], error) {
	return c.addCandidate.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CloseGroup(ctx context.Context, req *connect.Request[api.CloseGroupRequest]) (*connect.Response[api.CloseGroupResponse], error) {
	return c.closeGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) Vote(ctx context.Context, req *connect.Request[api.VoteRequest]) (*connect.Response[api.VoteResponse], error) {
	return c.vote.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CloseVoting(ctx context.Context, req *connect.Request[api.CloseVotingRequest]) (*connect.Response[api.CloseVotingResponse], error) {
	return c.closeVoting.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SetMemberStatus(ctx context.Context, req *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error) {
	return c.setMemberStatus.CallUnary(ctx, req)
}
