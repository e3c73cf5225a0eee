package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/metrics"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/storage"
	"github.com/lunchpicker/lunchpicker/internal/tally"
	"github.com/lunchpicker/lunchpicker/internal/validation"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

// maxWriteAttempts bounds how often a group mutation is recomputed after losing
// an optimistic-lock race.
const maxWriteAttempts = 10

// GroupService implements the Connect GroupService
type GroupService struct {
	store     storage.Store
	validator *validation.Validator
	metrics   *metrics.Metrics
	newCode   func() (string, error)
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, v *validation.Validator, m *metrics.Metrics) *GroupService {
	return &GroupService{
		store:     store,
		validator: v,
		metrics:   m,
		newCode:   generateGroupCode,
	}
}

// mutation edits a freshly loaded group in memory and reports whether it changed.
type mutation func(g *models.Group) (changed bool, err error)

// mutateGroup runs a read-modify-write cycle on a group. The write is skipped
// when fn reports no change, and the whole cycle is retried from a fresh read
// when another writer got in first.
func (s *GroupService) mutateGroup(ctx context.Context, groupID string, fn mutation) (*models.Group, error) {
	for attempt := 1; ; attempt++ {
		group, err := s.store.GetGroup(ctx, groupID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errGroupNotFound
		}
		if err != nil {
			return nil, err
		}

		changed, err := fn(group)
		if err != nil {
			return nil, err
		}
		if !changed {
			return group, nil
		}

		err = s.store.UpdateGroup(ctx, group)
		switch {
		case err == nil:
			return group, nil
		case errors.Is(err, storage.ErrNotFound):
			return nil, errGroupNotFound
		case errors.Is(err, storage.ErrVersionConflict) && attempt < maxWriteAttempts:
			s.metrics.WriteConflicts.Inc()
			slog.Debug("Group write conflict, retrying", "group_id", groupID, "attempt", attempt)
		default:
			return nil, err
		}
	}
}

// ownerOnly hides whether a group exists from callers who do not own it.
func ownerOnly(err error) error {
	if errors.Is(err, errGroupNotFound) {
		return errNotOwner
	}
	return err
}

// membersOnly hides whether a group exists from callers outside it.
func membersOnly(err error) error {
	if errors.Is(err, errGroupNotFound) {
		return errNotMember
	}
	return err
}

// CreateGroup creates a group with the caller as its leader.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	owner, err := loadCaller(ctx, s.store)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	group, err := s.createWithUniqueCode(ctx, strings.TrimSpace(req.Msg.Name), owner)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID, "code", group.Code, "owner_id", owner.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toGroupDetail(group, owner.ID),
	}), nil
}

// ListMyGroups returns the caller's groups, newest first.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[api.ListMyGroupsRequest]) (*connect.Response[api.ListMyGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListMyGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListMyGroups", err)
	}

	summaries := make([]*api.GroupSummary, len(groups))
	for i, g := range groups {
		summaries[i] = toGroupSummary(g, userID)
	}

	slog.Info("ListMyGroups successful", "count", len(summaries))

	return connect.NewResponse(&api.ListMyGroupsResponse{Groups: summaries}), nil
}

// GetGroup returns the member view of a group. Non-members get NotFound.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !group.IsMember(userID)) {
		return nil, toConnectError("GetGroup", errGroupNotFound)
	}
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toGroupDetail(group, userID)}), nil
}

// JoinGroup adds the caller to the open group with the given code. Joining a
// group one already belongs to succeeds without a write.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	slog.Info("JoinGroup request received", "code", req.Msg.Code)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	user, err := loadCaller(ctx, s.store)
	if err != nil {
		return nil, toConnectError("JoinGroup", err)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Msg.Code))
	found, err := s.store.GetGroupByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, toConnectError("JoinGroup", errGroupNotFound)
	}
	if err != nil {
		return nil, toConnectError("JoinGroup", err)
	}

	group, err := s.mutateGroup(ctx, found.ID, func(g *models.Group) (bool, error) {
		if g.Closed {
			return false, errGroupNotFound
		}
		return g.AddMember(user, time.Now().Unix()), nil
	})
	if err != nil {
		return nil, toConnectError("JoinGroup", err)
	}

	slog.Info("Group joined", "group_id", group.ID, "user_id", user.ID, "members", len(group.Members))

	return connect.NewResponse(&api.JoinGroupResponse{Group: toGroupDetail(group, user.ID)}), nil
}

// SetParticipation sets the caller's own participation status.
func (s *GroupService) SetParticipation(ctx context.Context, req *connect.Request[api.SetParticipationRequest]) (*connect.Response[api.SetParticipationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetParticipation request received", "group_id", req.Msg.GroupID, "status", req.Msg.Status)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		found, changed := g.SetMemberStatus(userID, models.Status(req.Msg.Status))
		if !found {
			return false, errGroupNotFound
		}
		return changed, nil
	})
	if err != nil {
		return nil, toConnectError("SetParticipation", err)
	}

	return connect.NewResponse(&api.SetParticipationResponse{Group: toGroupDetail(group, userID)}), nil
}

// SetMemberStatus lets the owner or a leader set another member's status.
func (s *GroupService) SetMemberStatus(ctx context.Context, req *connect.Request[api.SetMemberStatusRequest]) (*connect.Response[api.SetMemberStatusResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetMemberStatus request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"status", req.Msg.Status,
	)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		if !g.IsLeader(userID) {
			return false, errNotLeader
		}
		found, changed := g.SetMemberStatus(req.Msg.MemberID, models.Status(req.Msg.Status))
		if !found {
			return false, errMemberMissing
		}
		return changed, nil
	})
	if err != nil {
		return nil, toConnectError("SetMemberStatus", err)
	}

	return connect.NewResponse(&api.SetMemberStatusResponse{Group: toGroupDetail(group, userID)}), nil
}

// AddAnnouncement posts a message to the group. Owner only.
func (s *GroupService) AddAnnouncement(ctx context.Context, req *connect.Request[api.AddAnnouncementRequest]) (*connect.Response[api.AddAnnouncementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddAnnouncement request received", "group_id", req.Msg.GroupID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	var posted models.Announcement
	_, err = s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		if !g.IsOwner(userID) {
			return false, errNotOwner
		}
		posted = g.AddAnnouncement(strings.TrimSpace(req.Msg.Content), time.Now().Unix())
		return true, nil
	})
	if err != nil {
		return nil, toConnectError("AddAnnouncement", ownerOnly(err))
	}

	slog.Info("Announcement added", "group_id", req.Msg.GroupID, "announcement_id", posted.ID)

	return connect.NewResponse(&api.AddAnnouncementResponse{Announcement: toAPIAnnouncement(posted)}), nil
}

// AddCandidate proposes a venue. Any member may do so, even after voting closed.
func (s *GroupService) AddCandidate(ctx context.Context, req *connect.Request[api.AddCandidateRequest]) (*connect.Response[api.AddCandidateResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddCandidate request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	var added models.Candidate
	_, err = s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		m := g.Member(userID)
		if m == nil {
			return false, errNotMember
		}
		added = g.AddCandidate(strings.TrimSpace(req.Msg.Name), strings.TrimSpace(req.Msg.Address), m, time.Now().Unix())
		return true, nil
	})
	if err != nil {
		return nil, toConnectError("AddCandidate", membersOnly(err))
	}

	views, _ := tally.Compute([]models.Candidate{added}, userID)

	slog.Info("Candidate added", "group_id", req.Msg.GroupID, "candidate_id", added.ID)

	return connect.NewResponse(&api.AddCandidateResponse{Candidate: toAPICandidate(views[0])}), nil
}

// CloseGroup stops further joins. Owner only; there is no way to reopen.
func (s *GroupService) CloseGroup(ctx context.Context, req *connect.Request[api.CloseGroupRequest]) (*connect.Response[api.CloseGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CloseGroup request received", "group_id", req.Msg.GroupID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		if !g.IsOwner(userID) {
			return false, errNotOwner
		}
		if g.Closed {
			return false, nil
		}
		g.Closed = true
		return true, nil
	})
	if err != nil {
		return nil, toConnectError("CloseGroup", ownerOnly(err))
	}

	slog.Info("Group closed", "group_id", group.ID)

	return connect.NewResponse(&api.CloseGroupResponse{Group: toGroupDetail(group, userID)}), nil
}

// CloseVoting freezes the vote state. Owner only; there is no way to reopen.
func (s *GroupService) CloseVoting(ctx context.Context, req *connect.Request[api.CloseVotingRequest]) (*connect.Response[api.CloseVotingResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CloseVoting request received", "group_id", req.Msg.GroupID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		if !g.IsOwner(userID) {
			return false, errNotOwner
		}
		if g.VotingClosed {
			return false, nil
		}
		g.VotingClosed = true
		return true, nil
	})
	if err != nil {
		return nil, toConnectError("CloseVoting", ownerOnly(err))
	}

	slog.Info("Voting closed", "group_id", group.ID)

	return connect.NewResponse(&api.CloseVotingResponse{Group: toGroupDetail(group, userID)}), nil
}

// DeleteGroup removes a group and everything embedded in it. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !group.IsOwner(userID)) {
		return nil, toConnectError("DeleteGroup", errNotOwner)
	}
	if err != nil {
		return nil, toConnectError("DeleteGroup", err)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, toConnectError("DeleteGroup", err)
	}

	slog.Info("Group deleted", "group_id", group.ID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// Vote moves the caller's single vote to the requested candidate, or clears it
// when no candidate is given. Re-voting for the current choice writes nothing.
func (s *GroupService) Vote(ctx context.Context, req *connect.Request[api.VoteRequest]) (*connect.Response[api.VoteResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	// A missing or empty id withdraws the vote. Anything else must name a candidate.
	var candidateID string
	if req.Msg.CandidateID != nil {
		candidateID = *req.Msg.CandidateID
	}
	slog.Info("Vote request received", "group_id", req.Msg.GroupID, "candidate_id", candidateID)

	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, invalidArgument(err)
	}

	var changed bool
	group, err := s.mutateGroup(ctx, req.Msg.GroupID, func(g *models.Group) (bool, error) {
		if !g.IsMember(userID) {
			return false, errGroupNotFound
		}
		if g.VotingClosed {
			return false, errVotingClosed
		}
		var err error
		changed, err = g.CastVote(userID, candidateID)
		return changed, err
	})
	if err != nil {
		return nil, toConnectError("Vote", err)
	}

	if changed {
		s.metrics.VotesCast.Inc()
	}
	slog.Info("Vote recorded", "group_id", group.ID, "user_id", userID, "changed", changed)

	return connect.NewResponse(&api.VoteResponse{Group: toGroupDetail(group, userID)}), nil
}
