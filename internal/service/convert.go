package service

import (
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/tally"
	"github.com/lunchpicker/lunchpicker/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name(),
		CreatedAt: u.CreatedAt,
	}
}

func toGroupSummary(g *models.Group, viewerID string) *api.GroupSummary {
	summary := &api.GroupSummary{
		ID:           g.ID,
		Name:         g.Name,
		Code:         g.Code,
		OwnerID:      g.OwnerID,
		MemberCount:  len(g.Members),
		Closed:       g.Closed,
		VotingClosed: g.VotingClosed,
		CreatedAt:    g.CreatedAt,
	}
	if m := g.Member(viewerID); m != nil {
		summary.Role = string(m.Role)
	}
	return summary
}

// toGroupDetail renders the member view of g, with tallies computed for viewerID.
func toGroupDetail(g *models.Group, viewerID string) *api.GroupDetail {
	views, total := tally.Compute(g.Candidates, viewerID)

	detail := &api.GroupDetail{
		ID:            g.ID,
		Name:          g.Name,
		Code:          g.Code,
		OwnerID:       g.OwnerID,
		MyVote:        g.VoteOf(viewerID),
		Closed:        g.Closed,
		VotingClosed:  g.VotingClosed,
		MemberCount:   len(g.Members),
		TotalVotes:    total,
		Members:       make([]*api.Member, len(g.Members)),
		Announcements: make([]*api.Announcement, len(g.Announcements)),
		Candidates:    make([]*api.Candidate, len(views)),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
		Version:       g.Version,
	}
	if m := g.Member(viewerID); m != nil {
		detail.MyRole = string(m.Role)
	}

	for i, m := range g.Members {
		detail.Members[i] = &api.Member{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Role:        string(m.Role),
			Status:      string(m.Status),
			JoinedAt:    m.JoinedAt,
		}
	}
	for i, a := range g.Announcements {
		detail.Announcements[i] = toAPIAnnouncement(a)
	}
	for i, v := range views {
		detail.Candidates[i] = toAPICandidate(v)
	}
	return detail
}

func toAPIAnnouncement(a models.Announcement) *api.Announcement {
	return &api.Announcement{ID: a.ID, Content: a.Content, CreatedAt: a.CreatedAt}
}

func toAPICandidate(v tally.CandidateView) *api.Candidate {
	return &api.Candidate{
		ID:            v.ID,
		Name:          v.Name,
		Address:       v.Address,
		CreatedByName: v.CreatedByName,
		CreatedAt:     v.CreatedAt,
		VoteCount:     v.VoteCount,
		Percent:       v.Percent,
		HasMyVote:     v.HasMyVote,
	}
}

func toAPIExclusion(e *models.Exclusion) *api.Exclusion {
	return &api.Exclusion{
		ID:        e.ID,
		POIType:   e.POIType,
		POIID:     e.POIID,
		Name:      e.Name,
		Address:   e.Address,
		Lat:       e.Lat,
		Lon:       e.Lon,
		CreatedAt: e.CreatedAt,
	}
}

func toAPIVenue(v models.Venue) *api.Venue {
	return &api.Venue{
		POIType:     v.POIType,
		POIID:       v.POIID,
		Name:        v.Name,
		Address:     v.Address,
		Lat:         v.Lat,
		Lon:         v.Lon,
		Category:    v.Category,
		Cuisine:     v.Cuisine,
		Distance:    v.Distance,
		IsExcluded:  v.IsExcluded,
		ExclusionID: v.ExclusionID,
	}
}
