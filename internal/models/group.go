package models

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ErrCandidateNotFound is returned when a vote targets a candidate that is not in the group.
var ErrCandidateNotFound = errors.New("candidate not found")

// Role is a member's role within a group.
type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// Status is a member's participation status.
type Status string

const (
	StatusJoin    Status = "join"
	StatusNotJoin Status = "not_join"
)

// ValidStatus reports whether s is one of the accepted participation statuses.
func ValidStatus(s string) bool {
	return s == string(StatusJoin) || s == string(StatusNotJoin)
}

// normalizeStatus maps legacy or unknown values to StatusJoin.
func normalizeStatus(s Status) Status {
	if s == StatusNotJoin {
		return StatusNotJoin
	}
	return StatusJoin
}

// Group is the lunch session aggregate.
// Members, Announcements and Candidates are embedded and live and die with the group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id" bson:"_id"`

	// Name is the display name of the group (e.g., "Lunch Crew").
	Name string `json:"name" bson:"name"`

	// Code is the 5-character join code, unique across all groups.
	Code string `json:"code" bson:"code"`

	// OwnerID is the user who created the group. The owner is always the leader.
	OwnerID string `json:"ownerId" bson:"ownerId"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last successful write.
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`

	// Closed blocks new joins once set. It is never cleared.
	Closed bool `json:"closed" bson:"closed"`

	// VotingClosed blocks new or changed votes once set. It is never cleared.
	VotingClosed bool `json:"votingClosed" bson:"votingClosed"`

	// Members in join order.
	Members []Member `json:"members" bson:"members"`

	// Announcements in posting order. Append-only.
	Announcements []Announcement `json:"announcements" bson:"announcements"`

	// Candidates in proposal order.
	Candidates []Candidate `json:"candidates" bson:"candidates"`

	// Version is bumped by the store on every write and used as the optimistic lock.
	Version int64 `json:"version" bson:"version"`
}

// Member is a user's participation record within a group.
type Member struct {
	UserID string `json:"userId" bson:"userId"`

	// DisplayName is a snapshot taken at join time.
	DisplayName string `json:"displayName" bson:"displayName"`

	Role     Role   `json:"role" bson:"role"`
	Status   Status `json:"status" bson:"status"`
	JoinedAt int64  `json:"joinedAt" bson:"joinedAt"`
}

// Announcement is a message posted by the group owner.
type Announcement struct {
	ID        string `json:"id" bson:"id"`
	Content   string `json:"content" bson:"content"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// Candidate is a proposed venue that members vote on.
type Candidate struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	CreatedByID   string `json:"createdById" bson:"createdById"`
	CreatedByName string `json:"createdByName" bson:"createdByName"`
	CreatedAt     int64  `json:"createdAt" bson:"createdAt"`

	// Voters holds the IDs of members whose active vote is this candidate.
	Voters []string `json:"voters" bson:"voters"`
}

// HasVoter reports whether userID currently votes for this candidate.
func (c *Candidate) HasVoter(userID string) bool {
	return slices.Contains(c.Voters, userID)
}

// NewGroup creates a group with the creator as its sole member and leader.
func NewGroup(name, code string, owner *User) *Group {
	now := time.Now().Unix()
	return &Group{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      code,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
		Members: []Member{{
			UserID:      owner.ID,
			DisplayName: owner.Name(),
			Role:        RoleLeader,
			Status:      StatusJoin,
			JoinedAt:    now,
		}},
		Announcements: []Announcement{},
		Candidates:    []Candidate{},
	}
}

// Normalize repairs documents written by older versions: unknown statuses become
// StatusJoin, nil collections become empty and duplicate voters are collapsed.
func (g *Group) Normalize() {
	if g.Members == nil {
		g.Members = []Member{}
	}
	if g.Announcements == nil {
		g.Announcements = []Announcement{}
	}
	if g.Candidates == nil {
		g.Candidates = []Candidate{}
	}
	for i := range g.Members {
		g.Members[i].Status = normalizeStatus(g.Members[i].Status)
	}
	for i := range g.Candidates {
		c := &g.Candidates[i]
		if c.Voters == nil {
			c.Voters = []string{}
			continue
		}
		seen := make(map[string]struct{}, len(c.Voters))
		c.Voters = slices.DeleteFunc(c.Voters, func(id string) bool {
			if _, dup := seen[id]; dup {
				return true
			}
			seen[id] = struct{}{}
			return false
		})
	}
}

// Member returns the member entry for userID, or nil.
func (g *Group) Member(userID string) *Member {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	return g.Member(userID) != nil
}

// IsOwner reports whether userID created the group.
func (g *Group) IsOwner(userID string) bool {
	return g.OwnerID == userID
}

// IsLeader reports whether userID may administer other members:
// the owner, or any member holding the leader role.
func (g *Group) IsLeader(userID string) bool {
	if g.IsOwner(userID) {
		return true
	}
	m := g.Member(userID)
	return m != nil && m.Role == RoleLeader
}

// AddMember appends user as a regular member. Returns false if already a member.
func (g *Group) AddMember(user *User, now int64) bool {
	if g.IsMember(user.ID) {
		return false
	}
	g.Members = append(g.Members, Member{
		UserID:      user.ID,
		DisplayName: user.Name(),
		Role:        RoleMember,
		Status:      StatusJoin,
		JoinedAt:    now,
	})
	return true
}

// SetMemberStatus updates the participation status of userID.
// found is false if userID is not a member; changed is false if the status was already set.
func (g *Group) SetMemberStatus(userID string, status Status) (found, changed bool) {
	m := g.Member(userID)
	if m == nil {
		return false, false
	}
	if m.Status == status {
		return true, false
	}
	m.Status = status
	return true, true
}

// AddAnnouncement appends a new announcement and returns it.
func (g *Group) AddAnnouncement(content string, now int64) Announcement {
	a := Announcement{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: now,
	}
	g.Announcements = append(g.Announcements, a)
	return a
}

// AddCandidate appends a new candidate proposed by member and returns it.
func (g *Group) AddCandidate(name, address string, by *Member, now int64) Candidate {
	c := Candidate{
		ID:            uuid.New().String(),
		Name:          name,
		Address:       address,
		CreatedByID:   by.UserID,
		CreatedByName: by.DisplayName,
		CreatedAt:     now,
		Voters:        []string{},
	}
	g.Candidates = append(g.Candidates, c)
	return c
}

// Candidate returns the candidate with the given ID, or nil.
func (g *Group) Candidate(id string) *Candidate {
	for i := range g.Candidates {
		if g.Candidates[i].ID == id {
			return &g.Candidates[i]
		}
	}
	return nil
}

// VoteOf returns the ID of the candidate userID currently votes for, or "".
func (g *Group) VoteOf(userID string) string {
	for _, c := range g.Candidates {
		if c.HasVoter(userID) {
			return c.ID
		}
	}
	return ""
}

// CastVote moves userID's single vote to candidateID. An empty candidateID clears
// the vote. It reports whether any voter set changed; re-voting for the current
// choice changes nothing. The group is left untouched if candidateID is unknown.
func (g *Group) CastVote(userID, candidateID string) (bool, error) {
	if candidateID != "" && g.Candidate(candidateID) == nil {
		return false, ErrCandidateNotFound
	}

	changed := false
	for i := range g.Candidates {
		c := &g.Candidates[i]
		if c.ID == candidateID {
			continue
		}
		before := len(c.Voters)
		c.Voters = slices.DeleteFunc(c.Voters, func(id string) bool { return id == userID })
		if len(c.Voters) != before {
			changed = true
		}
	}

	if candidateID != "" {
		target := g.Candidate(candidateID)
		if !target.HasVoter(userID) {
			target.Voters = append(target.Voters, userID)
			changed = true
		}
	}

	return changed, nil
}
