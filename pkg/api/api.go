// Package api defines the request and response messages of the lunchpicker RPC
// services. Messages are plain structs carried as JSON; see package apiconnect.
package api

// User is the public view of an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=100"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type MeRequest struct{}

type MeResponse struct {
	User *User `json:"user"`
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname" validate:"notblank,max=100"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// GroupSummary is a row of the caller's group listing.
type GroupSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	OwnerID      string `json:"ownerId"`
	Role         string `json:"role"`
	MemberCount  int    `json:"memberCount"`
	Closed       bool   `json:"closed"`
	VotingClosed bool   `json:"votingClosed"`
	CreatedAt    int64  `json:"createdAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	JoinedAt    int64  `json:"joinedAt"`
}

type Announcement struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

// Candidate carries the tally computed for the requesting member.
type Candidate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	CreatedByName string `json:"createdByName"`
	CreatedAt     int64  `json:"createdAt"`
	VoteCount     int    `json:"voteCount"`
	Percent       int    `json:"percent"`
	HasMyVote     bool   `json:"hasMyVote"`
}

// GroupDetail is the member-only view of a group.
type GroupDetail struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	OwnerID       string          `json:"ownerId"`
	MyRole        string          `json:"myRole"`
	MyVote        string          `json:"myVote,omitempty"`
	Closed        bool            `json:"closed"`
	VotingClosed  bool            `json:"votingClosed"`
	MemberCount   int             `json:"memberCount"`
	TotalVotes    int             `json:"totalVotes"`
	Members       []*Member       `json:"members"`
	Announcements []*Announcement `json:"announcements"`
	Candidates    []*Candidate    `json:"candidates"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
	Version       int64           `json:"version"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type CreateGroupResponse struct {
	Group *GroupDetail `json:"group"`
}

type ListMyGroupsRequest struct{}

type ListMyGroupsResponse struct {
	Groups []*GroupSummary `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group *GroupDetail `json:"group"`
}

type JoinGroupRequest struct {
	Code string `json:"code" validate:"notblank"`
}

type JoinGroupResponse struct {
	Group *GroupDetail `json:"group"`
}

type SetParticipationRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Status  string `json:"status" validate:"oneof=join not_join"`
}

type SetParticipationResponse struct {
	Group *GroupDetail `json:"group"`
}

type AddAnnouncementRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Content string `json:"content" validate:"notblank,max=2000"`
}

type AddAnnouncementResponse struct {
	Announcement *Announcement `json:"announcement"`
}

type AddCandidateRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Name    string `json:"name" validate:"notblank,max=200"`
	Address string `json:"address" validate:"max=500"`
}

type AddCandidateResponse struct {
	Candidate *Candidate `json:"candidate"`
}

type CloseGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type CloseGroupResponse struct {
	Group *GroupDetail `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type DeleteGroupResponse struct{}

// VoteRequest moves the caller's vote to CandidateID. A nil or empty
// CandidateID clears the vote.
type VoteRequest struct {
	GroupID     string  `json:"groupId" validate:"required"`
	CandidateID *string `json:"candidateId"`
}

type VoteResponse struct {
	Group *GroupDetail `json:"group"`
}

type CloseVotingRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type CloseVotingResponse struct {
	Group *GroupDetail `json:"group"`
}

type SetMemberStatusRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
	Status   string `json:"status" validate:"oneof=join not_join"`
}

type SetMemberStatusResponse struct {
	Group *GroupDetail `json:"group"`
}

type Exclusion struct {
	ID        string   `json:"id"`
	POIType   string   `json:"poiType"`
	POIID     int64    `json:"poiId"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	CreatedAt int64    `json:"createdAt"`
}

type ListExclusionsRequest struct{}

type ListExclusionsResponse struct {
	Exclusions []*Exclusion `json:"exclusions"`
}

// AddExclusionRequest takes poiId as a string since clients pass it through
// from search results and URLs.
type AddExclusionRequest struct {
	POIType string   `json:"poiType" validate:"notblank"`
	POIID   string   `json:"poiId" validate:"required"`
	Name    string   `json:"name" validate:"max=200"`
	Address string   `json:"address" validate:"max=500"`
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon     *float64 `json:"lon" validate:"omitempty,longitude"`
}

type AddExclusionResponse struct {
	Exclusion *Exclusion `json:"exclusion"`
}

type RemoveExclusionRequest struct {
	ExclusionID string `json:"exclusionId" validate:"required"`
}

type RemoveExclusionResponse struct{}

// SearchVenuesRequest carries raw strings; coordinates are validated and the
// radius is clamped by the service.
type SearchVenuesRequest struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Radius  string `json:"radius"`
	Cuisine string `json:"cuisine"`
}

type Venue struct {
	POIType     string  `json:"poiType"`
	POIID       int64   `json:"poiId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Category    string  `json:"category"`
	Cuisine     string  `json:"cuisine,omitempty"`
	Distance    float64 `json:"distance"`
	IsExcluded  bool    `json:"isExcluded"`
	ExclusionID string  `json:"exclusionId,omitempty"`
}

type SearchVenuesResponse struct {
	Venues []*Venue `json:"venues"`
	Radius int      `json:"radius"`
}
