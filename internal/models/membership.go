package models

import "time"

// MemberStatus is the state of a (profile, group) membership.
type MemberStatus string

const (
	// StatusNone is the implicit state when no membership row exists.
	StatusNone     MemberStatus = ""
	StatusPending  MemberStatus = "pending"
	StatusAccepted MemberStatus = "accepted"
	StatusRejected MemberStatus = "rejected"
)

// Valid reports whether s is a persistable membership status.
func (s MemberStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// transitions is the exhaustive table of allowed status changes.
// StatusNone as target means the row is deleted (leave/remove).
var transitions = map[MemberStatus][]MemberStatus{
	StatusNone:     {StatusPending},
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusRejected: {StatusPending},
	StatusAccepted: {StatusNone},
}

// CanTransition reports whether a membership may move from s to target.
func (s MemberStatus) CanTransition(target MemberStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// GroupMember represents a user's membership in a travel group
type GroupMember struct {
	ID            string       `json:"id" db:"id"`
	TravelGroupID string       `json:"travelGroupId" db:"travel_group_id"`
	ProfileID     string       `json:"profileId" db:"profile_id"`
	Status        MemberStatus `json:"status" db:"status"`
	JoinedAt      time.Time    `json:"joinedAt" db:"joined_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// MemberWithProfile includes the member's profile information
type MemberWithProfile struct {
	ID       string          `json:"id"`
	Status   MemberStatus    `json:"status"`
	JoinedAt time.Time       `json:"joinedAt"`
	Profile  ProfileResponse `json:"profile"`
}
