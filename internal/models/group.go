package models

import "time"

// TravelGroup represents a planned trip that users can join
type TravelGroup struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Destination     string    `json:"destination" db:"destination"`
	StartDate       time.Time `json:"startDate" db:"start_date"`
	EndDate         time.Time `json:"endDate" db:"end_date"`
	BudgetRange     *string   `json:"budgetRange,omitempty" db:"budget_range"`
	ImageURL        *string   `json:"imageUrl,omitempty" db:"image_url"`
	MaxParticipants int       `json:"maxParticipants" db:"max_participants"`
	CreatorID       string    `json:"creatorId" db:"creator_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// GroupWithDetails includes creator info, tags and the caller's membership
// status for group listing and detail pages
type GroupWithDetails struct {
	TravelGroup
	Creator       ProfileResponse `json:"creator"`
	Tags          []string        `json:"tags"`
	AcceptedCount int             `json:"acceptedCount"`
	MemberStatus  *MemberStatus   `json:"memberStatus,omitempty"`
	IsCreator     bool            `json:"isCreator"`
}

// GroupFilter narrows down group listings
type GroupFilter struct {
	Destination string
	StartAfter  *time.Time
	EndBefore   *time.Time
	Budget      string
	Limit       int
	Offset      int
}
