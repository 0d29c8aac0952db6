package models

import "time"

// Profile represents a user's identity and travel preferences
type Profile struct {
	ID              string    `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	FullName        string    `json:"fullName" db:"full_name"`
	Email           string    `json:"email" db:"email"`
	Password        string    `json:"-" db:"password_hash"` // Never expose in JSON
	AvatarURL       *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Bio             *string   `json:"bio,omitempty" db:"bio"`
	Location        *string   `json:"location,omitempty" db:"location"`
	Languages       []string  `json:"languages" db:"languages"`
	TravelInterests []string  `json:"travelInterests" db:"travel_interests"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileResponse is what we send to clients (without sensitive data)
type ProfileResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Languages       []string  `json:"languages"`
	TravelInterests []string  `json:"travelInterests"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToResponse converts Profile to ProfileResponse
func (p *Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		ID:              p.ID,
		Username:        p.Username,
		FullName:        p.FullName,
		AvatarURL:       p.AvatarURL,
		Bio:             p.Bio,
		Location:        p.Location,
		Languages:       p.Languages,
		TravelInterests: p.TravelInterests,
		CreatedAt:       p.CreatedAt,
	}
}
