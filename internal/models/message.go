package models

import "time"

// GroupMessage represents a chat message scoped to a travel group
type GroupMessage struct {
	ID            string    `json:"id" db:"id"`
	TravelGroupID string    `json:"travelGroupId" db:"travel_group_id"`
	SenderID      string    `json:"senderId" db:"sender_id"`
	Content       string    `json:"content" db:"content"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// MessageWithSender includes sender information for chat display
type MessageWithSender struct {
	ID            string          `json:"id"`
	TravelGroupID string          `json:"travelGroupId"`
	Content       string          `json:"content"`
	Sender        ProfileResponse `json:"sender"`
	CreatedAt     time.Time       `json:"createdAt"`
}
