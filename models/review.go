package models

import "time"

// Review is one user's rating of a ground. A user has at most one review per ground.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	GroundID  string    `bson:"ground_id" json:"ground_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	ReviewerFirstName string `bson:"-" json:"reviewer_first_name,omitempty"`
	ReviewerLastName  string `bson:"-" json:"reviewer_last_name,omitempty"`
}

// RatingSummary aggregates the reviews of a ground.
type RatingSummary struct {
	GroundID string  `json:"ground_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}
