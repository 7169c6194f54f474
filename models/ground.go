package models

import "time"

// Ground is a bookable cricket venue.
type Ground struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Location      string    `bson:"location" json:"location"`
	Address       string    `bson:"address" json:"address"`
	PricePerHour  float64   `bson:"price_per_hour" json:"price_per_hour"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImagePublicID string    `bson:"image_public_id,omitempty" json:"-"`
	Latitude      *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	OwnerID       string    `bson:"owner_id" json:"owner_id"`
	IsFeatured    bool      `bson:"is_featured" json:"is_featured"`
	Amenities     []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// GroundInput carries the admin-editable fields of a ground.
type GroundInput struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Address      string   `json:"address"`
	PricePerHour float64  `json:"price_per_hour"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	IsFeatured   bool     `json:"is_featured"`
	Amenities    []string `json:"amenities"`
}

// SlotAvailability is one standard slot on a given date.
type SlotAvailability struct {
	Label     string  `json:"label"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// GroundAvailability lists the standard slots of a ground on one date.
type GroundAvailability struct {
	GroundID         string             `json:"ground_id"`
	Date             string             `json:"date"`
	Slots            []SlotAvailability `json:"slots"`
	AvailableSlots   []string           `json:"available_slots"`
	UnavailableSlots []string           `json:"unavailable_slots"`
}
