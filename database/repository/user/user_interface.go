package userRepo

import (
	"context"

	"groundbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user profile data access.
type UserRepository interface {
	// GetByID retrieves a profile by its unique ID.
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	// GetByIDs retrieves the profiles with the given IDs, keyed by ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]models.UserProfile, error)
	// GetByEmail retrieves a profile by email. It returns nil, nil when none exists.
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	// GetAll retrieves all profiles, newest first.
	GetAll(ctx context.Context) ([]models.UserProfile, error)
	// Create inserts a new profile.
	Create(ctx context.Context, user *models.UserProfile) error
	// UpdateSetDocument applies a $set of the given fields to one profile.
	UpdateSetDocument(ctx context.Context, id string, set bson.M) error
}
