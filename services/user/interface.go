package user

import (
	"context"

	"groundbook/database/repository"
	"groundbook/models"
)

type UserService interface {
	// Sessions
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, id models.Identity) error
	Refresh(ctx context.Context, id models.Identity) (*AuthResponse, error)
	// Authenticate turns a bearer token into the caller's Identity.
	Authenticate(ctx context.Context, token string) (models.Identity, error)
	// ResolveRole never fails: anything short of a loaded profile is RoleUnknown.
	ResolveRole(ctx context.Context, userID string) models.Role

	// Profile
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req ProfileUpdate) (*models.UserProfile, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error

	// Admin
	ListUsers(ctx context.Context, actor models.Identity) ([]models.UserProfile, error)
	SetAdmin(ctx context.Context, actor models.Identity, userID string, isAdmin bool) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     repository.UserRepository
	Sessions SessionStore
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileUpdate carries the user-editable profile fields.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}
