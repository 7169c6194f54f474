package user

import (
	"context"
	"strings"

	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.Repo.GetByID(ctx, userID)
}

func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req ProfileUpdate) (*models.UserProfile, error) {
	first := strings.TrimSpace(req.FirstName)
	if first == "" {
		return nil, utils.ValidationError{Field: "first_name", Msg: "is required"}
	}
	set := bson.M{
		"first_name": first,
		"last_name":  strings.TrimSpace(req.LastName),
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, set); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateFCMToken stores the device token pushes are sent to. An empty token disables pushes.
func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	return s.Repo.UpdateSetDocument(ctx, userID, bson.M{"fcm_token": strings.TrimSpace(token)})
}

func (s *DefaultUserService) ListUsers(ctx context.Context, actor models.Identity) ([]models.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, utils.AuthorizationError{Action: "list users", Role: actor.Role.String()}
	}
	return s.Repo.GetAll(ctx)
}

// SetAdmin grants or revokes the admin flag. Admins cannot revoke their own flag.
func (s *DefaultUserService) SetAdmin(ctx context.Context, actor models.Identity, userID string, isAdmin bool) error {
	if !actor.IsAdmin() {
		return utils.AuthorizationError{Action: "change admin rights", Role: actor.Role.String()}
	}
	if actor.UserID == userID && !isAdmin {
		return utils.ValidationError{Field: "is_admin", Msg: "admins cannot revoke their own admin rights"}
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"is_admin": isAdmin}); err != nil {
		return err
	}
	utils.GetLogger().Info("Admin flag changed",
		zap.String("userID", userID),
		zap.Bool("isAdmin", isAdmin),
		zap.String("by", actor.UserID))
	return nil
}
