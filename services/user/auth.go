package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"groundbook/config"
	"groundbook/models"
	"groundbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = utils.AuthenticationError{Msg: "invalid email or password"}

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[\W_]`)
)

// verifyPasswordComplexity checks that the password contains at least one lowercase letter,
// one uppercase letter, one digit, and one symbol.
func verifyPasswordComplexity(pw string) error {
	fail := func(msg string) error { return utils.ValidationError{Field: "password", Msg: msg} }
	switch {
	case len(pw) < 8:
		return fail("must be at least 8 characters long")
	case !upperRe.MatchString(pw):
		return fail("must include at least one uppercase letter")
	case !lowerRe.MatchString(pw):
		return fail("must include at least one lowercase letter")
	case !numberRe.MatchString(pw):
		return fail("must include at least one number")
	case !symbolRe.MatchString(pw):
		return fail("must include at least one symbol")
	}
	return nil
}

func normaliseEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", utils.ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	return email, nil
}

// Register creates a non-admin profile and signs the new user in.
func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email, err := normaliseEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, utils.ValidationError{Field: "first_name", Msg: "is required"}
	}
	if err := verifyPasswordComplexity(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, utils.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.UserProfile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsAdmin:      false,
	}
	if err := s.Repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("User registered", zap.String("userID", profile.ID))

	return s.issue(ctx, profile)
}

// Login verifies the password and opens a new session.
func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if profile == nil {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return s.issue(ctx, profile)
}

// issue signs a token for a fresh session and records the token hash in the session store.
func (s *DefaultUserService) issue(ctx context.Context, profile *models.UserProfile) (*AuthResponse, error) {
	ttl := config.JWTTTL()
	sessionID := uuid.New().String()

	token, err := utils.GenerateToken(profile.ID, profile.Email, sessionID, ttl)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	now := time.Now()
	sess := Session{UserID: profile.ID, TokenHash: utils.HashToken(token), CreatedAt: now.UTC()}
	if err := s.Sessions.Save(ctx, sessionID, sess, ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &AuthResponse{
		ID:        profile.ID,
		Token:     token,
		ExpiresAt: now.Add(ttl).Unix(),
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		IsAdmin:   profile.IsAdmin,
	}, nil
}

func (s *DefaultUserService) Logout(ctx context.Context, id models.Identity) error {
	if id.SessionID == "" {
		return utils.AuthenticationError{}
	}
	return s.Sessions.Delete(ctx, id.SessionID)
}

// Refresh issues a new token and revokes the one the caller presented.
func (s *DefaultUserService) Refresh(ctx context.Context, id models.Identity) (*AuthResponse, error) {
	profile, err := s.Repo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Delete(ctx, id.SessionID); err != nil {
		utils.GetLogger().Warn("Refresh: failed to revoke previous session", zap.String("userID", id.UserID), zap.Error(err))
	}
	return resp, nil
}

// Authenticate checks the token signature, that its session is still live and
// bound to this exact token, then resolves the caller's role.
func (s *DefaultUserService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := utils.ExtractClaims(token)
	if err != nil {
		return models.Identity{}, utils.AuthenticationError{Msg: "invalid or expired token"}
	}

	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return models.Identity{}, utils.AuthenticationError{Msg: "session expired or revoked"}
		}
		return models.Identity{}, err
	}
	if sess.UserID != claims.Subject || sess.TokenHash != utils.HashToken(token) {
		return models.Identity{}, utils.AuthenticationError{Msg: "session does not match token"}
	}

	return models.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      s.ResolveRole(ctx, claims.Subject),
		SessionID: claims.SessionID,
	}, nil
}

func (s *DefaultUserService) ResolveRole(ctx context.Context, userID string) models.Role {
	profile, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("Role lookup failed, treating caller as unknown", zap.String("userID", userID), zap.Error(err))
		return models.RoleUnknown
	}
	return models.RoleFromProfile(profile)
}
