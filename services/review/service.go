package review

import (
	"context"
	"strings"
	"time"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/utils"

	"github.com/google/uuid"
)

// ReviewService handles ground ratings.
type ReviewService interface {
	SubmitReview(ctx context.Context, userID, groundID string, rating int, comment string) (*models.Review, error)
	ListGroundReviews(ctx context.Context, groundID string) ([]models.Review, error)
	AverageRating(ctx context.Context, groundID string) (models.RatingSummary, error)
}

// GroundChecker confirms a ground exists before it is reviewed.
type GroundChecker interface {
	GetByID(ctx context.Context, id string) (*models.Ground, error)
}

type DefaultReviewService struct {
	Repo    repository.ReviewRepository
	Users   repository.UserRepository
	Grounds GroundChecker
}

// SubmitReview stores the user's rating, replacing any earlier review of the same ground.
func (s *DefaultReviewService) SubmitReview(ctx context.Context, userID, groundID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	if _, err := s.Grounds.GetByID(ctx, groundID); err != nil {
		return nil, err
	}

	r := &models.Review{
		ID:        uuid.New().String(),
		GroundID:  groundID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		UpdatedAt: time.Now().UTC(),
	}
	// On a resubmission the store keeps the original id and created_at and writes them back into r.
	if err := s.Repo.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListGroundReviews returns reviews newest first with the reviewers' names filled in.
func (s *DefaultReviewService) ListGroundReviews(ctx context.Context, groundID string) ([]models.Review, error) {
	reviews, err := s.Repo.ListByGround(ctx, groundID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 || s.Users == nil {
		return reviews, nil
	}

	ids := make([]string, 0, len(reviews))
	seen := map[string]bool{}
	for _, r := range reviews {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	profiles, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if p, ok := profiles[reviews[i].UserID]; ok {
			reviews[i].ReviewerFirstName = p.FirstName
			reviews[i].ReviewerLastName = p.LastName
		}
	}
	return reviews, nil
}

func (s *DefaultReviewService) AverageRating(ctx context.Context, groundID string) (models.RatingSummary, error) {
	return s.Repo.Summary(ctx, groundID)
}
