package review

import (
	"context"
	"testing"

	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type memReviews struct {
	byKey map[string]models.Review
	order []string
}

func (m *memReviews) Upsert(_ context.Context, r *models.Review) error {
	key := r.GroundID + "/" + r.UserID
	if prev, ok := m.byKey[key]; ok {
		r.ID = prev.ID
		r.CreatedAt = prev.CreatedAt
	} else {
		r.CreatedAt = r.UpdatedAt
		m.order = append(m.order, key)
	}
	m.byKey[key] = *r
	return nil
}

func (m *memReviews) ListByGround(_ context.Context, groundID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, k := range m.order {
		if r := m.byKey[k]; r.GroundID == groundID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviews) Summary(_ context.Context, groundID string) (models.RatingSummary, error) {
	sum := models.RatingSummary{GroundID: groundID}
	total := 0
	for _, r := range m.byKey {
		if r.GroundID == groundID {
			total += r.Rating
			sum.Count++
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

type stubUsers map[string]models.UserProfile

func (s stubUsers) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	p, ok := s[id]
	if !ok {
		return nil, utils.NotFoundError{Resource: "user", ID: id}
	}
	return &p, nil
}

func (s stubUsers) GetByIDs(_ context.Context, ids []string) (map[string]models.UserProfile, error) {
	out := map[string]models.UserProfile{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s stubUsers) GetByEmail(context.Context, string) (*models.UserProfile, error) { return nil, nil }
func (s stubUsers) GetAll(context.Context) ([]models.UserProfile, error)            { return nil, nil }
func (s stubUsers) Create(context.Context, *models.UserProfile) error               { return nil }
func (s stubUsers) UpdateSetDocument(context.Context, string, bson.M) error         { return nil }

type stubGrounds map[string]bool

func (s stubGrounds) GetByID(_ context.Context, id string) (*models.Ground, error) {
	if !s[id] {
		return nil, utils.NotFoundError{Resource: "ground", ID: id}
	}
	return &models.Ground{ID: id}, nil
}

func newService() *DefaultReviewService {
	return &DefaultReviewService{
		Repo:    &memReviews{byKey: map[string]models.Review{}},
		Users:   stubUsers{"u1": {ID: "u1", FirstName: "Asha", LastName: "Rao"}},
		Grounds: stubGrounds{"g1": true},
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.SubmitReview(ctx, "u1", "g1", rating, ""); !utils.IsValidation(err) {
			t.Errorf("rating %d: expected ValidationError, got %v", rating, err)
		}
	}
	if _, err := svc.SubmitReview(ctx, "u1", "missing", 4, ""); !utils.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestOneReviewPerUserAndGround(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.SubmitReview(ctx, "u1", "g1", 2, "meh"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitReview(ctx, "u1", "g1", 5, "much better"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitReview(ctx, "u2", "g1", 3, ""); err != nil {
		t.Fatal(err)
	}

	reviews, err := svc.ListGroundReviews(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}
	if reviews[0].Rating != 5 || reviews[0].ReviewerFirstName != "Asha" {
		t.Errorf("unexpected first review %+v", reviews[0])
	}
	if reviews[1].ReviewerFirstName != "" {
		t.Errorf("unknown reviewer should have no name, got %q", reviews[1].ReviewerFirstName)
	}

	sum, err := svc.AverageRating(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 2 || sum.Average != 4 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestResubmittedReviewKeepsItsID(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.SubmitReview(ctx, "u1", "g1", 2, "meh")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.SubmitReview(ctx, "u1", "g1", 4, "better")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission id = %q, want %q", second.ID, first.ID)
	}
	if second.CreatedAt.IsZero() || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at = %v, want %v", second.CreatedAt, first.CreatedAt)
	}
	if second.Rating != 4 {
		t.Errorf("rating = %d, want 4", second.Rating)
	}
}
