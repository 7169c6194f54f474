package groundRepo

import (
	"context"

	"groundbook/models"
)

// GroundRepository defines methods for ground data access.
type GroundRepository interface {
	Create(ctx context.Context, ground *models.Ground) error
	GetByID(ctx context.Context, id string) (*models.Ground, error)
	// List returns grounds whose name or location contains search (case-insensitive).
	// An empty search matches everything.
	List(ctx context.Context, search string, featuredOnly bool) ([]models.Ground, error)
	Update(ctx context.Context, ground *models.Ground) error
	Delete(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
}
