package ground

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/services/slot"
	"groundbook/services/storage"
	"groundbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroundService manages the ground catalogue.
type GroundService interface {
	CreateGround(ctx context.Context, ownerID string, in models.GroundInput) (*models.Ground, error)
	UpdateGround(ctx context.Context, id string, in models.GroundInput) (*models.Ground, error)
	DeleteGround(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	UploadGroundImage(ctx context.Context, id string, r io.Reader, filename string) (*models.Ground, error)

	ListGrounds(ctx context.Context, search string) ([]models.Ground, error)
	ListFeatured(ctx context.Context) ([]models.Ground, error)
	GetGround(ctx context.Context, id string) (*models.Ground, error)
	Availability(ctx context.Context, id, date string) (*models.GroundAvailability, error)
}

// SlotHolder lists the bookings currently holding slots on a ground.
type SlotHolder interface {
	HeldSlots(ctx context.Context, groundID, date string) ([]models.Booking, error)
}

// ErrImageStoreDisabled is returned by UploadGroundImage when no image store is configured.
var ErrImageStoreDisabled = errors.New("image uploads are not configured")

type DefaultGroundService struct {
	Repo        repository.GroundRepository
	Cache       GroundCache        // optional
	Images      storage.ImageStore // optional
	Holder      SlotHolder
	ImageFolder string
}

func validate(in models.GroundInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return utils.ValidationError{Field: "name", Msg: "is required"}
	case strings.TrimSpace(in.Location) == "":
		return utils.ValidationError{Field: "location", Msg: "is required"}
	case strings.TrimSpace(in.Address) == "":
		return utils.ValidationError{Field: "address", Msg: "is required"}
	case in.PricePerHour <= 0:
		return utils.ValidationError{Field: "price_per_hour", Msg: "must be greater than zero"}
	case in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90):
		return utils.ValidationError{Field: "latitude", Msg: "must be between -90 and 90"}
	case in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180):
		return utils.ValidationError{Field: "longitude", Msg: "must be between -180 and 180"}
	}
	return nil
}

func apply(g *models.Ground, in models.GroundInput) {
	g.Name = strings.TrimSpace(in.Name)
	g.Location = strings.TrimSpace(in.Location)
	g.Address = strings.TrimSpace(in.Address)
	g.PricePerHour = in.PricePerHour
	g.Description = strings.TrimSpace(in.Description)
	g.Latitude = in.Latitude
	g.Longitude = in.Longitude
	g.IsFeatured = in.IsFeatured
	g.Amenities = in.Amenities
}

func (s *DefaultGroundService) CreateGround(ctx context.Context, ownerID string, in models.GroundInput) (*models.Ground, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	g := &models.Ground{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(g, in)

	if err := s.Repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return g, nil
}

func (s *DefaultGroundService) UpdateGround(ctx context.Context, id string, in models.GroundInput) (*models.Ground, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(g, in)
	if err := s.Repo.Update(ctx, g); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return g, nil
}

// DeleteGround removes the ground and, best effort, its image.
func (s *DefaultGroundService) DeleteGround(ctx context.Context, id string) error {
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.Images != nil && g.ImagePublicID != "" {
		if err := s.Images.DeleteImage(ctx, g.ImagePublicID); err != nil {
			utils.GetLogger().Warn("Failed to delete ground image", zap.String("groundID", id), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultGroundService) SetFeatured(ctx context.Context, id string, featured bool) error {
	if err := s.Repo.SetFeatured(ctx, id, featured); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UploadGroundImage stores a new image and replaces the ground's previous one.
func (s *DefaultGroundService) UploadGroundImage(ctx context.Context, id string, r io.Reader, filename string) (*models.Ground, error) {
	if s.Images == nil {
		return nil, ErrImageStoreDisabled
	}
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	img, err := s.Images.UploadImage(ctx, r, s.ImageFolder, filename)
	if err != nil {
		return nil, err
	}

	previous := g.ImagePublicID
	g.ImageURL = img.URL
	g.ImagePublicID = img.PublicID
	if err := s.Repo.Update(ctx, g); err != nil {
		// Do not leave an orphan upload behind.
		_ = s.Images.DeleteImage(ctx, img.PublicID)
		return nil, err
	}
	s.invalidate(ctx)

	if previous != "" && previous != img.PublicID {
		if err := s.Images.DeleteImage(ctx, previous); err != nil {
			utils.GetLogger().Warn("Failed to delete replaced ground image", zap.String("groundID", id), zap.Error(err))
		}
	}
	return g, nil
}

func (s *DefaultGroundService) ListGrounds(ctx context.Context, search string) ([]models.Ground, error) {
	return s.cachedList(ctx, strings.TrimSpace(search), false)
}

func (s *DefaultGroundService) ListFeatured(ctx context.Context) ([]models.Ground, error) {
	return s.cachedList(ctx, "", true)
}

func (s *DefaultGroundService) cachedList(ctx context.Context, search string, featuredOnly bool) ([]models.Ground, error) {
	key := fmt.Sprintf("featured=%t:q=%s", featuredOnly, strings.ToLower(search))
	logger := utils.GetLogger()

	if s.Cache != nil {
		grounds, err := s.Cache.Get(ctx, key)
		if err == nil {
			return grounds, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("Ground cache read failed", zap.Error(err))
		}
	}

	grounds, err := s.Repo.List(ctx, search, featuredOnly)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, grounds); err != nil {
			logger.Warn("Ground cache write failed", zap.Error(err))
		}
	}
	return grounds, nil
}

func (s *DefaultGroundService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		utils.GetLogger().Warn("Ground cache invalidation failed", zap.Error(err))
	}
}

func (s *DefaultGroundService) GetGround(ctx context.Context, id string) (*models.Ground, error) {
	return s.Repo.GetByID(ctx, id)
}

// Availability prices every standard slot on date and marks those overlapping a held booking.
func (s *DefaultGroundService) Availability(ctx context.Context, id, date string) (*models.GroundAvailability, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, utils.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
	}
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	held, err := s.Holder.HeldSlots(ctx, id, date)
	if err != nil {
		return nil, err
	}

	out := &models.GroundAvailability{
		GroundID:         id,
		Date:             date,
		Slots:            []models.SlotAvailability{},
		AvailableSlots:   []string{},
		UnavailableSlots: []string{},
	}
	for _, label := range slot.StandardSlots() {
		q, err := slot.ComputeSlot(label, g.PricePerHour)
		if err != nil {
			return nil, err
		}
		free := true
		for _, b := range held {
			if slot.Overlaps(q.StartTime, q.EndTime, b.StartTime, b.EndTime) {
				free = false
				break
			}
		}
		out.Slots = append(out.Slots, models.SlotAvailability{
			Label:     label,
			StartTime: q.StartTime,
			EndTime:   q.EndTime,
			Price:     q.TotalPrice,
			Available: free,
		})
		if free {
			out.AvailableSlots = append(out.AvailableSlots, label)
		} else {
			out.UnavailableSlots = append(out.UnavailableSlots, label)
		}
	}
	return out, nil
}
