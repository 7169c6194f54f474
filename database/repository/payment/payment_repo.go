package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groundbook/database"
	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentRepository defines methods for payment data access.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
}

type MongoPaymentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepo() PaymentRepository {
	repo := NewMongoPaymentRepoWithCollection(database.DB().Collection("payments"))
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("payments: failed to create indexes: %v", err)
	}
	return repo
}

func NewMongoPaymentRepoWithCollection(coll *mongo.Collection) *MongoPaymentRepo {
	return &MongoPaymentRepo{coll: coll}
}

func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// GetByBookingID returns the most recent payment recorded for a booking.
func (r *MongoPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var payment models.Payment
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}, opts).Decode(&payment)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFoundError{Resource: "payment", ID: bookingID}
		}
		return nil, fmt.Errorf("failed to fetch payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}
