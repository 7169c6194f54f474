package reviewRepo

import (
	"context"
	"fmt"
	"math"
	"time"

	"groundbook/database"
	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Upsert writes the user's review of a ground, replacing any earlier one.
	Upsert(ctx context.Context, review *models.Review) error
	ListByGround(ctx context.Context, groundID string) ([]models.Review, error)
	Summary(ctx context.Context, groundID string) (models.RatingSummary, error)
}

type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo() ReviewRepository {
	repo := NewMongoReviewRepoWithCollection(database.DB().Collection("reviews"))
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("reviews: failed to create indexes: %v", err)
	}
	return repo
}

func NewMongoReviewRepoWithCollection(coll *mongo.Collection) *MongoReviewRepo {
	return &MongoReviewRepo{coll: coll}
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ground_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ground_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert writes the review and reloads the stored document into review, so a
// resubmission reports the id and created_at of the original.
func (r *MongoReviewRepo) Upsert(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := review.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	filter := bson.M{"ground_id": review.GroundID, "user_id": review.UserID}
	update := bson.M{
		"$set": bson.M{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"id":         review.ID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Review
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	*review = stored
	return nil
}

func (r *MongoReviewRepo) ListByGround(ctx context.Context, groundID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var reviews []models.Review
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, bson.M{"ground_id": groundID}, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		reviews = reviews[:0]
		return cursor.All(ctx, &reviews)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Summary computes average rating and review count with an aggregation pipeline.
func (r *MongoReviewRepo) Summary(ctx context.Context, groundID string) (models.RatingSummary, error) {
	summary := models.RatingSummary{GroundID: groundID}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ground_id": groundID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$ground_id",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cursor, err := r.coll.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		rows = rows[:0]
		return cursor.All(ctx, &rows)
	})
	if err != nil {
		return summary, fmt.Errorf("failed to summarise reviews: %w", err)
	}
	if len(rows) > 0 {
		summary.Average = math.Round(rows[0].Average*10) / 10
		summary.Count = rows[0].Count
	}
	return summary, nil
}
