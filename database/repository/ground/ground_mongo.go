package groundRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"groundbook/database"
	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGroundRepo implements GroundRepository using MongoDB.
type MongoGroundRepo struct {
	coll *mongo.Collection
}

// NewMongoGroundRepo creates a GroundRepository on the application database.
func NewMongoGroundRepo() GroundRepository {
	repo := NewMongoGroundRepoWithCollection(database.DB().Collection("grounds"))
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("grounds: failed to create indexes: %v", err)
	}
	return repo
}

// NewMongoGroundRepoWithCollection wraps an existing collection.
func NewMongoGroundRepoWithCollection(coll *mongo.Collection) *MongoGroundRepo {
	return &MongoGroundRepo{coll: coll}
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoGroundRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_featured", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoGroundRepo) Create(ctx context.Context, ground *models.Ground) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, ground); err != nil {
		return fmt.Errorf("failed to create ground: %w", err)
	}
	return nil
}

func (r *MongoGroundRepo) GetByID(ctx context.Context, id string) (*models.Ground, error) {
	var ground models.Ground
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := newContext(ctx, 5*time.Second)
		defer cancel()
		return r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&ground)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFoundError{Resource: "ground", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch ground with id %s: %w", id, err)
	}
	return &ground, nil
}

func (r *MongoGroundRepo) List(ctx context.Context, search string, featuredOnly bool) ([]models.Ground, error) {
	filter := bson.M{}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"location": pattern},
		}
	}
	if featuredOnly {
		filter["is_featured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	var grounds []models.Ground
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := newContext(ctx, 10*time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		grounds = grounds[:0]
		return cursor.All(ctx, &grounds)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list grounds: %w", err)
	}
	if grounds == nil {
		grounds = []models.Ground{}
	}
	return grounds, nil
}

func (r *MongoGroundRepo) Update(ctx context.Context, ground *models.Ground) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	ground.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": ground.ID}, bson.M{"$set": ground})
	if err != nil {
		return fmt.Errorf("failed to update ground with id %s: %w", ground.ID, err)
	}
	if result.MatchedCount == 0 {
		return utils.NotFoundError{Resource: "ground", ID: ground.ID}
	}
	return nil
}

func (r *MongoGroundRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete ground with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return utils.NotFoundError{Resource: "ground", ID: id}
	}
	return nil
}

func (r *MongoGroundRepo) SetFeatured(ctx context.Context, id string, featured bool) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_featured": featured, "updated_at": time.Now().UTC()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update ground with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return utils.NotFoundError{Resource: "ground", ID: id}
	}
	return nil
}
