package userRepo

import (
	"context"
	"fmt"
	"time"

	"groundbook/database"
	"groundbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAll retrieves every user profile, newest first.
func (r *MongoUserRepo) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var users []models.UserProfile
	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := newContext(ctx, 10*time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		users = users[:0]
		for cursor.Next(ctx) {
			var u models.UserProfile
			if err := cursor.Decode(&u); err != nil {
				return fmt.Errorf("failed to decode user: %w", err)
			}
			users = append(users, u)
		}
		return cursor.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	if users == nil {
		users = []models.UserProfile{}
	}
	return users, nil
}

// GetByIDs loads several profiles in one query. Unknown ids are simply absent from the map.
func (r *MongoUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.UserProfile, error) {
	out := make(map[string]models.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	err := database.RetryRead(ctx, func(ctx context.Context) error {
		ctx, cancel := newContext(ctx, 10*time.Second)
		defer cancel()

		cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var u models.UserProfile
			if err := cursor.Decode(&u); err != nil {
				return fmt.Errorf("failed to decode user: %w", err)
			}
			out[u.ID] = u
		}
		return cursor.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return out, nil
}
