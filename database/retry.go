package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// readRetryDelay is the pause before the single retry of a read.
var readRetryDelay = 150 * time.Millisecond

// IsTransient reports whether err is a network or timeout failure worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// RetryRead runs an idempotent read and retries it once on a transient error.
// Writes must not go through here: inserts and updates are not idempotent.
func RetryRead(ctx context.Context, read func(ctx context.Context) error) error {
	err := read(ctx)
	if !IsTransient(err) {
		return err
	}
	select {
	case <-ctx.Done():
		return err
	case <-time.After(readRetryDelay):
	}
	return read(ctx)
}
