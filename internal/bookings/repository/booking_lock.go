package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "castlehire/internal/bookings/errors"
	"castlehire/pkg/config"
	"castlehire/pkg/model"
)

const (
	LockCollectionName = "booking_locks"
)

// BookingLockRepository serializes competing booking attempts for a slot.
// The unique _id insert gives the persistence layer the final word on
// double-booking; the validator only reports what it was shown.
type BookingLockRepository interface {
	Acquire(ctx context.Context, castle, date, startTime string, ttl time.Duration) (string, error)
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// LockID builds the deterministic lock key for a slot. Castle names are
// folded so "Princess Castle" and "princess castle" contend for one lock.
func LockID(castle, date, startTime string) string {
	castle = strings.ToLower(strings.TrimSpace(castle))
	castle = strings.ReplaceAll(castle, " ", "-")
	return fmt.Sprintf("booking_lock_%s_%s_%s", castle, date, startTime)
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, castle, date, startTime string, ttl time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        LockID(castle, date, startTime),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrLockHeld
		}
		return "", fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	return lock.ID, nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
