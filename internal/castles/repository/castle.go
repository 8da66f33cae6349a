package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	castleserrors "castlehire/internal/castles/errors"
	"castlehire/pkg/config"
	"castlehire/pkg/model"
)

const CollectionName = "castles"

type CastleRepository interface {
	Create(ctx context.Context, castle *model.Castle) error
	FindByID(ctx context.Context, id string) (*model.Castle, error)
	FindBySlug(ctx context.Context, slug string) (*model.Castle, error)
	FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Castle, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, castle *model.Castle) (*mongo.UpdateResult, error)
	Deactivate(ctx context.Context, id string) error
}

type mongoCastleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCastleRepository(cfg *config.Config) CastleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCastleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCastleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Create inserts a castle. The slug carries a unique index; a duplicate
// insert surfaces as ErrDuplicateSlug.
func (r *mongoCastleRepository) Create(ctx context.Context, castle *model.Castle) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	castle.CreatedAt = now
	castle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, castle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", castleserrors.ErrDuplicateSlug, castle.Slug)
		}
		return fmt.Errorf("failed to create castle: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		castle.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCastleRepository) FindByID(ctx context.Context, id string) (*model.Castle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", castleserrors.ErrInvalidID, id)
	}

	var castle model.Castle
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&castle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", castleserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find castle: %w", err)
	}
	return &castle, nil
}

func (r *mongoCastleRepository) FindBySlug(ctx context.Context, slug string) (*model.Castle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var castle model.Castle
	err := r.collection.FindOne(ctx, bson.M{"slug": strings.ToLower(strings.TrimSpace(slug))}).Decode(&castle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", castleserrors.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to find castle: %w", err)
	}
	return &castle, nil
}

func (r *mongoCastleRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Castle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list castles: %w", err)
	}
	defer cursor.Close(ctx)

	var castles []*model.Castle
	if err := cursor.All(ctx, &castles); err != nil {
		return nil, fmt.Errorf("failed to decode castles: %w", err)
	}
	return castles, nil
}

func (r *mongoCastleRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count castles: %w", err)
	}
	return count, nil
}

func (r *mongoCastleRepository) Update(ctx context.Context, id string, castle *model.Castle) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", castleserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":           castle.Name,
			"theme":          castle.Theme,
			"base_price":     castle.BasePrice,
			"dimensions":     castle.Dimensions,
			"capacity":       castle.Capacity,
			"available_days": castle.AvailableDays,
			"hire_window":    castle.HireWindow,
			"active":         castle.Active,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update castle: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", castleserrors.ErrNotFound, id)
	}
	return result, nil
}

// Deactivate retires a castle from the bookable fleet. The document
// stays so existing bookings keep resolving their castle.
func (r *mongoCastleRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", castleserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate castle: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", castleserrors.ErrNotFound, id)
	}
	return nil
}
