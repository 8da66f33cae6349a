package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "castlehire/internal/bookings/errors"
	"castlehire/pkg/config"
	"castlehire/pkg/model"
)

const (
	CastleCollectionName = "castles"
)

// CastleReader is the bookings service's read-only view of the fleet.
// Full CRUD lives in the castles service.
type CastleReader interface {
	FindBySlugOrName(ctx context.Context, castle string) (*model.Castle, error)
}

type mongoCastleReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCastleReader(cfg *config.Config) CastleReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCastleReader{
		cfg:        cfg,
		collection: db.Collection(CastleCollectionName),
	}
}

// FindBySlugOrName resolves a customer-supplied castle identifier: the
// slug first, then a case-insensitive name match.
func (r *mongoCastleReader) FindBySlugOrName(ctx context.Context, castle string) (*model.Castle, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	castle = strings.TrimSpace(castle)

	filter := bson.M{"$or": []bson.M{
		{"slug": strings.ToLower(castle)},
		{"name": bson.M{"$regex": "^" + regexEscape(castle) + "$", "$options": "i"}},
	}}

	var result model.Castle
	err := r.collection.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrCastleNotFound
		}
		return nil, fmt.Errorf("failed to find castle: %w", err)
	}

	return &result, nil
}
