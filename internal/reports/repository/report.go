package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"castlehire/pkg/config"
	"castlehire/pkg/model"
)

const BookingsCollection = "bookings"

// CastleUsage is one castle's share of the fleet's hire activity in a
// reporting window.
type CastleUsage struct {
	CastleName string  `json:"castle_name" bson:"_id"`
	Bookings   int64   `json:"bookings" bson:"bookings"`
	HireDays   float64 `json:"hire_days" bson:"hire_days"`
	Revenue    float64 `json:"revenue" bson:"revenue"`
}

type ReportRepository interface {
	CountByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error)
	Revenue(ctx context.Context, from, to time.Time) (revenue float64, deposits float64, err error)
	CastleUsage(ctx context.Context, from, to time.Time) ([]CastleUsage, error)
}

type mongoReportRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReportRepository(cfg *config.Config) ReportRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReportRepository{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
	}
}

func (r *mongoReportRepository) windowMatch(from, to time.Time) bson.M {
	return bson.M{"$match": bson.M{
		"start_at": bson.M{"$gte": from, "$lt": to},
	}}
}

func (r *mongoReportRepository) CountByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := []bson.M{
		r.windowMatch(from, to),
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Revenue sums confirmed and completed hire totals, and separately every
// deposit actually collected, regardless of the booking's later fate.
func (r *mongoReportRepository) Revenue(ctx context.Context, from, to time.Time) (float64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := []bson.M{
		r.windowMatch(from, to),
		{"$group": bson.M{
			"_id": nil,
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$status", bson.A{model.StatusConfirmed, model.StatusCompleted}}},
				"$total_price",
				0,
			}}},
			"deposits": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ifNull": bson.A{"$deposit_paid_at", false}},
				"$deposit",
				0,
			}}},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Revenue  float64 `bson:"revenue"`
		Deposits float64 `bson:"deposits"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Revenue, rows[0].Deposits, nil
}

func (r *mongoReportRepository) CastleUsage(ctx context.Context, from, to time.Time) ([]CastleUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	const dayMillis = 24 * 60 * 60 * 1000

	pipeline := []bson.M{
		r.windowMatch(from, to),
		{"$match": bson.M{
			"status": bson.M{"$nin": bson.A{model.StatusCancelled, model.StatusExpired}},
		}},
		{"$group": bson.M{
			"_id":      "$castle_name",
			"bookings": bson.M{"$sum": 1},
			"hire_days": bson.M{"$sum": bson.M{"$ceil": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{"$end_at", "$start_at"}},
				dayMillis,
			}}}},
			"revenue": bson.M{"$sum": "$total_price"},
		}},
		{"$sort": bson.M{"revenue": -1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate castle usage: %w", err)
	}
	defer cursor.Close(ctx)

	var usage []CastleUsage
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, fmt.Errorf("failed to decode castle usage: %w", err)
	}
	return usage, nil
}
