package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"castlehire/internal/migrations/mongo/validators"
	"castlehire/pkg/model"
)

var (
	CastlesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "castle_id", Value: 1},
			{Key: "start_at", Value: 1},
			{Key: "end_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "customer_email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_at", Value: 1}}},
	}

	// Mongo reaps expired locks itself; a crashed process never wedges
	// a slot for longer than the TTL.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running castlehire Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"castles": {
			Indexes:   CastlesIndexes,
			Validator: validators.CastleValidator,
		},
		"bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"booking_locks": {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

type fleetFile struct {
	Castles []fleetCastle `toml:"castle"`
}

type fleetCastle struct {
	Name          string       `toml:"name"`
	Slug          string       `toml:"slug"`
	Theme         string       `toml:"theme"`
	BasePrice     float64      `toml:"base_price"`
	Dimensions    string       `toml:"dimensions"`
	Capacity      int          `toml:"capacity"`
	AvailableDays []string     `toml:"available_days"`
	HireWindow    *fleetWindow `toml:"hire_window"`
}

type fleetWindow struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// SeedFleet upserts the castle fleet from a TOML file, matching on slug
// so re-running the migration never duplicates a castle.
func SeedFleet(ctx context.Context, client *mongo.Client, dbName, path string) error {
	var fleet fleetFile
	if _, err := toml.DecodeFile(path, &fleet); err != nil {
		return fmt.Errorf("failed to read fleet file %s: %w", path, err)
	}
	if len(fleet.Castles) == 0 {
		return fmt.Errorf("fleet file %s declares no castles", path)
	}

	coll := client.Database(dbName).Collection("castles")
	now := time.Now().UTC()

	for _, castle := range fleet.Castles {
		slug := strings.ToLower(strings.TrimSpace(castle.Slug))
		if slug == "" {
			return fmt.Errorf("castle %q has no slug", castle.Name)
		}

		set := bson.M{
			"name":           castle.Name,
			"slug":           slug,
			"theme":          castle.Theme,
			"base_price":     castle.BasePrice,
			"dimensions":     castle.Dimensions,
			"capacity":       castle.Capacity,
			"available_days": castle.AvailableDays,
			"active":         true,
			"updated_at":     now,
		}
		if castle.HireWindow != nil {
			set["hire_window"] = model.HireWindow{
				Open:  castle.HireWindow.Open,
				Close: castle.HireWindow.Close,
			}
		}
		update := bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": now},
		}

		result, err := coll.UpdateOne(ctx, bson.M{"slug": slug}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed castle %s: %w", slug, err)
		}
		if result.UpsertedCount > 0 {
			fmt.Printf("Seeded castle: %s\n", slug)
		} else {
			fmt.Printf("Refreshed castle: %s\n", slug)
		}
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
