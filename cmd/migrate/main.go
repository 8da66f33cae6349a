package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mongoMigration "castlehire/internal/migrations/mongo"
	"castlehire/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	seedPath := flag.String("seed", "", "path to a fleet TOML file to upsert after migrating")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")
	defer cfg.GracefulShutdown()

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *seedPath != "" {
		if err := mongoMigration.SeedFleet(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, *seedPath); err != nil {
			log.Fatalf("Fleet seed failed: %v", err)
		}
	}

	fmt.Println("Migration completed successfully.")
}
