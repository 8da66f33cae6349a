package main

import (
	"castlehire/internal/castles/handler"
	"castlehire/internal/castles/repository"
	"castlehire/internal/castles/service"
	"castlehire/internal/castles/validator"
	"castlehire/pkg/app"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	"castlehire/pkg/middleware"
)

const ServiceName = "castles"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Castles service")

	castleService := service.NewCastleService(
		repository.NewMongoCastleRepository(cfg),
		validator.NewCastleValidator(),
		cfg,
	)

	var sessions middleware.SessionValidator
	if cfg.SessionsBaseURL != "" {
		sessions = client.NewSessionsClient(cfg.SessionsBaseURL)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewCastleHandler(castleService, sessions, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}
