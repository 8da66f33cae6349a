package main

import (
	"castlehire/internal/reports/handler"
	"castlehire/internal/reports/repository"
	"castlehire/internal/reports/service"
	"castlehire/pkg/app"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	"castlehire/pkg/middleware"
)

const ServiceName = "reports"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reports service")

	var analytics service.AnalyticsAPI
	if cfg.AnalyticsBaseURL != "" {
		analytics = client.NewAnalyticsClient(cfg.AnalyticsBaseURL, cfg.AnalyticsAPIKey, cfg.PublicBaseURL)
	}
	var renderer service.RendererAPI
	if cfg.RendererBaseURL != "" {
		renderer = client.NewRendererClient(cfg.RendererBaseURL)
	}

	reportService := service.NewReportService(
		repository.NewMongoReportRepository(cfg),
		analytics,
		renderer,
		cfg,
	)

	var sessions middleware.SessionValidator
	if cfg.SessionsBaseURL != "" {
		sessions = client.NewSessionsClient(cfg.SessionsBaseURL)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewReportHandler(reportService, sessions, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}
