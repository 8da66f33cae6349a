package main

import (
	"castlehire/internal/bookings/adapter"
	"castlehire/internal/bookings/handler"
	"castlehire/internal/bookings/repository"
	"castlehire/internal/bookings/service"
	"castlehire/internal/bookings/validator"
	"castlehire/pkg/app"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	"castlehire/pkg/kafka"
	kafka_config "castlehire/pkg/kafka/config"
	kafka_middleware "castlehire/pkg/kafka/middleware"
	"castlehire/pkg/middleware"
	"castlehire/pkg/sealer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication(cfg)

	producer := initProducer(cfg)
	bookingService := initServices(cfg, producer)

	sweeper := service.NewSweeper(repository.NewMongoBookingRepository(cfg), cfg)
	sweeper.Start()

	serverApp.OnShutdown(func() {
		sweeper.Stop()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	var sessions middleware.SessionValidator
	if cfg.SessionsBaseURL != "" {
		sessions = client.NewSessionsClient(cfg.SessionsBaseURL)
	}

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, sessions, cfg.PaymentWebhookSecret, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingsTopic, kafkaCfg.BookingsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.NewMetrics(ServiceName).MetricsProducerMiddleware())
	}

	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(validator.Rules{
		MinNoticeHours: cfg.MinNoticeHours,
		MaxAdvanceDays: cfg.MaxAdvanceDays,
		DayStart:       cfg.BookingDayStart,
		DayEnd:         cfg.BookingDayEnd,
		Location:       cfg.Location,
	}, cfg.Log)

	tokenSealer, err := sealer.New(cfg.ManageTokenKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize manage-token sealer", "error", err)
	}

	// External collaborators are optional; a nil interface degrades the
	// feature rather than the service.
	var calendar service.CalendarAPI
	if cfg.CalendarBaseURL != "" {
		calendar = client.NewCalendarClient(cfg.CalendarBaseURL, cfg.CalendarAPIKey)
	}
	var payments service.PaymentsAPI
	if cfg.PaymentsBaseURL != "" {
		payments = client.NewPaymentsClient(cfg.PaymentsBaseURL, cfg.PaymentsAPIKey)
	}

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewMongoCastleReader(cfg),
		repository.NewMongoBookingLockRepository(cfg),
		bookingValidator,
		adapter.New(cfg.BookingDayStart, cfg.BookingDayEnd, cfg.Location),
		tokenSealer,
		calendar,
		payments,
		producer,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
