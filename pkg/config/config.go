package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"castlehire/pkg/client"
	"castlehire/pkg/logger"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Booking business rules. The validator receives these as injected
	// rules and never reads them from the environment itself.
	BusinessTimezone string
	BookingDayStart  string
	BookingDayEnd    string
	MinNoticeHours   int
	MaxAdvanceDays   int

	OvernightSurcharge float64
	DepositFraction    float64

	SuggestWindowDays int
	SuggestMax        int

	PendingTTLHours int
	SweeperInterval time.Duration

	CalendarBaseURL  string
	CalendarAPIKey   string
	MailerBaseURL    string
	MailerAPIKey     string
	MailerFrom       string
	PaymentsBaseURL  string
	PaymentsAPIKey   string
	RendererBaseURL  string
	AnalyticsBaseURL string
	AnalyticsAPIKey  string
	SessionsBaseURL  string
	PublicBaseURL    string

	PaymentWebhookSecret string
	ManageTokenKey       string

	Location *time.Location

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BusinessTimezone: getEnvStr(EnvBusinessTimezone, DefaultBusinessTimezone),
		BookingDayStart:  getEnvStr(EnvBookingDayStart, DefaultBookingDayStart),
		BookingDayEnd:    getEnvStr(EnvBookingDayEnd, DefaultBookingDayEnd),
		MinNoticeHours:   getEnvNum(EnvMinNoticeHours, DefaultMinNoticeHours),
		MaxAdvanceDays:   getEnvNum(EnvMaxAdvanceDays, DefaultMaxAdvanceDays),

		OvernightSurcharge: getEnvFloat(EnvOvernightSurcharge, DefaultOvernightSurcharge),
		DepositFraction:    getEnvFloat(EnvDepositFraction, DefaultDepositFraction),

		SuggestWindowDays: getEnvNum(EnvSuggestWindowDays, DefaultSuggestWindowDays),
		SuggestMax:        getEnvNum(EnvSuggestMax, DefaultSuggestMax),

		PendingTTLHours: getEnvNum(EnvPendingTTLHours, DefaultPendingTTLHours),
		SweeperInterval: getEnvDuration(EnvSweeperInterval, DefaultSweeperInterval),

		CalendarBaseURL:  getEnvStr(EnvCalendarBaseURL, ""),
		CalendarAPIKey:   getEnvStr(EnvCalendarAPIKey, ""),
		MailerBaseURL:    getEnvStr(EnvMailerBaseURL, ""),
		MailerAPIKey:     getEnvStr(EnvMailerAPIKey, ""),
		MailerFrom:       getEnvStr(EnvMailerFrom, DefaultMailerFrom),
		PaymentsBaseURL:  getEnvStr(EnvPaymentsBaseURL, ""),
		PaymentsAPIKey:   getEnvStr(EnvPaymentsAPIKey, ""),
		RendererBaseURL:  getEnvStr(EnvRendererBaseURL, ""),
		AnalyticsBaseURL: getEnvStr(EnvAnalyticsBaseURL, ""),
		AnalyticsAPIKey:  getEnvStr(EnvAnalyticsAPIKey, ""),
		SessionsBaseURL:  getEnvStr(EnvSessionsBaseURL, ""),
		PublicBaseURL:    getEnvStr(EnvPublicBaseURL, DefaultPublicBaseURL),

		PaymentWebhookSecret: getEnvStr(EnvPaymentWebhookSecret, ""),
		ManageTokenKey:       getEnvStr(EnvManageTokenKey, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, "info"),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		cfg.Log.Fatal("Invalid business timezone", "timezone", cfg.BusinessTimezone, "error", err)
	}
	cfg.Location = loc

	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(cfg.BookingDayStart) {
		errors = append(errors, fmt.Sprintf("BookingDayStart must be in HH:MM format (00:00-23:59), got: %s", cfg.BookingDayStart))
	}
	if !timeRegex.MatchString(cfg.BookingDayEnd) {
		errors = append(errors, fmt.Sprintf("BookingDayEnd must be in HH:MM format (00:00-23:59), got: %s", cfg.BookingDayEnd))
	}
	if timeRegex.MatchString(cfg.BookingDayStart) && timeRegex.MatchString(cfg.BookingDayEnd) && cfg.BookingDayEnd <= cfg.BookingDayStart {
		errors = append(errors, fmt.Sprintf("BookingDayEnd (%s) must be after BookingDayStart (%s)", cfg.BookingDayEnd, cfg.BookingDayStart))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.MinNoticeHours < 0 {
		errors = append(errors, fmt.Sprintf("MinNoticeHours cannot be negative, got: %d", cfg.MinNoticeHours))
	}
	if cfg.MaxAdvanceDays <= 0 {
		errors = append(errors, fmt.Sprintf("MaxAdvanceDays must be positive, got: %d", cfg.MaxAdvanceDays))
	}
	if cfg.OvernightSurcharge < 0 {
		errors = append(errors, fmt.Sprintf("OvernightSurcharge cannot be negative, got: %f", cfg.OvernightSurcharge))
	}
	if cfg.DepositFraction <= 0 || cfg.DepositFraction > 1 {
		errors = append(errors, fmt.Sprintf("DepositFraction must be in (0, 1], got: %f", cfg.DepositFraction))
	}
	if cfg.SuggestWindowDays <= 0 {
		errors = append(errors, fmt.Sprintf("SuggestWindowDays must be positive, got: %d", cfg.SuggestWindowDays))
	}
	if cfg.SuggestMax <= 0 {
		errors = append(errors, fmt.Sprintf("SuggestMax must be positive, got: %d", cfg.SuggestMax))
	}
	if cfg.PendingTTLHours <= 0 {
		errors = append(errors, fmt.Sprintf("PendingTTLHours must be positive, got: %d", cfg.PendingTTLHours))
	}
	if cfg.SweeperInterval <= 0 {
		errors = append(errors, fmt.Sprintf("SweeperInterval must be positive, got: %s", cfg.SweeperInterval))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"business_timezone", cfg.BusinessTimezone,
		"booking_day_start", cfg.BookingDayStart,
		"booking_day_end", cfg.BookingDayEnd,
		"min_notice_hours", cfg.MinNoticeHours,
		"max_advance_days", cfg.MaxAdvanceDays,
		"overnight_surcharge", cfg.OvernightSurcharge,
		"deposit_fraction", cfg.DepositFraction,
		"suggest_window_days", cfg.SuggestWindowDays,
		"suggest_max", cfg.SuggestMax,
		"pending_ttl_hours", cfg.PendingTTLHours,
		"sweeper_interval", cfg.SweeperInterval,
		"calendar_base_url", cfg.CalendarBaseURL,
		"calendar_key_set", cfg.CalendarAPIKey != "",
		"mailer_base_url", cfg.MailerBaseURL,
		"mailer_key_set", cfg.MailerAPIKey != "",
		"payments_base_url", cfg.PaymentsBaseURL,
		"payments_key_set", cfg.PaymentsAPIKey != "",
		"renderer_base_url", cfg.RendererBaseURL,
		"analytics_base_url", cfg.AnalyticsBaseURL,
		"sessions_base_url", cfg.SessionsBaseURL,
		"payment_webhook_secret_set", cfg.PaymentWebhookSecret != "",
		"manage_token_key_set", cfg.ManageTokenKey != "",
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
