package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBusinessTimezone = "BUSINESS_TIMEZONE"
	EnvBookingDayStart  = "BOOKING_DAY_START"
	EnvBookingDayEnd    = "BOOKING_DAY_END"
	EnvMinNoticeHours   = "MIN_NOTICE_HOURS"
	EnvMaxAdvanceDays   = "MAX_ADVANCE_DAYS"

	EnvOvernightSurcharge = "OVERNIGHT_SURCHARGE"
	EnvDepositFraction    = "DEPOSIT_FRACTION"

	EnvSuggestWindowDays = "SUGGEST_WINDOW_DAYS"
	EnvSuggestMax        = "SUGGEST_MAX"

	EnvPendingTTLHours = "PENDING_TTL_HOURS"
	EnvSweeperInterval = "SWEEPER_INTERVAL"

	EnvCalendarBaseURL  = "CALENDAR_BASE_URL"
	EnvCalendarAPIKey   = "CALENDAR_API_KEY"
	EnvMailerBaseURL    = "MAILER_BASE_URL"
	EnvMailerAPIKey     = "MAILER_API_KEY"
	EnvMailerFrom       = "MAILER_FROM"
	EnvPaymentsBaseURL  = "PAYMENTS_BASE_URL"
	EnvPaymentsAPIKey   = "PAYMENTS_API_KEY"
	EnvRendererBaseURL  = "RENDERER_BASE_URL"
	EnvAnalyticsBaseURL = "ANALYTICS_BASE_URL"
	EnvAnalyticsAPIKey  = "ANALYTICS_API_KEY"
	EnvSessionsBaseURL  = "SESSIONS_BASE_URL"

	EnvPublicBaseURL = "PUBLIC_BASE_URL"

	EnvPaymentWebhookSecret = "PAYMENT_WEBHOOK_SECRET"
	EnvManageTokenKey       = "MANAGE_TOKEN_KEY"
)
