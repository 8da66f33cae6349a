package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "castlehire"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBusinessTimezone = "Europe/London"
	DefaultBookingDayStart  = "09:00"
	DefaultBookingDayEnd    = "18:00"
	DefaultMinNoticeHours   = 48
	DefaultMaxAdvanceDays   = 365

	DefaultOvernightSurcharge = 45.0
	DefaultDepositFraction    = 0.25

	DefaultSuggestWindowDays = 14
	DefaultSuggestMax        = 5

	DefaultMailerFrom    = "bookings@castlehire.example"
	DefaultPublicBaseURL = "https://castlehire.example"

	DefaultPendingTTLHours = 72
	DefaultSweeperInterval = 15 * time.Minute

	DefaultPaginationLimit = 100
)
