package constants

import "time"

// Database
const (
	DatabaseDriverPostgres  = "postgres"
	DatabaseDriverMemory    = "memory"
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // in minutes

	DatabaseStatementTimeout       = 10 * time.Second
	DatabaseLockTimeout            = 5 * time.Second
	DatabaseIdleInTxSessionTimeout = 30 * time.Second
)

// Server
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 7070
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBodyLimit       = "1M"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultTimeout         = 5 * time.Second
)

// Booking
const (
	DefaultReservationTimeout = 8 * time.Second
	MaxRequesterIDLength      = 128
)

// Cache
const (
	DefaultCatalogCacheTTL = 60 * time.Second
	RedisKeyCatalogDoctors = "catalog:doctors"
)

// Queue
const (
	DefaultQueueConcurrency = 5
	QueueDefault            = "default"
)

// Context keys and headers
const (
	ContextRequestID = "request_id"
	HeaderRequestID  = "X-Request-ID"
)
