package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "RidePulse"
	AppVersion = "1.0.0"

	// Configuration sources
	EnvPrefix     = "RIDEPULSE"
	ConfigFileEnv = "RIDEPULSE_CONFIG"

	// Dataset
	DefaultDatasetSource = "data/ncr_ride_bookings.csv"
	DefaultLoadTimeout   = 2 * time.Minute

	// Sessions
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultMaxSessions        = 1000

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// WebSocket
	WebSocketPingPeriod      = 30 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketWriteWait       = 10 * time.Second
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
	WebSocketMaxMessageSize  = 8192

	// Export
	DefaultExportDir = "exports"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/app.log"
)

// Endpoints
const (
	APIBasePath       = "/api"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
