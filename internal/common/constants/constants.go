package constants

import "time"

const (
	ImageURLMaxLength = 2048
	TextMaxLength     = 4000

	SessionSecretMinLength = 32
	SessionTokenSize       = 32

	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAPIHTTPPort = "8080"
	DefaultSQLitePath  = "file:puppies.db"

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	DefaultRequestTimeout = 5 * time.Second
	DefaultSessionTTL     = 24 * time.Hour

	SessionCleanupInterval = 10 * time.Minute

	LikeStreamSendBufSize = 64
	LikeStreamWriteWait   = 10 * time.Second
	LikeStreamPongWait    = 60 * time.Second
	LikeStreamPingPeriod  = (LikeStreamPongWait * 9) / 10
	LikeStreamMaxMsgSize  = 512

	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
