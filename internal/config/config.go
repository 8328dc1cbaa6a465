// Package config loads server configuration from the environment (and an
// optional .env file), the seam the teacher's app/server.go refers to as
// config.Load() but whose source wasn't retrieved. Its getEnv/getEnvAsInt
// shape is modeled on 0DukePan-multi_rooms_chat_back's
// internal/config/config.go.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable setting of the server.
type Config struct {
	// ServerAddr is the host:port the HTTP/WebSocket listener binds to.
	// Overridden by the CLI's positional "ip" argument when present.
	ServerAddr string
	// LogLevel is read from PLANNER_LOG_LEVEL (default "warn"). The server
	// does not consult it: the log level comes from the CLI -v count alone.
	LogLevel string
	// DatabaseURL, if non-empty, enables the PostgresArchiver. Empty
	// means NoopArchiver, matching spec.md's Non-goal of no durable
	// storage by default.
	DatabaseURL string
	// HeartbeatInterval is how often every connected user is pinged.
	HeartbeatInterval time.Duration
	// MaxOutboundQueue caps a user's outbound queue depth; enqueueing onto
	// a full queue evicts the oldest queued frame (see SPEC_FULL.md §9.3).
	MaxOutboundQueue int
	// MetricsAddr is the address the /metrics endpoint is additionally
	// exposed on. Empty disables it.
	MetricsAddr string
}

// Load reads configuration from the environment, applying a best-effort
// .env file first (a missing .env is not an error, matching the posture
// of every example repo that calls godotenv.Load()).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:        getEnv("PLANNER_ADDR", "127.0.0.1:10999"),
		LogLevel:          getEnv("PLANNER_LOG_LEVEL", "warn"),
		DatabaseURL:       getEnv("PLANNER_DATABASE_URL", ""),
		HeartbeatInterval: getEnvAsDuration("PLANNER_HEARTBEAT_INTERVAL", 45*time.Second),
		MaxOutboundQueue:  getEnvAsInt("PLANNER_MAX_OUTBOUND_QUEUE", 4096),
		MetricsAddr:       getEnv("PLANNER_METRICS_ADDR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
