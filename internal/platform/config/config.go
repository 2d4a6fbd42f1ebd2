package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "rentwise/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	CacheTTL      time.Duration
	JWTSigningKey string
	JWTIssuer     string
	Kafka         KafkaConfig
	LogLevel      slog.Level
}

// RedisConfig configures the shared profile cache. An empty URL selects the
// in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures profile event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

const defaultEventsTopic = "profile-events"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; production deployments set JWT_SIGNING_KEY.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:        envOr("PROFILE_SERVICE_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		CacheTTL:      envDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		Kafka: KafkaConfig{
			Brokers: strutil.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			Topic:   envOr("PROFILE_EVENTS_TOPIC", defaultEventsTopic),
		},
		LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}
