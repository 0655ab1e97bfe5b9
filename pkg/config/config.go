package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort     int
	RequestTimeout time.Duration
	CORSOrigins    []string
	RateLimit      float64

	DBDriver    string
	DatabaseURL string

	JWTSecret       []byte
	JWTKeyID        string
	JWTPreviousKeys map[string][]byte
	TokenTTL        time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisURL string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "marketplace"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort:     EnvIntDefault("SERVER_PORT", 8080),
		RequestTimeout: EnvDurationDefault("REQUEST_TIMEOUT", 15*time.Second),
		CORSOrigins:    CSV(os.Getenv("CORS_ORIGINS")),
		RateLimit:      EnvFloatDefault("RATE_LIMIT", 0),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		JWTKeyID:        EnvDefault("JWT_KEY_ID", "primary"),
		JWTPreviousKeys: KeyPairs(os.Getenv("JWT_PREVIOUS_KEYS")),
		TokenTTL:        EnvDurationDefault("TOKEN_TTL", 7*24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RedisURL: os.Getenv("REDIS_URL"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// KeyPairs parses "kid1:secret1,kid2:secret2". Entries without a colon or
// with an empty side are skipped.
func KeyPairs(v string) map[string][]byte {
	out := make(map[string][]byte)
	for _, p := range CSV(v) {
		kid, secret, ok := strings.Cut(p, ":")
		kid = strings.TrimSpace(kid)
		if !ok || kid == "" || secret == "" {
			continue
		}
		out[kid] = []byte(secret)
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
