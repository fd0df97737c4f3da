package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Storage
	StoreDriver   string // redis or sqlite
	RedisURI      string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	Namespace     string

	// Session
	JWTSecret  string
	SessionTTL time.Duration
	// Requests without a token act as the last user who logged in.
	LocalSessionFallback bool

	// Artificial latency standing in for ledger round trips
	SignDelay    time.Duration
	ProposeDelay time.Duration

	PersistOutcomes bool
	SeedDemo        bool

	// Categorization advisor
	AdvisorURL     string
	AdvisorAPIKey  string
	AdvisorModel   string
	AdvisorTimeout time.Duration

	// Logging
	LogLevel     string
	LogFile      string
	LogErrorFile string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found, using environment variables")
	}
}

func Load() Config {
	return Config{
		Port:                 GetEnv("PORT", "8080"),
		StoreDriver:          GetEnv("STORE_DRIVER", "redis"),
		RedisURI:             GetEnv("REDIS_URI", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		SQLitePath:           GetEnv("SQLITE_PATH", "petitions.db"),
		Namespace:            GetEnv("STORAGE_NAMESPACE", "decentralizeit"),
		JWTSecret:            GetEnv("JWT_SECRET", "decentralizeit-dev-secret"),
		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
		LocalSessionFallback: getEnvBool("LOCAL_SESSION_FALLBACK", false),
		SignDelay:            getEnvDuration("SIGN_DELAY", 1500*time.Millisecond),
		ProposeDelay:         getEnvDuration("PROPOSE_DELAY", 1000*time.Millisecond),
		PersistOutcomes:      getEnvBool("PERSIST_OUTCOMES", false),
		SeedDemo:             getEnvBool("SEED_DEMO", false),
		AdvisorURL:           GetEnv("ADVISOR_URL", ""),
		AdvisorAPIKey:        GetEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:         GetEnv("ADVISOR_MODEL", "gemini-2.0-flash"),
		AdvisorTimeout:       getEnvDuration("ADVISOR_TIMEOUT", 15*time.Second),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFile:              GetEnv("LOG_FILE", ""),
		LogErrorFile:         GetEnv("LOG_ERROR_FILE", ""),
	}
}

func GetEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
