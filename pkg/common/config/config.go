package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	CORSOrigin     string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Current assessment result slot
	CurrentResultTTL time.Duration

	// Kafka
	KafkaBrokers          []string
	KafkaGroupID          string
	KafkaAssessmentTopic  string
	KafkaEmergencyTopic   string
	NotifierHighRiskAlert bool

	// Sessions
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	SessionTTL  time.Duration

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Remote scoring service; empty means score locally
	ScoringServiceURL      string
	ScoringRequestTimeout  time.Duration
	ScoringRetryAttempts   int
	ScoringRetryBaseDelay  time.Duration
	GuidanceCatalogPath    string
	RetestInterval         time.Duration
	DoctorPriorityListSize int

	// Gateway specific
	GatewayRateLimitRPS   int
	GatewayRateLimitBurst int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "strokecare"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "strokecare123"),
		PostgresDB:       getEnv("POSTGRES_DB", "strokecare"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		CurrentResultTTL: getDuration("CURRENT_RESULT_TTL", 24*time.Hour),

		KafkaBrokers:          getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:          getEnv("KAFKA_GROUP_ID", "strokecare-notifier"),
		KafkaAssessmentTopic:  getEnv("KAFKA_ASSESSMENT_TOPIC", "stroke.assessments"),
		KafkaEmergencyTopic:   getEnv("KAFKA_EMERGENCY_TOPIC", "stroke.emergencies"),
		NotifierHighRiskAlert: getBoolEnv("NOTIFIER_HIGH_RISK_ALERT", true),

		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production-please"),
		JWTIssuer:   getEnv("JWT_ISSUER", "strokecare"),
		JWTAudience: getEnv("JWT_AUDIENCE", "strokecare-api"),
		SessionTTL:  getDuration("SESSION_TTL", 12*time.Hour),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:8080/api/v1/auth/oidc/callback"),

		ScoringServiceURL:      getEnv("SCORING_SERVICE_URL", ""),
		ScoringRequestTimeout:  getDuration("SCORING_REQUEST_TIMEOUT", 5*time.Second),
		ScoringRetryAttempts:   getIntEnv("SCORING_RETRY_ATTEMPTS", 3),
		ScoringRetryBaseDelay:  getDuration("SCORING_RETRY_BASE_DELAY", 200*time.Millisecond),
		GuidanceCatalogPath:    getEnv("GUIDANCE_CATALOG_PATH", ""),
		RetestInterval:         getDuration("RETEST_INTERVAL", 90*24*time.Hour),
		DoctorPriorityListSize: getIntEnv("DOCTOR_PRIORITY_LIST_SIZE", 10),

		GatewayRateLimitRPS:   getIntEnv("GATEWAY_RATE_LIMIT_RPS", 50),
		GatewayRateLimitBurst: getIntEnv("GATEWAY_RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
