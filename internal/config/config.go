package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string
	DatabaseURL   string

	// Business hours used by the slot generator and booking validator.
	BusinessTimezone  string
	BusinessOpenHour  int
	BusinessCloseHour int
	BusinessOffDay    time.Weekday
	SlotWidthMinutes  int

	// Booking rules.
	MinLeadTime  time.Duration
	ModifyCutoff time.Duration
	CORSOrigins  []string

	// Redis-backed per-technician booking lock, for deployments where the
	// store cannot provide transactional isolation.
	UseRedisLock  bool
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	RedisLockTTL  time.Duration

	// AWS (SQS notification queue, SES email).
	AWSRegion            string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	AWSEndpointOverride  string
	NotificationQueueURL string
	EmailProvider        string

	// SendGrid / SES email senders.
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	// Gemini classifier.
	GeminiAPIKey  string
	GeminiModelID string

	// Circuit breaker around the LLM classifier.
	BreakerFailureThreshold int
	BreakerCooldown         time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		BusinessTimezone:  getEnv("BUSINESS_TIMEZONE", "America/New_York"),
		BusinessOpenHour:  getEnvAsInt("BUSINESS_OPEN_HOUR", 9),
		BusinessCloseHour: getEnvAsInt("BUSINESS_CLOSE_HOUR", 17),
		BusinessOffDay:    time.Weekday(getEnvAsInt("BUSINESS_OFF_DAY", int(time.Sunday))),
		SlotWidthMinutes:  getEnvAsInt("SLOT_WIDTH_MINUTES", 60),

		MinLeadTime:   getEnvAsDuration("BOOKING_MIN_LEAD_TIME", 30*time.Minute),
		ModifyCutoff:  getEnvAsDuration("BOOKING_MODIFY_CUTOFF", 24*time.Hour),
		CORSOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS"),
		UseRedisLock:  getEnvAsBool("USE_REDIS_LOCK", false),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		RedisLockTTL:  getEnvAsDuration("REDIS_LOCK_TTL", 10*time.Second),

		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:  getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		NotificationQueueURL: getEnv("NOTIFICATION_QUEUE_URL", ""),
		EmailProvider:        strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "HomePros Booking"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "HomePros Booking"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		BreakerFailureThreshold: getEnvAsInt("LLM_BREAKER_FAILURE_THRESHOLD", 3),
		BreakerCooldown:         getEnvAsDuration("LLM_BREAKER_COOLDOWN", 30*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
