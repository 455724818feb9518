package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// BookingBackend selects where catalog, slots and submissions go: "remote" or "postgres".
	BookingBackend   string
	ClinicAPIBaseURL string
	ClinicAPIKey     string
	ClinicAPITimeout time.Duration
	DatabaseURL      string

	// Draft persistence
	DraftStore     string
	DraftKeyPrefix string
	DraftTTL       time.Duration
	DraftsTable    string
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// Wizard behaviour
	DefaultPhoneRegion    string
	SessionIdleTimeout    time.Duration
	DiscardStaleResponses bool
	CORSAllowedOrigins    []string
	RateLimitRPS          float64
	RateLimitBurst        int

	// Confirmation email
	EmailProvider  string
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	ClinicName     string
	OperatorEmails []string

	// AWS (SES, SQS, DynamoDB)
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	AWSEndpointOverride   string
	BookingEventsQueueURL string
	OutboxPollInterval    time.Duration
	ProcessedEventsTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BookingBackend:   strings.ToLower(strings.TrimSpace(getEnv("BOOKING_BACKEND", "remote"))),
		ClinicAPIBaseURL: strings.TrimRight(getEnv("CLINIC_API_BASE_URL", ""), "/"),
		ClinicAPIKey:     getEnv("CLINIC_API_KEY", ""),
		ClinicAPITimeout: getEnvAsDuration("CLINIC_API_TIMEOUT", 20*time.Second),
		DatabaseURL:      getEnv("DATABASE_URL", ""),

		DraftStore:     strings.ToLower(strings.TrimSpace(getEnv("DRAFT_STORE", "memory"))),
		DraftKeyPrefix: getEnv("DRAFT_KEY_PREFIX", "bookingState"),
		DraftTTL:       getEnvAsDuration("DRAFT_TTL", 7*24*time.Hour),
		DraftsTable:    getEnv("DRAFTS_TABLE", "booking_drafts"),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		DefaultPhoneRegion:    strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "VN")),
		SessionIdleTimeout:    getEnvAsDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		DiscardStaleResponses: getEnvAsBool("WIZARD_DISCARD_STALE_RESPONSES", false),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 20),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Clinic Bookings"),
		ClinicName:     getEnv("CLINIC_NAME", ""),
		OperatorEmails: getEnvAsList("OPERATOR_EMAILS"),

		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:   getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BookingEventsQueueURL: getEnv("BOOKING_EVENTS_QUEUE_URL", ""),
		OutboxPollInterval:    getEnvAsDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		ProcessedEventsTTL:    getEnvAsDuration("PROCESSED_EVENTS_TTL", 30*24*time.Hour),
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
