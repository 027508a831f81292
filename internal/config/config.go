package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3BucketName   string
	IndexObjectKey string // S3 key the verified-index snapshot is published under
	SNSTopicARN    string // downstream workflow topic; empty disables fan-out

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	AdminPasswordHash string // bcrypt hash; empty disables the admin surface

	RedisAddr     string
	SweepInterval time.Duration
	TokenTTL      time.Duration

	PublicBaseURL  string // prefix for verification links in emails
	AllowedOrigins []string

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// DynamoTables holds the DynamoDB table name for each collection.
type DynamoTables struct {
	Tokens        string
	Reviews       string
	VerifiedIndex string
	AuditLog      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Tokens:        getEnv("DYNAMO_TABLE_TOKENS", "verification_tokens"),
			Reviews:       getEnv("DYNAMO_TABLE_REVIEWS", "reviews"),
			VerifiedIndex: getEnv("DYNAMO_TABLE_VERIFIED_INDEX", "verified_index"),
			AuditLog:      getEnv("DYNAMO_TABLE_AUDIT_LOG", "verification_audit"),
		},

		S3BucketName:   getEnv("S3_BUCKET_NAME", "review-site-data"),
		IndexObjectKey: getEnv("S3_INDEX_OBJECT_KEY", "reviews/verified/index.json"),
		SNSTopicARN:    getEnv("SNS_TOPIC_ARN", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "reviews@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 12*time.Hour),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Hour),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 48*time.Hour),

		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
