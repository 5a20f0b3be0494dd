package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Paystack
	PaystackSecretKey  string
	PaystackAPIBaseURL string

	// Order pricing (amount in currency subunits, e.g. pesewas)
	OrderAmount   int
	OrderCurrency string

	// EmailJS
	EmailJSBaseURL    string
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	// Sessions
	SessionJWTSecret  string
	SessionQuotaBytes int64
	MaxUploadBytes    int64

	// Composite output
	OutputWidth  int
	OutputHeight int

	// Frame assets; empty means the bundled artwork is used
	FrameAssetBaseURL string

	// Database
	DatabaseURL string

	// Object storage
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool

	// Background jobs
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		PaystackSecretKey:  getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackAPIBaseURL: getEnv("PAYSTACK_API_BASE_URL", "https://api.paystack.co"),

		OrderAmount:   getEnvInt("ORDER_AMOUNT", 2000),
		OrderCurrency: getEnv("ORDER_CURRENCY", "GHS"),

		EmailJSBaseURL:    getEnv("EMAILJS_BASE_URL", "https://api.emailjs.com"),
		EmailJSServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),

		SessionJWTSecret:  getEnv("SESSION_JWT_SECRET", ""),
		SessionQuotaBytes: getEnvInt64("SESSION_QUOTA_BYTES", 8<<20),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		OutputWidth:  getEnvInt("OUTPUT_WIDTH", 1000),
		OutputHeight: getEnvInt("OUTPUT_HEIGHT", 1250),

		FrameAssetBaseURL: getEnv("FRAME_ASSET_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "framecraft"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:    getEnvBool("S3_USE_SSL", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PaystackSecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	if c.SessionJWTSecret == "" {
		return fmt.Errorf("SESSION_JWT_SECRET is required")
	}
	if c.OutputWidth <= 0 || c.OutputHeight <= 0 {
		return fmt.Errorf("OUTPUT_WIDTH and OUTPUT_HEIGHT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
