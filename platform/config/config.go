// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetAppBaseURL() string
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetMaxUploadBytes() int64
}

// StorageConfig selects and configures the artifact store backend.
type StorageConfig interface {
	GetStorageBackend() string
	GetStorageDir() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketArtifacts() string
	IsMinIOEnabled() bool
}

// EmailConfig provides settings for SMTP delivery.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SchedulerConfig provides settings for the Redis-backed task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// AgreementConfig provides agreement pipeline settings.
type AgreementConfig interface {
	GetAgreementStrict() bool
	GetAgreementStepTimeout() time.Duration
	GetAgreementAutoGenerate() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	AppBaseURL            string
	DatabaseURL           string
	CORSOrigins           []string
	CORSAllowCreds        bool
	MaxUploadBytes        int64
	StorageBackend        string
	StorageDir            string
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketArtifacts  string
	EmailEnabled          bool
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	AgreementStrict       bool
	AgreementStepTimeout  time.Duration
	AgreementAutoGenerate bool
}

const (
	// StorageBackendLocal stores artifacts on the local filesystem.
	StorageBackendLocal = "local"
	// StorageBackendMinIO stores artifacts in a MinIO bucket.
	StorageBackendMinIO = "minio"
)

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetMaxUploadBytes() int64 { return c.MaxUploadBytes }

// StorageConfig implementation
func (c *Config) GetStorageBackend() string { return c.StorageBackend }
func (c *Config) GetStorageDir() string     { return c.StorageDir }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketArtifacts() string { return c.MinioBucketArtifacts }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// AgreementConfig implementation
func (c *Config) GetAgreementStrict() bool               { return c.AgreementStrict }
func (c *Config) GetAgreementStepTimeout() time.Duration { return c.AgreementStepTimeout }
func (c *Config) GetAgreementAutoGenerate() bool         { return c.AgreementAutoGenerate }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		AppBaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		MaxUploadBytes:        mustInt64(getEnv("MAX_UPLOAD_BYTES", "10485760")),
		StorageBackend:        strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendLocal)),
		StorageDir:            getEnv("STORAGE_DIR", "."),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketArtifacts:  getEnv("MINIO_BUCKET_ARTIFACTS", "rental-artifacts"),
		EmailEnabled:          emailEnabled && smtpHost != "",
		SMTPHost:              smtpHost,
		SMTPPort:              int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:          getEnv("SMTP_USER", ""),
		SMTPPassword:          getEnv("SMTP_PASS", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "Drive KL Executive"),
		EmailFromAddress:      getEnv("SMTP_FROM", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		AgreementStrict:       strings.EqualFold(getEnv("AGREEMENT_STRICT", "false"), "true"),
		AgreementStepTimeout:  mustDuration(getEnv("AGREEMENT_STEP_TIMEOUT", "30s")),
		AgreementAutoGenerate: strings.EqualFold(getEnv("AGREEMENT_AUTO_GENERATE", "false"), "true"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.StorageBackend {
	case StorageBackendLocal:
	case StorageBackendMinIO:
		if !c.IsMinIOEnabled() {
			return fmt.Errorf("MINIO_ENDPOINT is required when STORAGE_BACKEND is minio")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.EmailEnabled && c.EmailFromAddress == "" {
		return fmt.Errorf("SMTP_FROM is required when email is enabled")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.AgreementAutoGenerate && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when AGREEMENT_AUTO_GENERATE is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
