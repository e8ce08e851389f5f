package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectTimeout     time.Duration
}

// Validate checks the settings required to build a DSN.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.SSLMode, validation.In("disable", "allow", "prefer", "require", "verify-ca", "verify-full")),
		validation.Field(&c.ConnectTimeout, validation.Min(time.Duration(0))),
	)
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// Validate checks the object storage settings.
func (c MinIOConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
		validation.Field(&c.PresignExpiry, validation.Min(time.Second)),
	)
}

// EngagementConfig holds the cut-offs used by the engagement metrics calculator.
// The defaults reproduce the historical business values.
type EngagementConfig struct {
	MaxEventDuration time.Duration
	RateThreshold    float64
}

// Validate checks the engagement cut-offs.
func (c EngagementConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxEventDuration, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.RateThreshold, validation.Min(0.0)),
	)
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Timezone       string
	MaxUploadBytes int
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Engagement     EngagementConfig
}

// Validate validates the whole configuration tree.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Timezone, validation.Required, validation.By(validLocation)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.MinIO.Validate(); err != nil {
		return err
	}
	return c.Engagement.Validate()
}

// Location returns the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 25<<20),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectTimeout:     getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Engagement: EngagementConfig{
			MaxEventDuration: getEnvDuration("ENGAGEMENT_MAX_EVENT_DURATION", 23*time.Hour),
			RateThreshold:    getEnvFloat("ENGAGEMENT_RATE_THRESHOLD", 30),
		},
	}
}

func validLocation(value any) error {
	name, _ := value.(string)
	_, err := time.LoadLocation(name)
	return err
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
