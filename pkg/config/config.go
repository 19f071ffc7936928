package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Push     PushConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig covers the bearer check on the API surface. Either the static
// API token or an HS256-signed service JWT is accepted.
type AuthConfig struct {
	APIToken  string
	JWTSecret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PushConfig tunes the delivery pipeline: worker pool sizing, retry policy,
// outbound HTTP behaviour and destination lookup caching.
type PushConfig struct {
	Workers             int
	QueueSize           int
	MaxRetries          int
	RetryBackoff        time.Duration
	RetryBackoffMax     time.Duration
	HTTPTimeout         time.Duration
	StatementNamespace  string
	DestinationCacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		APIToken:  v.GetString("AUTH_API_TOKEN"),
		JWTSecret: v.GetString("AUTH_JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Push = PushConfig{
		Workers:             v.GetInt("PUSH_WORKERS"),
		QueueSize:           v.GetInt("PUSH_QUEUE_SIZE"),
		MaxRetries:          v.GetInt("PUSH_MAX_RETRIES"),
		RetryBackoff:        parseDuration(v.GetString("PUSH_RETRY_BACKOFF"), time.Second),
		RetryBackoffMax:     parseDuration(v.GetString("PUSH_RETRY_BACKOFF_MAX"), 30*time.Second),
		HTTPTimeout:         parseDuration(v.GetString("PUSH_HTTP_TIMEOUT"), 30*time.Second),
		StatementNamespace:  v.GetString("PUSH_STATEMENT_NAMESPACE"),
		DestinationCacheTTL: parseDuration(v.GetString("DESTINATION_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "lms_content_push")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_API_TOKEN", "dev-token-123")
	v.SetDefault("AUTH_JWT_SECRET", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PUSH_WORKERS", 4)
	v.SetDefault("PUSH_QUEUE_SIZE", 64)
	v.SetDefault("PUSH_MAX_RETRIES", 3)
	v.SetDefault("PUSH_RETRY_BACKOFF", "1s")
	v.SetDefault("PUSH_RETRY_BACKOFF_MAX", "30s")
	v.SetDefault("PUSH_HTTP_TIMEOUT", "30s")
	v.SetDefault("PUSH_STATEMENT_NAMESPACE", "http://lms.example.com")
	v.SetDefault("DESTINATION_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
