package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Storage   StorageConfig
	S3        S3Config
	ShortLink ShortLinkConfig
	Limits    LimitsConfig
	Superuser SuperuserConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port         string
	GinMode      string
	Environment  string
	AllowedHosts []string
	Debug        bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing settings. Secret falls back to SECRET_KEY.
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig is optional. When disabled, revoked tokens are kept in the database.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects where uploaded recipe images and avatars go.
type StorageConfig struct {
	Driver    string // "local" or "s3"
	MediaRoot string
	MediaURL  string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// Bounds of SHORT_LINK_LENGTH; the recipes.short_link column is varchar(16).
const (
	MinShortLinkLength = 4
	MaxShortLinkLength = 16
)

type ShortLinkConfig struct {
	BaseURL     string
	RecipePage  string // redirect target, "%d" receives the recipe id
	TokenLength int
}

type LimitsConfig struct {
	MaxIngredientAmount int
	MaxCookingTime      int
	DefaultPageSize     int
	MaxPageSize         int
}

type SuperuserConfig struct {
	Username string
	Email    string
	Password string
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	secret := getEnv("SECRET_KEY", "change-me-in-production")

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			GinMode:      getEnv("GIN_MODE", "debug"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowedHosts: parseSlice(getEnv("ALLOWED_HOSTS", "localhost,127.0.0.1")),
			Debug:        parseBool(getEnv("DEBUG", "false")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "foodgram"),
			Password: getEnv("POSTGRES_PASSWORD", "foodgram"),
			DBName:   getEnv("POSTGRES_DB", "foodgram"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", secret),
			AccessTokenExpiry: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "24h"), 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			MediaRoot: getEnv("MEDIA_ROOT", "./media"),
			MediaURL:  getEnv("MEDIA_URL", "/media"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "foodgram-media"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		ShortLink: ShortLinkConfig{
			BaseURL:     strings.TrimRight(getEnv("SHORT_LINK_BASE_URL", "https://foodgram.example.org"), "/"),
			RecipePage:  getEnv("RECIPE_PAGE_URL", "/recipes/%d"),
			TokenLength: parseInt(getEnv("SHORT_LINK_LENGTH", "6"), 6),
		},
		Limits: LimitsConfig{
			MaxIngredientAmount: parseInt(getEnv("MAX_INGREDIENT_AMOUNT", "10000"), 10000),
			MaxCookingTime:      parseInt(getEnv("MAX_COOKING_TIME", "32000"), 32000),
			DefaultPageSize:     parseInt(getEnv("PAGE_SIZE", "6"), 6),
			MaxPageSize:         parseInt(getEnv("MAX_PAGE_SIZE", "100"), 100),
		},
		Superuser: SuperuserConfig{
			Username: getEnv("DEFAULT_SU_NAME", ""),
			Email:    getEnv("DEFAULT_SU_MAIL", ""),
			Password: getEnv("DEFAULT_SU_PASSWORD", ""),
		},
		Metrics: MetricsConfig{
			Enabled: parseBool(getEnv("METRICS_ENABLED", "true")),
		},
	}

	if config.Storage.Driver != "local" && config.Storage.Driver != "s3" {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.Storage.Driver)
	}
	if n := config.ShortLink.TokenLength; n < MinShortLinkLength || n > MaxShortLinkLength {
		return nil, fmt.Errorf("SHORT_LINK_LENGTH must be between %d and %d, got %d",
			MinShortLinkLength, MaxShortLinkLength, n)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// HasSuperuser reports whether bootstrap credentials were supplied.
func (c *SuperuserConfig) HasSuperuser() bool {
	return c.Username != "" && c.Email != "" && c.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
