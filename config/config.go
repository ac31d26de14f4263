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
	Server   ServerConfig
	State    StateConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	CORS     CORSConfig
	Catalog  CatalogConfig
	EmailJS  EmailJSConfig
	PayPal   PayPalConfig
	S3       S3Config
	Janitor  JanitorConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
}

// StateConfig selects where per-session cart and gift card state lives.
type StateConfig struct {
	Backend string // memory, redis, postgres
	TTL     time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Every request touches at most two state rows, so a small pool is enough.
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// CatalogConfig points at the gift card catalog. The first non-empty source wins:
// URL, then S3 object, then local file.
type CatalogConfig struct {
	URL      string
	FilePath string
	S3Bucket string
	S3Key    string
}

type EmailJSConfig struct {
	BaseURL            string
	ServiceID          string
	PublicKey          string
	PrivateKey         string
	OwnerTemplateID    string
	CustomerTemplateID string
	GiftCardTemplateID string
}

type PayPalConfig struct {
	Endpoint  string
	Business  string
	Currency  string
	ReturnURL string
	CancelURL string
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type JanitorConfig struct {
	Schedule string
	MaxAge   time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		State: StateConfig{
			Backend: strings.ToLower(getEnv("STATE_BACKEND", "memory")),
			TTL:     parseDuration(getEnv("STATE_TTL", "720h"), 720*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "10"), 10),
			ConnMaxIdleTime: parseDuration(getEnv("DB_CONN_MAX_IDLE_TIME", "5m"), 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "your-secret-key"),
			TTL:        parseDuration(getEnv("SESSION_TTL", "720h"), 720*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "storefront_session"),
			Secure:     parseBool(getEnv("SESSION_COOKIE_SECURE", "false")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Catalog: CatalogConfig{
			URL:      getEnv("GIFTCARD_CATALOG_URL", ""),
			FilePath: getEnv("GIFTCARD_CATALOG_FILE", "./giftcards.json"),
			S3Bucket: getEnv("GIFTCARD_CATALOG_S3_BUCKET", ""),
			S3Key:    getEnv("GIFTCARD_CATALOG_S3_KEY", "giftcards.json"),
		},
		EmailJS: EmailJSConfig{
			BaseURL:            getEnv("EMAILJS_BASE_URL", "https://api.emailjs.com"),
			ServiceID:          getEnv("EMAILJS_SERVICE_ID", "service_bi10zaa"),
			PublicKey:          getEnv("EMAILJS_PUBLIC_KEY", "w-4ksu0owjlvtoxv6"),
			PrivateKey:         getEnv("EMAILJS_PRIVATE_KEY", ""),
			OwnerTemplateID:    getEnv("EMAILJS_OWNER_TEMPLATE_ID", "template_i62fmmo"),
			CustomerTemplateID: getEnv("EMAILJS_CUSTOMER_TEMPLATE_ID", "template_btkl0ii"),
			GiftCardTemplateID: getEnv("EMAILJS_GIFTCARD_TEMPLATE_ID", "template_giftcard_notify"),
		},
		PayPal: PayPalConfig{
			Endpoint:  getEnv("PAYPAL_ENDPOINT", "https://www.paypal.com/cgi-bin/webscr"),
			Business:  getEnv("PAYPAL_BUSINESS", ""),
			Currency:  getEnv("PAYPAL_CURRENCY", "USD"),
			ReturnURL: getEnv("PAYPAL_RETURN_URL", ""),
			CancelURL: getEnv("PAYPAL_CANCEL_URL", ""),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Janitor: JanitorConfig{
			Schedule: getEnv("JANITOR_SCHEDULE", "0 3 * * *"),
			MaxAge:   parseDuration(getEnv("JANITOR_MAX_AGE", "720h"), 720*time.Hour),
		},
	}

	switch config.State.Backend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unsupported STATE_BACKEND %q", config.State.Backend)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
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
	if err != nil {
		return false
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
