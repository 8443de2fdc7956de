package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string // Swagger host 설정용

	// Database
	DatabaseURL string

	// JWT (admin only)
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Admin
	AdminEmail        string
	AdminPasswordHash string // bcrypt

	// Geolocation
	GeoPrimaryURL    string
	GeoSecondaryURL  string
	GeoTimeout       time.Duration
	GeoPrimaryPerMin int // ip-api.com free tier: 45 req/min
	GeoCacheTTL      time.Duration
	GeoDefaultLat    float64
	GeoDefaultLng    float64

	// Enquiry rate limit
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitSweep       time.Duration

	// Email (enquiry notification)
	EmailHost          string
	EmailPort          int
	EmailHostUser      string
	EmailHostPassword  string
	EmailUseTLS        bool
	DefaultFromEmail   string
	EnquiryNotifyEmail string

	// Firebase
	FirebaseCredentialsJSON string // K8s Secret, preferred over the path
	FirebaseCredentialsPath string
	FCMEnquiryTopic         string

	// Kafka
	KafkaBrokers      []string
	KafkaEnquiryTopic string

	// SigNoz
	SigNozEndpoint string

	// Metrics
	MetricsInternalOnly bool
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL 우선, 없으면 개별 환경변수로 구성
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Admin
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		// Geolocation
		GeoPrimaryURL:    getEnv("GEO_PRIMARY_URL", "http://ip-api.com"),
		GeoSecondaryURL:  getEnv("GEO_SECONDARY_URL", "https://ipapi.co"),
		GeoTimeout:       time.Duration(getEnvAsInt("GEO_TIMEOUT_SECONDS", 8)) * time.Second,
		GeoPrimaryPerMin: getEnvAsInt("GEO_PRIMARY_REQUESTS_PER_MINUTE", 45),
		GeoCacheTTL:      time.Duration(getEnvAsInt("GEO_CACHE_TTL_MINUTES", 60)) * time.Minute,
		GeoDefaultLat:    getEnvAsFloat("GEO_DEFAULT_LATITUDE", 20.5937),
		GeoDefaultLng:    getEnvAsFloat("GEO_DEFAULT_LONGITUDE", 78.9629),

		// Rate limit
		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 5),
		RateLimitWindow:      time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitSweep:       time.Duration(getEnvAsInt("RATE_LIMIT_SWEEP_SECONDS", 300)) * time.Second,

		// Email
		EmailHost:          getEnv("EMAIL_HOST", ""),
		EmailPort:          getEnvAsInt("EMAIL_PORT", 587),
		EmailHostUser:      getEnv("EMAIL_HOST_USER", ""),
		EmailHostPassword:  getEnv("EMAIL_HOST_PASSWORD", ""),
		EmailUseTLS:        getEnvAsBool("EMAIL_USE_TLS", true),
		DefaultFromEmail:   getEnv("DEFAULT_FROM_EMAIL", ""),
		EnquiryNotifyEmail: getEnv("ENQUIRY_NOTIFY_EMAIL", ""),

		// Firebase
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FCMEnquiryTopic:         getEnv("FCM_ENQUIRY_TOPIC", ""),

		// Kafka
		KafkaBrokers:      getEnvAsList("KAFKA_BROKERS"),
		KafkaEnquiryTopic: getEnv("KAFKA_ENQUIRY_TOPIC", "enquiry.created"),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),

		// Metrics
		MetricsInternalOnly: getEnvAsBool("METRICS_INTERNAL_ONLY", false),
	}
}

// IsProduction reports whether the server runs with SERVER_ENV=production
func (c *Config) IsProduction() bool {
	return c.ServerEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	// 1. DATABASE_URL이 있으면 그대로 사용
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// 2. 개별 환경변수로 구성
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "dukaaon")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
