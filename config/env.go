package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
	CartStoreMemory   = "memory"
)

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	CartStore     string
	CartTTL       time.Duration
	TaxRate       decimal.Decimal
	JWTSecret     string
	JWTExpiry     time.Duration
	OriginURL     string
}

var AppConfig *Config

// LoadConfig reads .env (when present) and the process environment.
// Malformed values fall back to their defaults.
func LoadConfig(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, using system environment variables")
	}

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5454"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "kiosk_order"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "database/migration"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartStore:     strings.ToLower(getEnv("CART_STORE", CartStoreRedis)),
		CartTTL:       getDuration(logger, "CART_TTL", 24*time.Hour),
		TaxRate:       getDecimal(logger, "DEFAULT_TAX_RATE", "0.17"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		JWTExpiry:     getDuration(logger, "JWT_EXPIRY", 24*time.Hour),
		OriginURL:     os.Getenv("ORIGIN_URL"),
	}

	switch cfg.CartStore {
	case CartStoreRedis, CartStorePostgres, CartStoreMemory:
	default:
		logger.Warn("unknown CART_STORE, using redis", zap.String("value", cfg.CartStore))
		cfg.CartStore = CartStoreRedis
	}

	AppConfig = cfg

	logger.Info("configuration loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.Port),
		zap.String("cart_store", cfg.CartStore),
	)
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(logger *zap.Logger, key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return d
}

func getDecimal(logger *zap.Logger, key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Warn("invalid decimal, using default", zap.String("key", key), zap.String("value", raw))
		return decimal.RequireFromString(defaultValue)
	}
	return d
}
