package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Env     string
	APIPort string

	StoreDriver string
	MongoURL    string
	DBName      string

	JWTSecret []byte

	RazorpayKeyID        string
	RazorpayKeySecret    string
	PaymentCurrency      string
	PaymentFXRate        float64 // 0 disables conversion
	PaymentReceiptPrefix string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimitPerMinute int
	RequestTimeout         time.Duration
}

// Load reads .env (if present) and the process environment once.
// The returned config is meant to be handed to constructors.
func Load() (*Config, error) {
	// A missing .env is fine, env vars may come from the container.
	_ = godotenv.Load()

	cfg := &Config{
		Env:     getEnv("APP_ENV", "development"),
		APIPort: getEnv("API_PORT", "8000"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURL:    getEnv("MONGO_URL", ""),
		DBName:      getEnv("DB_NAME", ""),

		JWTSecret: []byte(getEnv("JWT_SECRET", "")),

		RazorpayKeyID:        getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:    getEnv("RAZORPAY_KEY_SECRET", ""),
		PaymentCurrency:      strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),
		PaymentFXRate:        getEnvAsFloat("PAYMENT_FX_RATE", 0),
		PaymentReceiptPrefix: getEnv("PAYMENT_RECEIPT_PREFIX", "rcpt_"),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AuthRateLimitPerMinute: getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		RequestTimeout:         time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURL == "" || c.DBName == "" {
			return errors.New("config: MONGO_URL and DB_NAME are required for the mongo store")
		}
	case StoreMemory:
	default:
		return errors.New("config: STORE_DRIVER must be 'mongo' or 'memory'")
	}
	if c.PaymentFXRate < 0 {
		return errors.New("config: PAYMENT_FX_RATE must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
