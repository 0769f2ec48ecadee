package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all environment-driven settings for the checkout service.
// Jurisdiction rules (minimum age, postal format, tax rate, fees) are
// configuration, not constants, so one deployment per region works.
type Config struct {
	Port string
	Env  string

	RedisURL   string
	SessionTTL time.Duration

	KafkaBrokers string
	KafkaTopic   string

	CartServiceURL      string
	PromotionServiceURL string
	PickupServiceURL    string
	PaymentTokenURL     string
	OrderServiceURL     string

	MinimumAge            int
	PostalCodePattern     string
	TaxRate               decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	ServiceFee            decimal.Decimal
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		RedisURL:   getEnv("REDIS_URL", "redis://redis:6379"),
		SessionTTL: getEnvDuration("SESSION_TTL", 2*time.Hour),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "checkout.events"),

		CartServiceURL:      getEnv("CART_SERVICE_URL", "http://cart-service:8086"),
		PromotionServiceURL: getEnv("PROMOTION_SERVICE_URL", "http://promotion-service:8091"),
		PickupServiceURL:    getEnv("PICKUP_SERVICE_URL", "http://store-service:8092"),
		PaymentTokenURL:     getEnv("PAYMENT_TOKEN_URL", "http://payment-service:8089"),
		OrderServiceURL:     getEnv("ORDER_SERVICE_URL", "http://order-service:8088"),

		MinimumAge:            getEnvInt("MINIMUM_AGE", 19),
		PostalCodePattern:     getEnv("POSTAL_CODE_PATTERN", `^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`),
		TaxRate:               getEnvDecimal("TAX_RATE", "0.13"),
		DeliveryFee:           getEnvDecimal("DELIVERY_FEE", "5.99"),
		FreeDeliveryThreshold: getEnvDecimal("FREE_DELIVERY_THRESHOLD", "50.00"),
		ServiceFee:            getEnvDecimal("SERVICE_FEE", "0.00"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvDecimal(key, defaultVal string) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultVal)
}
