// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"farefinder-service/internal/domain/entity"

	"github.com/joho/godotenv"
)

// Fare provider modes
const (
	ProviderAmadeus   = "amadeus"
	ProviderSimulated = "simulated"
)

// Lookup and catalog sources
const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
	SourceBuiltin  = "builtin"
	SourceMongo    = "mongo"
)

// Discount selection policies configurable as default
const (
	PolicyBand   = "band"
	PolicyRandom = "random"
)

// Tier strategies and the price they band on
const (
	TierThreshold = "threshold"
	TierRank      = "rank"
	PriceKeyBase  = "base"
	PriceKeyFinal = "final"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Fare API
	FareProvider        string
	FareAPIBaseURL      string
	FareAPITokenURL     string
	FareAPIClientID     string
	FareAPIClientSecret string
	FareAPITimeout      time.Duration
	FareCurrency        string
	FareMaxResults      int
	CredentialTTL       time.Duration
	OfferCacheTTL       time.Duration

	// Lookup tables
	LookupSource string
	PostgresURI  string

	// Offer catalog
	OfferCatalogSource string
	MongoURI           string
	MongoDB            string
	MongoUser          string
	MongoPassword      string

	// Pricing and tiers
	OfferPolicy      string
	TierStrategy     string
	TierT1           float64
	TierT2           float64
	TierPriceKey     string
	TierRankCheapest int
	TierRankModerate int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "farefinder"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		FareProvider:        strings.ToLower(getEnv("FARE_PROVIDER", ProviderSimulated)),
		FareAPIBaseURL:      getEnv("FARE_API_BASE_URL", "https://test.api.amadeus.com"),
		FareAPITokenURL:     getEnv("FARE_API_TOKEN_URL", "https://test.api.amadeus.com/v1/security/oauth2/token"),
		FareAPIClientID:     getEnv("FARE_API_CLIENT_ID", ""),
		FareAPIClientSecret: getEnv("FARE_API_CLIENT_SECRET", ""),
		FareAPITimeout:      time.Duration(getEnvAsInt("FARE_API_TIMEOUT", 30)) * time.Second,
		FareCurrency:        strings.ToUpper(getEnv("FARE_CURRENCY", "INR")),
		FareMaxResults:      getEnvAsInt("FARE_MAX_RESULTS", 20),
		CredentialTTL:       time.Duration(getEnvAsInt("CREDENTIAL_TTL", 1799)) * time.Second,
		OfferCacheTTL:       time.Duration(getEnvAsInt("OFFER_CACHE_TTL", 3600)) * time.Second,

		LookupSource: strings.ToLower(getEnv("LOOKUP_SOURCE", SourceStatic)),
		PostgresURI:  getEnv("POSTGRES_DSN", ""),

		OfferCatalogSource: strings.ToLower(getEnv("OFFER_CATALOG_SOURCE", SourceBuiltin)),
		MongoURI:           getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "farefinder"),
		MongoUser:          getEnv("MONGO_USER", ""),
		MongoPassword:      getEnv("MONGO_PASSWORD", ""),

		OfferPolicy:      strings.ToLower(getEnv("OFFER_POLICY", PolicyBand)),
		TierStrategy:     strings.ToLower(getEnv("TIER_STRATEGY", TierThreshold)),
		TierT1:           getEnvAsFloat("TIER_T1", 4500),
		TierT2:           getEnvAsFloat("TIER_T2", 5200),
		TierPriceKey:     strings.ToLower(getEnv("TIER_PRICE_KEY", PriceKeyBase)),
		TierRankCheapest: getEnvAsInt("TIER_RANK_CHEAPEST", 5),
		TierRankModerate: getEnvAsInt("TIER_RANK_MODERATE", 5),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects unknown enum values and inconsistent settings
func (c *Config) Validate() error {
	if err := oneOf("FARE_PROVIDER", c.FareProvider, ProviderAmadeus, ProviderSimulated); err != nil {
		return err
	}
	if c.FareProvider == ProviderAmadeus && (c.FareAPIClientID == "" || c.FareAPIClientSecret == "") {
		return configErr("FARE_API_CLIENT_ID", "client id and secret are required for the amadeus provider")
	}
	if c.FareMaxResults <= 0 {
		return configErr("FARE_MAX_RESULTS", "must be positive")
	}
	if c.CredentialTTL <= 0 {
		return configErr("CREDENTIAL_TTL", "must be positive")
	}
	if c.OfferCacheTTL < 0 {
		return configErr("OFFER_CACHE_TTL", "must not be negative")
	}
	if err := oneOf("LOOKUP_SOURCE", c.LookupSource, SourceStatic, SourcePostgres); err != nil {
		return err
	}
	if c.LookupSource == SourcePostgres && c.PostgresURI == "" {
		return configErr("POSTGRES_DSN", "required when LOOKUP_SOURCE=postgres")
	}
	if err := oneOf("OFFER_CATALOG_SOURCE", c.OfferCatalogSource, SourceBuiltin, SourceMongo); err != nil {
		return err
	}
	if err := oneOf("OFFER_POLICY", c.OfferPolicy, PolicyBand, PolicyRandom); err != nil {
		return err
	}
	if err := oneOf("TIER_STRATEGY", c.TierStrategy, TierThreshold, TierRank); err != nil {
		return err
	}
	if err := oneOf("TIER_PRICE_KEY", c.TierPriceKey, PriceKeyBase, PriceKeyFinal); err != nil {
		return err
	}
	if c.TierT1 >= c.TierT2 {
		return configErr("TIER_T1", fmt.Sprintf("must be below TIER_T2 (%v >= %v)", c.TierT1, c.TierT2))
	}
	if c.TierRankCheapest < 0 || c.TierRankModerate < 0 {
		return configErr("TIER_RANK_CHEAPEST", "rank sizes must not be negative")
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return configErr(field, fmt.Sprintf("unknown value %q, want one of %s", value, strings.Join(allowed, "|")))
}

func configErr(field, msg string) error {
	return &entity.ConfigurationError{Field: field, Cause: errors.New(msg)}
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
