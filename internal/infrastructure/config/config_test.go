package config

import (
	"errors"
	"testing"
	"time"

	"farefinder-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"FARE_PROVIDER", "TIER_T1", "TIER_T2", "OFFER_CACHE_TTL", "LOOKUP_SOURCE", "OFFER_POLICY", "TIER_STRATEGY", "TIER_PRICE_KEY", "CREDENTIAL_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderSimulated, cfg.FareProvider)
	assert.Equal(t, 4500.0, cfg.TierT1)
	assert.Equal(t, 5200.0, cfg.TierT2)
	assert.Equal(t, 3600*time.Second, cfg.OfferCacheTTL)
	assert.Equal(t, 1799*time.Second, cfg.CredentialTTL)
	assert.Equal(t, SourceStatic, cfg.LookupSource)
	assert.Equal(t, PolicyBand, cfg.OfferPolicy)
	assert.Equal(t, TierThreshold, cfg.TierStrategy)
	assert.Equal(t, PriceKeyBase, cfg.TierPriceKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TIER_STRATEGY", "RANK")
	t.Setenv("TIER_RANK_CHEAPEST", "2")
	t.Setenv("TIER_RANK_MODERATE", "3")
	t.Setenv("FARE_CURRENCY", "eur")
	t.Setenv("OFFER_CACHE_TTL", "3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, TierRank, cfg.TierStrategy)
	assert.Equal(t, 2, cfg.TierRankCheapest)
	assert.Equal(t, 3, cfg.TierRankModerate)
	assert.Equal(t, "EUR", cfg.FareCurrency)
	assert.Equal(t, 3000*time.Second, cfg.OfferCacheTTL)
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"unknown provider", map[string]string{"FARE_PROVIDER": "skyscanner"}, "FARE_PROVIDER"},
		{"amadeus without credentials", map[string]string{"FARE_PROVIDER": "amadeus", "FARE_API_CLIENT_ID": "", "FARE_API_CLIENT_SECRET": ""}, "FARE_API_CLIENT_ID"},
		{"inverted thresholds", map[string]string{"TIER_T1": "6000", "TIER_T2": "5000"}, "TIER_T1"},
		{"equal thresholds", map[string]string{"TIER_T1": "5000", "TIER_T2": "5000"}, "TIER_T1"},
		{"unknown price key", map[string]string{"TIER_PRICE_KEY": "total"}, "TIER_PRICE_KEY"},
		{"unknown policy", map[string]string{"OFFER_POLICY": "cheapest"}, "OFFER_POLICY"},
		{"negative rank", map[string]string{"TIER_RANK_CHEAPEST": "-1"}, "TIER_RANK_CHEAPEST"},
		{"postgres without dsn", map[string]string{"LOOKUP_SOURCE": "postgres", "POSTGRES_DSN": ""}, "POSTGRES_DSN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cerr *entity.ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "")
	assert.Equal(t, 42, getEnvAsInt("TEST_ENV_INT", 42))

	t.Setenv("TEST_ENV_INT", "100")
	assert.Equal(t, 100, getEnvAsInt("TEST_ENV_INT", 42))

	t.Setenv("TEST_ENV_INT", "invalid")
	assert.Equal(t, 42, getEnvAsInt("TEST_ENV_INT", 42))
}
