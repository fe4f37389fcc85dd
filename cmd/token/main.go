package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"farefinder-service/internal/infrastructure/config"
	"farefinder-service/internal/infrastructure/oauth"
	"farefinder-service/pkg/logger"
)

// Performs one client credentials exchange against FARE_API_TOKEN_URL and
// reports whether it succeeded and how long the token lives.
func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.FareAPIClientID == "" || cfg.FareAPIClientSecret == "" {
		log.Fatal("FARE_API_CLIENT_ID and FARE_API_CLIENT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FareAPITimeout)
	defer cancel()

	client := oauth.NewClientCredentials(
		cfg.FareAPIClientID,
		cfg.FareAPIClientSecret,
		cfg.FareAPITokenURL,
		&http.Client{Timeout: cfg.FareAPITimeout},
	)

	token, err := client.Token(ctx)
	if err != nil {
		log.Error("Token exchange failed", "tokenUrl", cfg.FareAPITokenURL, "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nToken type: %s\n", token.Type())
	fmt.Printf("Access token: %s\n", mask(token.AccessToken))
	if token.Expiry.IsZero() {
		fmt.Printf("Expires: not reported, CREDENTIAL_TTL fallback is %s\n\n", cfg.CredentialTTL)
		return
	}
	fmt.Printf("Expires: %s (in %s)\n\n", token.Expiry.Format(time.RFC3339), time.Until(token.Expiry).Round(time.Second))
}

func mask(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
