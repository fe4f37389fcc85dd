package oauth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenFetcher performs exactly one authority round trip per call.
type TokenFetcher interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// ClientCredentials exchanges a client id and secret for an access token
// using the client_credentials grant.
type ClientCredentials struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentials creates a fetcher for the given token endpoint. The
// credentials are posted in the form body, which the fare API requires.
func NewClientCredentials(clientID, clientSecret, tokenURL string, httpClient *http.Client) *ClientCredentials {
	return &ClientCredentials{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
	}
}

// Token requests a fresh token. It never reuses a previous one; caching is the
// CredentialCache's job.
func (c *ClientCredentials) Token(ctx context.Context) (*oauth2.Token, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	return c.config.Token(ctx)
}
