package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"
)

// CredentialCache holds the single live access credential. The check and the
// refresh happen under one lock so concurrent callers trigger at most one
// authority call.
type CredentialCache struct {
	mu          sync.Mutex
	fetcher     TokenFetcher
	fallbackTTL time.Duration
	now         func() time.Time
	current     *entity.Credential
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewCredentialCache creates an empty cache. fallbackTTL applies when the
// authority does not report an expiry.
func NewCredentialCache(fetcher TokenFetcher, fallbackTTL time.Duration, logger logger.Logger, m *metrics.Metrics) *CredentialCache {
	return &CredentialCache{
		fetcher:     fetcher,
		fallbackTTL: fallbackTTL,
		now:         time.Now,
		logger:      logger,
		metrics:     m,
	}
}

// WithClock replaces the time source.
func (c *CredentialCache) WithClock(now func() time.Time) *CredentialCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Credential returns the cached credential while it is valid, otherwise it
// refreshes from the authority. A failed refresh leaves the cache empty.
func (c *CredentialCache) Credential(ctx context.Context) (entity.Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.current != nil && c.current.ValidAt(now) {
		return *c.current, nil
	}
	c.current = nil

	token, err := c.fetcher.Token(ctx)
	if err != nil {
		c.metrics.IncAuthorityCall("failure")
		c.logger.Error("Credential refresh failed", "error", err)
		return entity.Credential{}, &entity.AuthFailure{Cause: err}
	}
	c.metrics.IncAuthorityCall("success")

	if token == nil || token.AccessToken == "" {
		return entity.Credential{}, &entity.AuthFailure{Cause: errors.New("authority returned an empty access token")}
	}

	ttl := c.fallbackTTL
	if !token.Expiry.IsZero() {
		ttl = token.Expiry.Sub(now)
	}
	if ttl <= 0 {
		return entity.Credential{}, &entity.AuthFailure{Cause: fmt.Errorf("authority returned a token with no remaining lifetime (%s)", ttl)}
	}

	cred := entity.Credential{Value: token.AccessToken, IssuedAt: now, TTL: ttl}
	c.current = &cred
	c.logger.Debug("Credential refreshed", "expiresAt", cred.ExpiresAt().Format(time.RFC3339))

	return cred, nil
}

// Invalidate discards the cached credential unconditionally.
func (c *CredentialCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// Cached reports whether a credential is currently held, valid or not.
func (c *CredentialCache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}
