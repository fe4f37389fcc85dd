package simulated

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Authority is an in-process token issuer. It stands in for the client
// credentials endpoint when no real fare API is configured.
type Authority struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	issued map[string]time.Time
}

// NewAuthority creates an authority whose tokens live for ttl.
func NewAuthority(ttl time.Duration) *Authority {
	return &Authority{
		ttl:    ttl,
		now:    time.Now,
		issued: make(map[string]time.Time),
	}
}

// WithClock replaces the time source.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
	return a
}

// Token issues a fresh bearer token.
func (a *Authority) Token(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	expiry := now.Add(a.ttl)
	value := uuid.NewString()
	a.issued[value] = expiry

	// drop what can no longer be presented
	for tok, exp := range a.issued {
		if !now.Before(exp) {
			delete(a.issued, tok)
		}
	}

	return &oauth2.Token{
		AccessToken: value,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

// Verify reports whether token was issued here and has not expired.
func (a *Authority) Verify(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.issued[token]
	return ok && a.now().Before(exp)
}

// Revoke forgets a token so its next use is rejected.
func (a *Authority) Revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.issued, token)
}

// Issued returns the number of live tokens.
func (a *Authority) Issued() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.issued)
}
