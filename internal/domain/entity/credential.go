package entity

import "time"

// Credential is a bearer token issued by the authority endpoint.
type Credential struct {
	Value    string
	IssuedAt time.Time
	TTL      time.Duration
}

// ExpiresAt returns the instant after which the credential must not be used.
func (c Credential) ExpiresAt() time.Time {
	return c.IssuedAt.Add(c.TTL)
}

// ValidAt reports whether the credential can still be presented at now.
func (c Credential) ValidAt(now time.Time) bool {
	if c.Value == "" || c.TTL <= 0 {
		return false
	}
	return now.Before(c.ExpiresAt())
}
