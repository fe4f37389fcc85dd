package entity

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidQuery marks a search request that violates a precondition.
	ErrInvalidQuery = errors.New("invalid search query")
	// ErrNotFound is returned by lookup repositories for unknown codes.
	ErrNotFound = errors.New("not found")
)

// AuthFailure means the authority endpoint was unreachable or refused the client.
type AuthFailure struct {
	Cause error
}

func (e *AuthFailure) Error() string {
	return fmt.Sprintf("auth failure: %v", e.Cause)
}

func (e *AuthFailure) Unwrap() error { return e.Cause }

// SearchFailure means the provider rejected the query or could not be reached.
// StatusCode is zero when no response was received.
type SearchFailure struct {
	StatusCode int
	Cause      error
}

func (e *SearchFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search failure (status %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("search failure: %v", e.Cause)
}

func (e *SearchFailure) Unwrap() error { return e.Cause }

// NormalizationKind categorizes why a raw offer was rejected.
type NormalizationKind string

const (
	KindUnknownCarrier   NormalizationKind = "unknown_carrier"
	KindMissingSegment   NormalizationKind = "missing_segment"
	KindBadTimestamp     NormalizationKind = "bad_timestamp"
	KindNegativeDuration NormalizationKind = "negative_duration"
	KindBadPrice         NormalizationKind = "bad_price"
	KindLookupFailed     NormalizationKind = "lookup_failed"
)

// NormalizationError rejects a single raw offer; the batch continues without it.
type NormalizationError struct {
	OfferID string
	Kind    NormalizationKind
	Cause   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize offer %q: %s: %v", e.OfferID, e.Kind, e.Cause)
}

func (e *NormalizationError) Unwrap() error { return e.Cause }

// ConfigurationError is fatal at startup.
type ConfigurationError struct {
	Field string
	Cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Field, e.Cause)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// ProviderError carries the status and body of a non-2xx fare provider response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsAuth reports whether the provider rejected the bearer credential.
func (e *ProviderError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsAuthRejection reports whether err is, or wraps, a provider credential rejection.
func IsAuthRejection(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.IsAuth()
}
