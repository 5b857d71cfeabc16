// Package auth acquires and caches Microsoft identity platform access
// tokens. Two token sources are provided: the device-code flow for
// interactive user sign-in and the client-credentials flow for app-only
// access. Both cache the most recent token and re-acquire on demand, so
// callers never cache tokens themselves.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Skew is subtracted from a token's expiry when judging freshness, so a
// token is never attached to a request it cannot outlive.
const Skew = 30 * time.Second

// defaultAuthority is the Microsoft identity platform endpoint.
const defaultAuthority = "https://login.microsoftonline.com"

var (
	// ErrMisconfigured indicates a token source was constructed without a
	// required field.
	ErrMisconfigured = errors.New("auth: missing required field")

	// ErrUserDenied indicates the user declined the device-code sign-in.
	ErrUserDenied = errors.New("auth: user declined the sign-in request")

	// ErrUserCodeExpired indicates the device code lapsed before the user
	// completed sign-in.
	ErrUserCodeExpired = errors.New("auth: device code expired before sign-in completed")
)

// Token is an opaque bearer token paired with its expiry instant.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still back a request issued at now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-Skew))
}

// Source produces a currently-valid bearer token for a set of scopes. A
// source is bound to one client identity and one authentication mode for
// its lifetime.
type Source interface {
	Acquire(ctx context.Context, scopes []string) (Token, error)
}

// Challenge is handed to a ChallengeSink when a new interactive sign-in is
// required.
type Challenge struct {
	// UserCode is the short code the user enters on the verification page.
	UserCode string
	// VerificationURI is where the user enters the code.
	VerificationURI string
	// Message is the provider's ready-to-display instruction text.
	Message string
	// ExpiresAt is when the code stops being accepted.
	ExpiresAt time.Time
}

// ChallengeSink receives the challenge exactly once per sign-in attempt.
// It must not block indefinitely; the token source polls for completion
// after the sink returns.
type ChallengeSink func(Challenge)

// IdentityError is a rejection returned by the identity provider.
type IdentityError struct {
	Code        string
	Description string
}

func (e *IdentityError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("auth: identity provider rejected the request: %s", e.Code)
	}
	return fmt.Sprintf("auth: identity provider rejected the request: %s: %s", e.Code, e.Description)
}

// options are shared construction knobs for both token sources. The
// defaults talk to the real identity platform on the real clock; tests
// substitute a stub authority and a fake clock.
type options struct {
	authority    string
	httpClient   *http.Client
	now          func() time.Time
	pollInterval time.Duration
}

// Option configures a token source.
type Option func(*options)

// WithAuthority overrides the identity authority base URL.
func WithAuthority(authority string) Option {
	return func(o *options) { o.authority = authority }
}

// WithHTTPClient replaces the HTTP client used for identity requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPollInterval overrides the server-reported device-code polling
// interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

func newOptions(opts []Option) options {
	o := options{
		authority:  defaultAuthority,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
