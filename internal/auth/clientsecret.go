package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientSecretSource acquires app-only tokens through the OAuth 2.0
// client-credentials grant. The application authenticates as itself; no
// user interaction is involved.
type ClientSecretSource struct {
	clientID     string
	tenantID     string
	clientSecret string
	opts         options

	mu    sync.Mutex
	token Token
}

// NewClientSecretSource builds a client-credentials token source for one
// application identity. All three arguments are required.
func NewClientSecretSource(clientID, tenantID, clientSecret string, opts ...Option) (*ClientSecretSource, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId", ErrMisconfigured)
	}
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantId", ErrMisconfigured)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: clientSecret", ErrMisconfigured)
	}
	return &ClientSecretSource{
		clientID:     clientID,
		tenantID:     tenantID,
		clientSecret: clientSecret,
		opts:         newOptions(opts),
	}, nil
}

// Acquire returns the cached token while it is valid and otherwise posts a
// fresh client-credentials grant. The lock is held across the exchange, so
// concurrent callers share one in-flight request.
func (s *ClientSecretSource) Acquire(ctx context.Context, scopes []string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid(s.opts.now()) {
		return s.token, nil
	}

	cfg := clientcredentials.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", s.opts.authority, s.tenantID),
		Scopes:       scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.opts.httpClient)
	tok, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return Token{}, &IdentityError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
			}
		}
		return Token{}, fmt.Errorf("client credentials grant: %w", err)
	}

	s.token = Token{Value: tok.AccessToken, ExpiresAt: tok.Expiry}
	return s.token, nil
}
