package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nbessler/graphtutorial/internal/logger"
)

const deviceCodeGrant = "urn:ietf:params:oauth:grant-type:device_code"

// DeviceCodeSource acquires user tokens through the OAuth 2.0 device
// authorization grant. A new sign-in hands the challenge to the sink, then
// polls the token endpoint until the user completes sign-in, declines, or
// the code expires. When the provider issues a refresh token, expired
// access tokens are renewed silently before falling back to a fresh
// sign-in.
type DeviceCodeSource struct {
	clientID string
	tenantID string
	sink     ChallengeSink
	opts     options

	mu           sync.Mutex
	token        Token
	refreshToken string
}

// NewDeviceCodeSource builds a device-code token source for one client
// identity. All three arguments are required.
func NewDeviceCodeSource(clientID, tenantID string, sink ChallengeSink, opts ...Option) (*DeviceCodeSource, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId", ErrMisconfigured)
	}
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantId", ErrMisconfigured)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: challenge sink", ErrMisconfigured)
	}
	return &DeviceCodeSource{
		clientID: clientID,
		tenantID: tenantID,
		sink:     sink,
		opts:     newOptions(opts),
	}, nil
}

// Acquire returns the cached token while it is valid, refreshes silently
// when a refresh token is held, and otherwise runs a full device-code
// sign-in. The lock is held across the acquisition, so concurrent callers
// see at most one in-flight identity request and all observe its result.
func (s *DeviceCodeSource) Acquire(ctx context.Context, scopes []string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid(s.opts.now()) {
		return s.token, nil
	}

	if s.refreshToken != "" {
		tok, err := s.refresh(ctx, scopes)
		if err == nil {
			return tok, nil
		}
		if ctx.Err() != nil {
			return Token{}, ctx.Err()
		}
		logger.Debug("auth: silent refresh failed, falling back to device code: %v", err)
	}

	return s.signIn(ctx, scopes)
}

type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	Message         string `json:"message"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// signIn runs one complete device-code flow: request a code, surface the
// challenge, poll until a terminal state.
func (s *DeviceCodeSource) signIn(ctx context.Context, scopes []string) (Token, error) {
	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("scope", strings.Join(scopes, " "))

	var code deviceCodeResponse
	if err := s.postForm(ctx, s.endpoint("devicecode"), form, &code); err != nil {
		return Token{}, err
	}

	expiresAt := s.opts.now().Add(time.Duration(code.ExpiresIn) * time.Second)
	s.sink(Challenge{
		UserCode:        code.UserCode,
		VerificationURI: code.VerificationURI,
		Message:         code.Message,
		ExpiresAt:       expiresAt,
	})

	interval := s.opts.pollInterval
	if interval <= 0 {
		interval = time.Duration(code.Interval) * time.Second
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return s.poll(ctx, code.DeviceCode, interval, expiresAt)
}

// poll asks the token endpoint for the outcome of the pending sign-in once
// per interval until the provider reports a terminal state.
func (s *DeviceCodeSource) poll(ctx context.Context, deviceCode string, interval time.Duration, expiresAt time.Time) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", deviceCodeGrant)
	form.Set("client_id", s.clientID)
	form.Set("device_code", deviceCode)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Token{}, ctx.Err()
		case <-ticker.C:
		}

		if !s.opts.now().Before(expiresAt) {
			return Token{}, ErrUserCodeExpired
		}

		var tok tokenResponse
		err := s.postForm(ctx, s.endpoint("token"), form, &tok)
		if err == nil {
			return s.store(tok), nil
		}

		var idErr *IdentityError
		if !errors.As(err, &idErr) {
			return Token{}, err
		}
		switch idErr.Code {
		case "authorization_pending":
			// User has not finished signing in yet.
		case "slow_down":
			interval += 5 * time.Second
			ticker.Reset(interval)
		case "authorization_declined":
			return Token{}, ErrUserDenied
		case "expired_token":
			return Token{}, ErrUserCodeExpired
		default:
			return Token{}, idErr
		}
	}
}

// refresh redeems the held refresh token for a new access token.
func (s *DeviceCodeSource) refresh(ctx context.Context, scopes []string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", s.clientID)
	form.Set("refresh_token", s.refreshToken)
	form.Set("scope", strings.Join(scopes, " "))

	var tok tokenResponse
	if err := s.postForm(ctx, s.endpoint("token"), form, &tok); err != nil {
		return Token{}, err
	}
	return s.store(tok), nil
}

// store caches the token and any rotated refresh token. Callers hold s.mu.
func (s *DeviceCodeSource) store(resp tokenResponse) Token {
	s.token = Token{
		Value:     resp.AccessToken,
		ExpiresAt: s.opts.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	return s.token
}

func (s *DeviceCodeSource) endpoint(leaf string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/%s", s.opts.authority, s.tenantID, leaf)
}

// postForm sends url-encoded form values and decodes the JSON response.
// Identity-provider rejections use the OAuth error body shape and surface
// as *IdentityError.
func (s *DeviceCodeSource) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.opts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contact identity provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var idResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &idResp) == nil && idResp.Error != "" {
			return &IdentityError{Code: idResp.Error, Description: idResp.ErrorDescription}
		}
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}
