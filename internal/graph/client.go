package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nbessler/graphtutorial/internal/auth"
	"github.com/nbessler/graphtutorial/internal/logger"
)

// BaseURL is the Microsoft Graph v1.0 endpoint.
const BaseURL = "https://graph.microsoft.com/v1.0"

// requestTimeout bounds a single HTTP exchange.
const requestTimeout = 100 * time.Second

// defaultPageSize is used when a caller passes a non-positive page size.
const defaultPageSize = 25

// Client sends authenticated requests to Microsoft Graph. A client is
// bound to one token source and one scope set for its lifetime; the
// Authorization header on every outgoing request comes from the source at
// send time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	source     auth.Source
	scopes     []string
	limiter    *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Graph endpoint. Tests use
// it to target a stub server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a Graph client over the given token source and scopes.
func NewClient(source auth.Source, scopes []string, opts ...Option) *Client {
	c := &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout:       requestTimeout,
			CheckRedirect: sameHostRedirect,
		},
		source:  source,
		scopes:  append([]string(nil), scopes...),
		limiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sameHostRedirect follows 3xx responses only while they stay on the host
// of the original request.
func sameHostRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if req.URL.Host != via[0].URL.Host {
		return fmt.Errorf("refusing redirect to foreign host %q", req.URL.Host)
	}
	return nil
}

// Token acquires a bearer token for the client's scope set without sending
// a request. The console drivers use it for the "display access token"
// action.
func (c *Client) Token(ctx context.Context) (auth.Token, error) {
	return c.source.Acquire(ctx, c.scopes)
}

// Do sends the request with a freshly acquired bearer token attached,
// overriding any caller-supplied Authorization header. The response is
// returned without status inspection; callers classify status codes.
func (c *Client) Do(ctx context.Context, r *Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.source.Acquire(ctx, c.scopes)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	httpReq, err := r.build(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)
	httpReq.Header.Set("client-request-id", uuid.NewString())

	logger.Debug("graph: %s %s", httpReq.Method, httpReq.URL)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapTransportError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := retryAfterSeconds(resp)
		logger.Warn("graph: throttled, backing off %ds", retryAfter)
		c.limiter.RecordRateLimitError(retryAfter)
	}
	return resp, nil
}

// getJSON sends the request and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, r *Request, out any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sendExpect sends the request and requires the given success status.
func (c *Client) sendExpect(ctx context.Context, r *Request, want int) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: body}
	}
	return nil
}

// wrapTransportError maps transport failures onto the package's error
// taxonomy. Cancellation surfaces as context.Canceled, timeouts as
// ErrTimeout.
func wrapTransportError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("graph: send request: %w", err)
}

func retryAfterSeconds(resp *http.Response) int {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil {
		return 0
	}
	return seconds
}

func normalisePageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	return n
}
