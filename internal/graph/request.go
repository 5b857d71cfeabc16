package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type queryParam struct {
	name  string
	value string
}

// Request describes one Graph call: method, encoded path, ordered query
// parameters, headers, and an optional JSON body.
type Request struct {
	method   string
	segments []string
	rawURL   string
	query    []queryParam
	header   http.Header
	body     []byte
	err      error
}

// NewRequest starts a GET request for the given path segments, e.g.
// NewRequest("me", "mailFolders", "inbox", "messages").
func NewRequest(segments ...string) *Request {
	return &Request{
		method:   http.MethodGet,
		segments: segments,
		header:   make(http.Header),
	}
}

// RawRequest starts a GET request for a fully-formed absolute URL,
// typically an @odata.nextLink. The URL is used verbatim.
func RawRequest(rawURL string) *Request {
	return &Request{
		method: http.MethodGet,
		rawURL: rawURL,
		header: make(http.Header),
	}
}

// Select sets $select to the fields in caller order.
func (r *Request) Select(fields ...string) *Request {
	return r.Query("$select", strings.Join(fields, ","))
}

// Top sets the $top page size.
func (r *Request) Top(n int) *Request {
	return r.Query("$top", strconv.Itoa(n))
}

// OrderBy sets $orderby to the expression verbatim, e.g.
// "receivedDateTime DESC" or "start/dateTime".
func (r *Request) OrderBy(expr string) *Request {
	return r.Query("$orderby", expr)
}

// Query appends a name/value pair. Pairs keep insertion order and
// duplicates are preserved.
func (r *Request) Query(name, value string) *Request {
	r.query = append(r.query, queryParam{name: name, value: value})
	return r
}

// Header sets a request header.
func (r *Request) Header(name, value string) *Request {
	r.header.Set(name, value)
	return r
}

// JSON attaches a JSON body and switches the method to POST.
func (r *Request) JSON(body any) *Request {
	data, err := json.Marshal(body)
	if err != nil {
		r.err = fmt.Errorf("encode request body: %w", err)
		return r
	}
	r.body = data
	r.method = http.MethodPost
	return r
}

// URL renders the request target against the given base URL.
func (r *Request) URL(base string) string {
	if r.rawURL != "" {
		return r.rawURL
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(base, "/"))
	for _, seg := range r.segments {
		sb.WriteByte('/')
		sb.WriteString(escapeSegment(seg))
	}
	for i, q := range r.query {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(escapeQuery(q.name))
		sb.WriteByte('=')
		sb.WriteString(escapeQuery(q.value))
	}
	return sb.String()
}

// build materialises the descriptor as an *http.Request.
func (r *Request) build(ctx context.Context, base string) (*http.Request, error) {
	if r.err != nil {
		return nil, r.err
	}

	var body io.Reader = http.NoBody
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.URL(base), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for name, values := range r.header {
		req.Header[name] = append([]string(nil), values...)
	}
	req.Header.Set("Accept", "application/json")
	if len(r.body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// queryReplacer undoes escapes that are unnecessary inside a query
// component, keeping OData URLs in their conventional shape, and encodes
// spaces as %20 rather than '+'.
var queryReplacer = strings.NewReplacer("+", "%20", "%24", "$", "%2F", "/", "%2C", ",")

func escapeQuery(s string) string {
	return queryReplacer.Replace(url.QueryEscape(s))
}

// escapeSegment percent-encodes a path segment, leaving percent-encodings
// already present intact so pre-encoded identifiers are not double-encoded.
func escapeSegment(s string) string {
	if !strings.Contains(s, "%") {
		return url.PathEscape(s)
	}

	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			sb.WriteString(s[i : i+3])
			i += 3
			continue
		}
		sb.WriteString(url.PathEscape(string(s[i])))
		i++
	}
	return sb.String()
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'f':
		return true
	case b >= 'A' && b <= 'F':
		return true
	}
	return false
}
