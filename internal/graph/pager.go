package graph

import (
	"context"
	"net/http"
)

// collectionPage is the Graph collection response envelope.
type collectionPage[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// Pager iterates a cursor-paginated Graph collection. The initial request
// is sent exactly as built; follow-up pages GET the @odata.nextLink
// verbatim, re-sending only the paging-safe headers (Prefer) and never the
// original query parameters, which are already baked into the link.
type Pager[T any] struct {
	client  *Client
	next    *Request
	headers http.Header

	page []T
	err  error
}

func newPager[T any](c *Client, initial *Request) *Pager[T] {
	headers := make(http.Header)
	if prefer := initial.header.Get("Prefer"); prefer != "" {
		headers.Set("Prefer", prefer)
	}
	return &Pager[T]{client: c, next: initial, headers: headers}
}

// Next fetches the next page. It returns false when the collection is
// exhausted or an error occurred; Err distinguishes the two.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.err != nil || p.next == nil {
		return false
	}

	var page collectionPage[T]
	if err := p.client.getJSON(ctx, p.next, &page); err != nil {
		p.err = err
		p.page = nil
		return false
	}

	p.page = page.Value
	p.next = nil
	if page.NextLink != "" {
		req := RawRequest(page.NextLink)
		for name, values := range p.headers {
			req.header[name] = append([]string(nil), values...)
		}
		p.next = req
	}
	return true
}

// Page returns the items of the most recently fetched page, in server
// order.
func (p *Pager[T]) Page() []T {
	return p.page
}

// More reports whether another page is available after the current one.
func (p *Pager[T]) More() bool {
	return p.next != nil
}

// Err returns the first error encountered while paging.
func (p *Pager[T]) Err() error {
	return p.err
}

// All drains the remaining pages into a single slice, preserving server
// order within and across pages. On error the partial results are
// discarded.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	for p.Next(ctx) {
		items = append(items, p.page...)
	}
	if p.err != nil {
		return nil, p.err
	}
	return items, nil
}
