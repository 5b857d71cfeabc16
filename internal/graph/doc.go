// Package graph is a hand-rolled client for the Microsoft Graph v1.0 API.
//
// This package provides:
//   - An auth-injecting transport that stamps every request with a bearer
//     token from a token source
//   - A fluent request builder for Graph paths, OData query parameters,
//     and preference headers
//   - A pager for cursor-paginated collections driven by @odata.nextLink
//   - The typed operations the tutorial demos call
//
// # Paging
//
// Collection responses carry an @odata.nextLink holding a fully-formed
// absolute URL with the continuation parameters baked in. Follow-up page
// requests use that link verbatim and re-send only headers flagged as
// paging-safe (Prefer); the original query parameters are never re-applied.
//
// # Rate limits
//
// Microsoft Graph allows approximately 10,000 requests per 10 minutes per
// app. Outgoing requests are paced through a conservative token bucket to
// stay clear of that quota.
package graph
