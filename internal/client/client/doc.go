// Package client is the HTTP layer between the jobswipe domain services and
// the REST backend.
//
// # Overview
//
// Every outgoing request goes through HTTPClient.Do, which:
//  1. Attaches "Authorization: Bearer <token>" when the session holds a token
//     (never for requests marked NoAuth, e.g. the third-party tech feed).
//  2. Fails fast with ErrNoToken for RequireAuth requests made while logged
//     out, before touching the cache or the network.
//  3. Serves GET requests from the response cache when an entry exists for
//     the (path, query) key, without any network call.
//  4. Paces requests with a token-bucket limiter and tags each with an
//     X-Request-ID.
//  5. Stores the body of every successful GET under its cache key.
//  6. Forces a session logout on 401/403, and publishes a rate-limit event on
//     429 so a UI surface can show the quota notice.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which unwraps to one of the
// sentinel errors: ErrUnauthorized, ErrNotFound, ErrRateLimited,
// ErrUnavailable or ErrRequestFailed. Transport failures wrap ErrUnavailable.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. No request blocks another except
// through the optional rate limiter. Concurrent cache writes to one key are
// last-write-wins.
package client
