// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package upstream implements the authenticated HTTP client for the Movie App
// API. Every console feature issues its requests through this package and
// never touches credentials directly.
//
// The client attaches the stored bearer token to each outgoing request. When
// a request comes back 401 it refreshes the token through the single-flight
// coordinator and replays the original request exactly once:
//
//	original request -> 401 -> refresh (shared) -> replay -> response
//
// Guarantees:
//   - At most one refresh call is in flight process-wide. Requests that 401
//     while a refresh is running wait for the same outcome.
//   - A request descriptor is replayed at most once. A second 401 after the
//     replay is returned to the caller.
//   - A failed refresh (missing refresh token, network error, or upstream
//     rejection) terminates the local session: all three stored credential
//     entries are cleared and the ORIGINAL 401 propagates to the caller.
//
// Transport errors are never treated as authentication failures and are never
// retried here. The refresh call runs under its own detached deadline so a
// canceled caller cannot abort the refresh other waiters depend on.
//
// Upstream calls are additionally guarded by a circuit breaker and an
// outgoing rate limiter, both configured through config.UpstreamConfig.
package upstream
