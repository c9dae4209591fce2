// Package client is the single point of outbound traffic to the clinical
// records REST service.
//
// # Overview
//
//  1. Gateway sends JSON requests relative to a base URL. Before each call
//     it reads the credential pair from a tokens.Store and attaches the
//     access credential as a bearer header.
//  2. A 401 on a first attempt triggers one refresh round-trip on
//     auth/token/refresh/. On success the new access credential is stored
//     (the refresh credential is carried forward) and the call is re-issued
//     once. On failure the store is cleared and the original 401 is
//     returned. A second 401 is never refreshed again.
//  3. Typed wrappers: the auth endpoints (Signup, Login, Logout, Me) and a
//     generic Resource for every collection (see Records).
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite database behind tokens.SQLiteStore.
//
// # Error Handling
//
// Non-2xx responses become *APIError, which understands both error body
// shapes the service produces (a plain string or {"detail": ...}, and
// per-field validation maps). Use errors.Is with ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrValidation; transport failures match
// ErrUnavailable. ErrorMessage renders any error as one line for display.
//
// Concurrency
//
// Gateway is safe for concurrent use. With coalescing enabled, concurrent
// 401s that share a refresh credential wait on a single refresh call.
package client
