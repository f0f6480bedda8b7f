// Package client talks to the dashboard backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) with one
//     method per backend capability: health, recent emails, analysis,
//     events, todos, their candidates and the mailbox poller.
//  2. A concrete REST implementation (see HTTPClient) that resolves paths
//     against a base URL, attaches a bearer token from an identity.TokenSource
//     and validates every decoded payload before handing it back.
//  3. MockTransport, an in-memory stand-in for the backend used in mock mode
//     and in tests. It never touches the network.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI.
//
// # Error Handling
//
// Non-2xx responses and transport failures both surface as *APIError; the
// latter carry Status 0. APIError unwraps onto the sentinels in package
// common, so callers can match with errors.Is:
//
//	401, 403          common.ErrUnauthorized
//	404               common.ErrNotFound
//	0, 502, 503, 504  common.ErrUnavailable
//
// Payloads that decode but fail validation surface as *ValidationError,
// which unwraps to common.ErrValidation.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation and deadlines.
package client
