// Package client contains the client-side building blocks that talk to the
// CryptoPass document store.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts: DocumentStore (encrypted vault
//     documents) and Mailbox (share requests), combined in Remote.
//  2. A gRPC implementation (GRPCClient) that logs in with a did:key
//     challenge, injects the access token through an interceptor and
//     transparently logs in again when the token expires.
//  3. An in-process implementation (MemoryStore) for offline runs and tests,
//     with fault injection.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures are mapped to the sentinels in internal/common:
// ErrRemoteUnavailable, ErrorUnauthorized, ErrTokenExpired, ErrorNotFound,
// ErrShareExpired and ErrShareFinal. Match them with errors.Is.
package client
