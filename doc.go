// Package goVerify provides a verification engine for token-gated security
// actions: account activation, password reset, two-factor login, and staged
// profile updates, plus authenticator-app TOTP.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goVerify is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Session, VerifyOutcome, MetricsSnapshot, etc.). Single-use
// codes live in a SQL table owned by the engine; the Redis client, when
// provided, backs only the submission attempt limiter.
//
// User accounts and notification delivery stay on the caller's side of the
// [UserProvider] and [Notifier] interfaces. The engine never renders pages,
// never talks SMTP, and never stores passwords in cleartext.
//
// # Single-use contract
//
// At most one live code exists per (subject, purpose) pair. Issuing a new
// code invalidates the previous one, a successful verification consumes the
// code before any side effect runs, and expired rows are swept
// opportunistically on the verification path.
package goVerify
