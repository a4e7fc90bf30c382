// Package password implements password hashing and verification with Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Argon2.NeedsUpgrade] reports whether a stored hash was produced with weaker
// parameters than currently configured, so the caller can re-hash on the next
// successful verification.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// character classes, reuse) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other goVerify package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
