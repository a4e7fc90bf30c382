// Package internal contains helper utilities that are intentionally private to goVerify,
// including secure random code generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//
// # What this package must NOT do
//
//   - Export types that appear in the public goVerify API.
//   - Be imported by any package outside the goVerify module.
package internal
