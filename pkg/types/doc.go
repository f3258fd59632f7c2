// Package types defines the public error categories and limits shared by the
// fdtkit packages.
//
// Design goals:
//   - Typed errors with stable categories so boot code can branch on intent.
//   - Byte offsets on every decode error for diagnostics.
//   - Never panic on malformed input.
//
// This package has no dependencies beyond the standard library.
package types
