// Package types defines the shared vocabulary of memkit: layout snapshots,
// placement policy names, operation events and typed errors.
//
// Design goals:
//   - Snapshots are plain values; holding one never aliases pool state.
//   - Typed errors with stable categories (invalid-size/no-fit/not-found/...).
//   - Never panic on caller input; every rejection is an ordinary error.
//
// This package has no dependencies beyond the standard library.
package types
