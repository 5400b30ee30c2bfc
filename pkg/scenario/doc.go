// Package scenario runs scripted allocator sessions written in TOML.
//
// A script names a pool capacity, a default placement policy, an optional
// preset layout and a list of steps:
//
//	name = "best-fit-reuse"
//	capacity = 10240
//	policy = "best-fit"
//
//	[[step]]
//	op = "alloc"
//	owner = "Q1"
//	size = 500
//
//	[[step]]
//	op = "alloc"
//	owner = "Q1"
//	size = 10
//	expect = "duplicate-owner"
//
// Steps are alloc, free, coalesce, compact, reset, compare and show. Each
// step may carry an expect value (ok, invalid-size, duplicate-owner, no-fit,
// not-found, invalid-owner); Run reports ErrExpectation when an outcome
// differs. Builtins returns the bundled demonstration scripts.
package scenario
