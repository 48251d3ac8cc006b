// Package aggregates defines domain-facing aggregate contracts and the shared
// error classification used by aggregate write paths.
//
// Contracts stay free of persistence and transport details. Each one marks a
// write boundary whose invariants must hold atomically.
package aggregates
