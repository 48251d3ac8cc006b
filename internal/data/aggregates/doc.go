// Package aggregates implements the domain aggregate contracts on top of the
// table repos in internal/data/repos. Write paths own their transaction
// boundaries and map storage failures onto aggregate error codes.
package aggregates
