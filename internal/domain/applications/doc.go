// Package applications holds the job application lifecycle: the closed status
// enumeration, the pure transition policy, the Application aggregate with its
// append-only transition history, and user-facing notifications.
//
// Nothing in this package performs I/O. Time and identity are passed in by the
// caller so behaviour is deterministic under test.
package applications
