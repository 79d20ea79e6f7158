// Package errs provides standardized error types for the dispatch platform.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type carrying the error details
//   - constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// Domain packages define their own business sentinels (invalid transition,
// capacity exceeded, stale offer) and use this package for the generic
// validation and lookup failures beneath them.
package errs
