// Package errs defines the application error type returned by the
// collection persistence layer.
//
// Every core write or search failure is reported as an *AppError with a
// stable machine-readable Code, so callers can branch on the failure kind
// with errors.Is while the driver error stays reachable through Unwrap.
package errs
