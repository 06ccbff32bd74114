// Package validation contains the logic for validating payment graphs
// and search criteria before they reach the database.
//
// It uses the `validator` library to enforce rules defined in struct
// tags, adds the cross-field checks tags cannot express, and extracts
// every violation into a VALIDATION_FAILED error with field-level detail.
package validation
