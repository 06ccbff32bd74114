package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "tenantid", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "tenantid").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// AppError is the error type returned by repository operations.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "PAYMENT_CREATION_FAILED").
//   - Message: human-friendly message.
//   - Errors: list of per-field errors (validation, not-null violations).
//   - DBCode: database-derived code (e.g. "PAYMENT_DETAIL_ALREADY_EXISTS"), if any.
//   - Detail: user-facing explanation of the database failure, if any.
//   - Err: the underlying cause.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Errors holds field-level errors.
	Errors []FieldError `json:"errors,omitempty"`

	DBCode string `json:"dbCode,omitempty"`
	Detail string `json:"detail,omitempty"`

	Err error `json:"-"`
}

// Error makes *AppError satisfy the built-in error interface.
//
// The cause, when present, is appended so logs show the driver message.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is customizes how errors.Is(...) treats AppError.
//
// A target without a Code matches any *AppError. A target with a Code
// matches only errors carrying the same Code, which lets the package
// level sentinels (ErrPaymentCreationFailed, ...) be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}

	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a *copy* of this AppError with Message replaced.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Errors:  e.Errors,
		DBCode:  e.DBCode,
		Detail:  e.Detail,
		Err:     e.Err,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Internal Server Error" -> "INTERNAL_SERVER_ERROR"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
