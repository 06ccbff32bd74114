package errs

import (
	"net/http"

	"github.com/pkg/errors"
)

// Stable error codes reported by the repository.
const (
	CodePaymentCreationFailed = "PAYMENT_CREATION_FAILED"
	CodeCancelReceiptFailed   = "CANCEL_RECEIPT_FAILED"
	CodeReceiptUpdationFailed = "RECEIPT_UPDATION_FAILED"
	CodeFileStoreUpdateFailed = "FILESTORE_UPDATE_FAILED"
	CodePaymentSearchFailed   = "PAYMENT_SEARCH_FAILED"
	CodeValidationFailed      = "VALIDATION_FAILED"
)

// Sentinels for errors.Is checks. They match any *AppError with the same Code.
var (
	ErrPaymentCreationFailed = &AppError{Code: CodePaymentCreationFailed}
	ErrCancelReceiptFailed   = &AppError{Code: CodeCancelReceiptFailed}
	ErrReceiptUpdationFailed = &AppError{Code: CodeReceiptUpdationFailed}
	ErrFileStoreUpdateFailed = &AppError{Code: CodeFileStoreUpdateFailed}
	ErrPaymentSearchFailed   = &AppError{Code: CodePaymentSearchFailed}
	ErrValidationFailed      = &AppError{Code: CodeValidationFailed}
)

// newCoded builds an AppError around err, attaching a stack trace to the cause.
func newCoded(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     errors.WithStack(err),
	}
}

// NewCreationFailedError reports a failed payment insert.
//
// The driver message is surfaced as the message, as callers display it
// alongside the receipt they tried to create.
func NewCreationFailedError(err error) *AppError {
	message := "Failed to persist payment"
	if err != nil {
		message = err.Error()
	}
	return newCoded(CodePaymentCreationFailed, message, err)
}

// NewCancellationFailedError reports a failed receipt status update.
func NewCancellationFailedError(err error) *AppError {
	return newCoded(CodeCancelReceiptFailed, "Unable to cancel Receipt", err)
}

// NewUpdateFailedError reports a failed receipt field update.
func NewUpdateFailedError(err error) *AppError {
	return newCoded(CodeReceiptUpdationFailed, "Unable to update receipt", err)
}

// NewFileStoreUpdateError reports a failed file-store reference update.
func NewFileStoreUpdateError(err error) *AppError {
	return newCoded(CodeFileStoreUpdateFailed, "Unable to update file store reference", err)
}

// NewSearchFailedError reports a failed payment search.
func NewSearchFailedError(err error) *AppError {
	return newCoded(CodePaymentSearchFailed, "Unable to search payments", err)
}

// NewValidationError creates a VALIDATION_FAILED error carrying field errors.
func NewValidationError(message string, fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Message: message,
		Errors:  fieldErrors,
	}
}

// NewInternalServerError creates a generic error that hides internals from callers.
func NewInternalServerError(err error) *AppError {
	return &AppError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Err:     err,
	}
}
