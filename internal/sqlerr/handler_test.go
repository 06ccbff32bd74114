package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/erlove000/business-services/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, Other, MapCode("40P01"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, MapSeverity("ERROR"))
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityUnknown, MapSeverity("bogus"))
}

func TestErrCode(t *testing.T) {
	pgerr := &pgconn.PgError{Code: "23505"}

	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("insert: %w", pgerr)))
	assert.Equal(t, NotNullViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23502"})))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestConvertPgErrorUnwraps(t *testing.T) {
	pgerr := &pgconn.PgError{Code: "23503", Severity: "ERROR", Message: "violates foreign key", TableName: "payment_detail"}
	converted := ConvertPgError(pgerr)

	assert.Equal(t, ForeignKeyViolation, converted.Code)
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, "violates foreign key (SQLSTATE 23503)", converted.Error())

	var target *pgconn.PgError
	require.ErrorAs(t, converted, &target)
	assert.Same(t, pgerr, target)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	pgerr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "payment_detail",
		ConstraintName: "payment_detail_pkey",
	}

	err := HandleError(fmt.Errorf("batch: %w", pgerr), errs.NewCreationFailedError)

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.CodePaymentCreationFailed, appErr.Code)
	assert.Equal(t, "PAYMENT_DETAIL_ALREADY_EXISTS", appErr.DBCode)
	assert.Equal(t, "A Payment Detail with this Id already exists", appErr.Detail)
	assert.ErrorIs(t, err, pgerr)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	pgerr := &pgconn.PgError{
		Code:           "23503",
		TableName:      "payment_detail",
		ConstraintName: "payment_detail_billid_fkey",
	}

	err := HandleError(pgerr, errs.NewCreationFailedError)

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYMENT_DETAIL_NOT_FOUND", appErr.DBCode)
	assert.Equal(t, "The referenced Bill does not exist", appErr.Detail)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	pgerr := &pgconn.PgError{Code: "23502", TableName: "bill", ColumnName: "consumercode"}

	err := HandleError(pgerr, errs.NewUpdateFailedError)

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.CodeReceiptUpdationFailed, appErr.Code)
	assert.Equal(t, "BILL_REQUIRED", appErr.DBCode)
	assert.Equal(t, []errs.FieldError{{Field: "consumercode", Error: "is required"}}, appErr.Errors)
}

func TestHandleErrorPassesThroughAppError(t *testing.T) {
	original := errs.NewValidationError("Validation failed", nil)

	err := HandleError(original, errs.NewCreationFailedError)

	assert.Same(t, original, err)
}

func TestHandleErrorNonDriverError(t *testing.T) {
	err := HandleError(errors.New("conn closed"), errs.NewCancellationFailedError)

	var appErr *errs.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.CodeCancelReceiptFailed, appErr.Code)
	assert.Empty(t, appErr.DBCode)
	assert.Nil(t, HandleError(nil, errs.NewCancellationFailedError))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "receiptnumber", extractColumnForUniqueViolation("unique_payment_receiptnumber"))
	assert.Equal(t, "billnumber", extractColumnForUniqueViolation("bill_billnumber_key"))
	assert.Equal(t, "id", extractColumnForUniqueViolation("bill_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
