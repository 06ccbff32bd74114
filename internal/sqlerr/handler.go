package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/erlove000/business-services/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err can be unwrapped into *sqlerr.Error, return its Code.
//   - If err can be unwrapped into *pgconn.PgError, map its SQLSTATE.
//   - Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
//
// SQLSTATE and severity are mapped into enums for easier switching; the
// table/column/constraint metadata is kept as reported.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode creates consistent database error codes.
//
// Output format:
//
//	<TABLE>_<ACTION>
//
// Example:
//
//	payment_detail + UniqueViolation => PAYMENT_DETAIL_ALREADY_EXISTS
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces a caller-facing description of the failure.
func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		// Example: "The referenced Bill does not exist"
		entityName := referencedEntity(sqlErr.TableName, sqlErr.ConstraintName)
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced later when the constraint names a column.
		return fmt.Sprintf("A %s with this identifier already exists", getEntityName(sqlErr.TableName))

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName humanizes a table name, falling back to "record".
func getEntityName(tableName string) string {
	if tableName == "" {
		return "record"
	}
	return humanizeText(tableName)
}

// fkConstraintRegex matches PostgreSQL's default foreign key names: <table>_<column>_fkey.
var fkConstraintRegex = regexp.MustCompile(`_([^_]+)_fkey$`)

// referencedEntity infers the referenced table of a foreign key violation.
//
// Reference columns are named <entity>id (billid, paymentid, billdetailid),
// so the entity is the column without its id suffix.
func referencedEntity(tableName, constraintName string) string {
	matches := fkConstraintRegex.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		column := strings.ToLower(matches[1])
		if entity := strings.TrimSuffix(column, "id"); entity != "" && entity != column {
			return humanizeText(entity)
		}
	}

	return getEntityName(tableName)
}

// humanizeText converts snake_case identifiers into Title Case.
//
// Example:
//
//	"payment_detail" -> "Payment Detail"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// uniqueConstraintRegex matches <table>_<column>_(key|ukey) and <table>_pkey.
var uniqueConstraintRegex = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation tries to infer the column name from a unique constraint name.
//
// It supports three conventions:
//
//  1. "unique_<table>_<column>"
//  2. "<table>_<column>_(key|ukey)"
//  3. "<table>_pkey", reported as "id"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if strings.HasSuffix(constraintName, "_pkey") {
		return "id"
	}

	matches := uniqueConstraintRegex.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into a coded application error.
//
// Output:
//   - If err already is *errs.AppError: returned unchanged
//   - Otherwise wrap(err) is called to build the coded error for the operation
//   - If err carries a pgconn.PgError, the coded error is enriched with a
//     database code, a user-friendly detail and, for not-null violations,
//     a field error
//
// Repositories call this after a write fails, passing the constructor for
// the operation (errs.NewCreationFailedError, errs.NewUpdateFailedError, ...).
func HandleError(err error, wrap func(error) *errs.AppError) error {
	if err == nil {
		return nil
	}

	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return err
	}

	appErr = wrap(err)

	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return appErr
	}

	sqlErr := ConvertPgError(pgerr)
	appErr.DBCode = generateErrorCode(sqlErr.TableName, sqlErr.Code)
	appErr.Detail = formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case UniqueViolation:
		if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
			appErr.Detail = strings.ReplaceAll(appErr.Detail, "identifier", humanizeText(columnName))
		}

	case NotNullViolation:
		appErr.Errors = append(appErr.Errors, errs.FieldError{
			Field: strings.ToLower(sqlErr.ColumnName),
			Error: "is required",
		})
	}

	return appErr
}
