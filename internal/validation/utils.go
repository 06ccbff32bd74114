package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/erlove000/business-services/internal/errs"
	"github.com/erlove000/business-services/internal/model"
	"github.com/go-playground/validator/v10"
)

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// validate reports fields by their JSON names so paths match what callers send.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs tag validation on v.
//
// It returns nil or a VALIDATION_FAILED *errs.AppError with one FieldError per violation.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return toAppError(err)
	}
	return nil
}

// ValidatePayment checks a payment graph before it is persisted.
//
// Beyond the struct tags it checks that each detail's bill id matches the
// attached bill, and that child rows naming a parent name the right one.
func ValidatePayment(p *model.Payment) error {
	if p == nil {
		return errs.NewValidationError("Validation failed", []errs.FieldError{{Field: "payment", Error: "is required"}})
	}

	if err := ValidateStruct(p); err != nil {
		return err
	}

	var custom CustomValidationErrors
	for i, detail := range p.PaymentDetails {
		if detail.PaymentID != "" && detail.PaymentID != p.ID {
			custom = append(custom, CustomValidationError{
				Field:   fmt.Sprintf("paymentDetails[%d].paymentId", i),
				Message: "must match the payment id",
			})
		}

		if detail.Bill.ID != detail.BillID {
			custom = append(custom, CustomValidationError{
				Field:   fmt.Sprintf("paymentDetails[%d].billId", i),
				Message: "must match the attached bill id",
			})
		}

		for j, billDetail := range detail.Bill.BillDetails {
			if billDetail.BillID != "" && billDetail.BillID != detail.Bill.ID {
				custom = append(custom, CustomValidationError{
					Field:   fmt.Sprintf("paymentDetails[%d].bill.billDetails[%d].billId", i, j),
					Message: "must match the bill id",
				})
			}

			for k, accountDetail := range billDetail.BillAccountDetails {
				if accountDetail.BillDetailID != "" && accountDetail.BillDetailID != billDetail.ID {
					custom = append(custom, CustomValidationError{
						Field:   fmt.Sprintf("paymentDetails[%d].bill.billDetails[%d].billAccountDetails[%d].billDetailId", i, j, k),
						Message: "must match the bill detail id",
					})
				}
			}
		}
	}

	if len(custom) > 0 {
		return toAppError(custom)
	}
	return nil
}

// ValidateSearchCriteria checks pagination and date bounds.
//
// maxLimit is the largest page a caller may request.
func ValidateSearchCriteria(c *model.SearchCriteria, maxLimit int) error {
	if err := ValidateStruct(c); err != nil {
		return err
	}

	var custom CustomValidationErrors
	if c.Limit > maxLimit {
		custom = append(custom, CustomValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("must not exceed %d", maxLimit),
		})
	}

	if c.FromDate != nil && c.ToDate != nil && *c.FromDate > *c.ToDate {
		custom = append(custom, CustomValidationError{
			Field:   "fromDate",
			Message: "must not be after toDate",
		})
	}

	if len(custom) > 0 {
		return toAppError(custom)
	}
	return nil
}

func toAppError(err error) error {
	msg, fieldErrors := extractValidationError(err)
	return errs.NewValidationError(msg, fieldErrors)
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, err := range validationErrors {
		field := fieldPath(err)
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// strings and slices: length; numbers: value
			switch err.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			case reflect.Slice:
				msg = fmt.Sprintf("must contain at least %s items", err.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// fieldPath drops the root type from the namespace: Payment.paymentDetails[0].billId -> paymentDetails[0].billId.
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}
