package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/savings/internal"
	"github.com/shopspring/decimal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder collects every violation across all fields before
// reporting, so a form submission surfaces all problems at once.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

// NotBlank rejects strings that are empty after trimming whitespace.
func (fv *FieldValidator) NotBlank(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), code)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Positive rejects zero and negative decimals.
func (fv *FieldValidator) Positive(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(decimal.Decimal); ok && !v.IsPositive() {
			return fv.fail(fmt.Sprintf("%s must be greater than zero", fv.FieldName), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) IntRange(min, max int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok && (v < min || v > max) {
			return fv.fail(fmt.Sprintf("%s must be between %d and %d", fv.FieldName, min, max), code)
		}
		return nil
	})
	return fv
}

// Max rejects decimals greater than limit.
func (fv *FieldValidator) Max(limit decimal.Decimal, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(decimal.Decimal); ok && v.GreaterThan(limit) {
			return fv.fail(fmt.Sprintf("%s must not exceed %s", fv.FieldName, limit.StringFixed(2)), code)
		}
		return nil
	})
	return fv
}

// Validate runs every validator and returns nil or an AppError whose Code is
// the first violation's code and whose Details list all violations.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var violations []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok && len(details.Errors) > 0 {
				violations = append(violations, details.Errors...)
				continue
			}
			violations = append(violations, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}

	return errors.NewValidationError("Validation failed", errors.ErrorCode(violations[0].Code)).
		WithDetails(errors.ValidationErrors{Errors: violations})
}
