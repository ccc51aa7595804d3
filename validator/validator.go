package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"discounts/dto"
	"discounts/errors"
	"discounts/utils"

	playground "github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateDealForm checks a full create/edit form. The first problem found
// is returned as an AppError.
func ValidateDealForm(form *dto.DealForm) error {
	if err := validate.Struct(form); err != nil {
		var fieldErrs playground.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return errors.NewAppError(errors.ErrCodeValidation, "Invalid deal form", err)
	}

	if !form.PriceOriginal.IsPositive() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Original price must be greater than zero", errors.ErrInvalidInput)
	}
	if form.PriceDiscount.IsNegative() {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Discounted price must not be negative", errors.ErrInvalidInput)
	}

	startsAt, err := optionalTime("startsAt", form.StartsAt)
	if err != nil {
		return err
	}
	expiresAt, err := optionalTime("expiresAt", form.ExpiresAt)
	if err != nil {
		return err
	}
	if startsAt != nil && expiresAt != nil && expiresAt.Before(*startsAt) {
		return errors.NewAppError(errors.ErrCodeValidation, "Expiry must not be before the start", errors.ErrInvalidInput)
	}
	return nil
}

func optionalTime(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, ok := utils.ParseTime(value)
	if !ok {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s is not a valid date", field), errors.ErrInvalidFormat)
	}
	return &t, nil
}

func fieldError(fe playground.FieldError) error {
	switch fe.Tag() {
	case "required":
		return errors.NewAppError(errors.ErrCodeRequiredField,
			fmt.Sprintf("%s is required", fe.Field()), errors.ErrMissingRequired)
	case "max":
		return errors.NewAppError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()), errors.ErrInvalidInput)
	case "url":
		return errors.NewAppError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s must be a valid URL", fe.Field()), errors.ErrInvalidFormat)
	default:
		return errors.NewAppError(errors.ErrCodeValidation,
			fmt.Sprintf("%s is invalid", fe.Field()), errors.ErrInvalidInput)
	}
}
