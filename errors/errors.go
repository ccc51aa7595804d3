package errors

import (
	"errors"
	"fmt"
)

// ErrorCode defines the application error code
type ErrorCode string

const (
	// Auth errors
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Catalog errors
	ErrCodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCouponState      ErrorCode = "COUPON_STATE"

	// Database errors
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// Upload errors
	ErrCodeUpload ErrorCode = "UPLOAD_FAILED"
)

// AppError is the application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError extracts the AppError from err
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is and As mirror the standard library so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }

var (
	// Identity errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient privileges")

	// Catalog errors
	ErrDealNotFound     = errors.New("deal not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrDealExpired      = errors.New("deal already expired")

	// Coupon state errors
	ErrCouponNotActive = errors.New("coupon is not active")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)
