package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	cderrors "github.com/vnykmshr/countdown/pkg/common/errors"
)

// IsInteger reports whether x is a finite number with no fractional part.
func IsInteger(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return x == math.Trunc(x)
}

// IsNonNegative reports whether x is >= 0. NaN is not non-negative.
func IsNonNegative(x float64) bool {
	return x >= 0
}

// ToNumber converts a numeric value or numeric string to float64.
// Returns an error for nil, non-numeric types and unparsable strings.
func ToNumber(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %v (%T) to a number", value, value)
	}
}

// ToInteger converts value to the nearest integer, rounding halves up.
// Returns an error for non-numeric input, NaN and infinities.
func ToInteger(value interface{}) (int, error) {
	f, err := ToNumber(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cannot convert %v to integer", value)
	}
	return int(math.Floor(f + 0.5)), nil
}

// ValidateNonNegativeInteger validates that value is present, numeric,
// integral and >= 0, and returns it as an int.
func ValidateNonNegativeInteger(module, field string, value interface{}) (int, error) {
	if value == nil {
		return 0, cderrors.NewValidationError(module, field, nil, "is required").
			WithHint("provide a non-negative integer " + field)
	}
	f, err := ToNumber(value)
	if err != nil {
		return 0, cderrors.NewValidationError(module, field, value, "must be a number").
			WithHint("provide a non-negative integer " + field)
	}
	if !IsInteger(f) {
		return 0, cderrors.NewValidationError(module, field, value, "must be an integer").
			WithHint("whole seconds only")
	}
	if !IsNonNegative(f) {
		return 0, cderrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	if f > math.MaxInt32 {
		return 0, cderrors.NewValidationError(module, field, value, "is too large").
			WithHint(fmt.Sprintf("use a value up to %d", math.MaxInt32))
	}
	return ToInteger(f)
}

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return cderrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive (> 0).
func ValidatePositiveDuration(module, field string, value time.Duration) error {
	if value <= 0 {
		return cderrors.NewValidationError(module, field, value, "must be positive").
			WithHint("use a duration greater than 0")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return cderrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return cderrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
