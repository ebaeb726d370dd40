package validation

import (
	"math"
	"testing"
	"time"

	"github.com/vnykmshr/countdown/pkg/common/errors"
)

func TestIsInteger(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"zero", 0, true},
		{"positive", 42, true},
		{"negative", -3, true},
		{"fraction", 1.5, false},
		{"tiny fraction", 2.0000001, false},
		{"NaN", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInteger(tt.value); got != tt.want {
				t.Errorf("IsInteger(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsNonNegative(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"zero", 0, true},
		{"positive", 10.5, true},
		{"negative", -0.001, false},
		{"NaN", math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNonNegative(tt.value); got != tt.want {
				t.Errorf("IsNonNegative(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestToInteger(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		want      int
		wantError bool
	}{
		{"int", 7, 7, false},
		{"int64", int64(9), 9, false},
		{"uint8", uint8(3), 3, false},
		{"float rounds down", 2.4, 2, false},
		{"float rounds half up", 2.5, 3, false},
		{"negative half rounds up", -2.5, -2, false},
		{"numeric string", "12", 12, false},
		{"padded string", " 4.6 ", 5, false},
		{"non-numeric string", "ten", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
		{"NaN", math.NaN(), 0, true},
		{"infinity", math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInteger(tt.value)
			if tt.wantError {
				if err == nil {
					t.Errorf("ToInteger(%v) expected error, got %d", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToInteger(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateNonNegativeInteger(t *testing.T) {
	tests := []struct {
		name       string
		value      interface{}
		want       int
		wantReason string
	}{
		{"zero", 0, 0, ""},
		{"positive int", 60, 60, ""},
		{"integral float", 3.0, 3, ""},
		{"numeric string", "5", 5, ""},
		{"nil", nil, 0, "is required"},
		{"fraction", 1.5, 0, "must be an integer"},
		{"negative", -1, 0, "cannot be negative"},
		{"negative float", -2.0, 0, "cannot be negative"},
		{"non-numeric", "abc", 0, "must be a number"},
		{"struct", struct{}{}, 0, "must be a number"},
		{"NaN", math.NaN(), 0, "must be an integer"},
		{"too large", float64(math.MaxInt32) + 1, 0, "is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNonNegativeInteger("countdown", "startTime", tt.value)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %d, want %d", got, tt.want)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			valErr, ok := err.(*errors.ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if valErr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", valErr.Reason, tt.wantReason)
			}
			if valErr.Field != "startTime" {
				t.Errorf("Field = %q, want startTime", valErr.Field)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "count", tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"one second", time.Second, false},
		{"one nanosecond", time.Nanosecond, false},
		{"zero", 0, true},
		{"negative", -time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositiveDuration("scheduler", "interval", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidatePositiveDuration(%v) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"non-nil int", 123, false},
		{"non-nil pointer", new(int), false},
		{"nil value", nil, true},
		{"nil pointer", (*int)(nil), false}, // typed nil is not nil interface
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotNil("test", "config", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateNotNil() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"non-empty string", "value", false},
		{"whitespace", " ", false}, // Whitespace is not empty
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotEmpty("test", "name", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateNotEmpty() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidationErrorWrapping(t *testing.T) {
	_, intErr := ValidateNonNegativeInteger("test", "field", -1)
	testCases := []struct {
		name string
		err  error
	}{
		{"ValidatePositive", ValidatePositive("test", "field", -1)},
		{"ValidatePositiveDuration", ValidatePositiveDuration("test", "field", 0)},
		{"ValidateNotNil", ValidateNotNil("test", "field", nil)},
		{"ValidateNotEmpty", ValidateNotEmpty("test", "field", "")},
		{"ValidateNonNegativeInteger", intErr},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsValidationError(tc.err) {
				t.Error("error should be a ValidationError")
			}
			if errors.KindOf(tc.err) != errors.KindCreation {
				t.Errorf("KindOf() = %v, want KindCreation", errors.KindOf(tc.err))
			}
		})
	}
}
