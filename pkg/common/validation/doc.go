// Package validation provides common validation utilities for configuration
// parameters across the countdown library.
//
// Besides the field validators used by constructors, it carries the numeric
// helpers that decide whether a configured duration is acceptable:
// IsInteger, IsNonNegative and ToInteger.
package validation
