/*
errors.go - Centralized error types for the calculation core

PURPOSE:
  All validation failures in one place. A validation failure is
  user-correctable input (missing times, inverted interval); it is
  surfaced as a structured error value distinct from success so callers
  can re-prompt inline, and is never a panic.

  A missing salary is deliberately NOT in this taxonomy: a present day
  recorded before salary setup still computes, with pay deferred to zero
  and DayResult.NeedsSalary set.

USAGE:
  result, err := calc.CalculateDay(...)
  if payroll.IsValidationFailure(err) {
      // re-prompt the operator, nothing was computed
  }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingCheckTimes is returned when a present day lacks a
	// check-in or check-out instant.
	ErrMissingCheckTimes = errors.New("present day requires check-in and check-out times")

	// ErrCheckOutNotAfterCheckIn is returned when the actual interval is
	// empty or inverted.
	ErrCheckOutNotAfterCheckIn = errors.New("check-out must be after check-in")

	// ErrUnknownStatus is returned for a status outside the three valid
	// classes, including the retired legacy status.
	ErrUnknownStatus = errors.New("unknown attendance status")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationFailure is a user-correctable input problem. Field names the
// offending input for inline re-prompting.
type ValidationFailure struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationFailure) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidationFailure returns true if the error is user-correctable input.
func IsValidationFailure(err error) bool {
	var vf *ValidationFailure
	return errors.As(err, &vf)
}

// IsClientError returns true for any error caused by bad input rather
// than an internal fault. HTTP layers map these to 4xx.
func IsClientError(err error) bool {
	return IsValidationFailure(err) ||
		errors.Is(err, ErrMissingCheckTimes) ||
		errors.Is(err, ErrCheckOutNotAfterCheckIn) ||
		errors.Is(err, ErrUnknownStatus)
}
