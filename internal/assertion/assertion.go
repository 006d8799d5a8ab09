// Package assertion holds stateless invariant checks used by domain constructors and
// mutators. Every check returns nil when the condition holds and a *ValidationError
// carrying the caller's message otherwise.
package assertion

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError reports a violated invariant
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func fail(message string) error {
	return &ValidationError{Message: message}
}

// First returns the first non-nil error. Arguments are evaluated eagerly by Go, so
// callers that need short-circuiting should chain checks with if statements instead.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// Equality

// Equals fails when a and b are equal
func Equals[T comparable](a, b T, message string) error {
	if a == b {
		return fail(message)
	}
	return nil
}

// NotEquals fails when a and b differ
func NotEquals[T comparable](a, b T, message string) error {
	if a != b {
		return fail(message)
	}
	return nil
}

// Different fails when a and b are equal. It reads better than Equals when guarding
// against a forbidden value such as uuid.Nil.
func Different[T comparable](a, b T, message string) error {
	return Equals(a, b, message)
}

// Nullability

// Nil fails when v is nil
func Nil(v any, message string) error {
	if isNil(v) {
		return fail(message)
	}
	return nil
}

// NotNil fails when v is not nil
func NotNil(v any, message string) error {
	if !isNil(v) {
		return fail(message)
	}
	return nil
}

// Strings

// Empty fails when value is empty or whitespace only
func Empty(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return fail(message)
	}
	return nil
}

// NotEmpty fails when value has non-whitespace content
func NotEmpty(value, message string) error {
	if strings.TrimSpace(value) != "" {
		return fail(message)
	}
	return nil
}

// Length fails when the trimmed length of value is outside [min, max]
func Length(value string, min, max int, message string) error {
	n := len([]rune(strings.TrimSpace(value)))
	if n < min || n > max {
		return fail(message)
	}
	return nil
}

// MaxLength fails when the trimmed length of value exceeds max
func MaxLength(value string, max int, message string) error {
	return Length(value, 0, max, message)
}

// MinLength fails when the trimmed length of value is below min
func MinLength(value string, min int, message string) error {
	if len([]rune(strings.TrimSpace(value))) < min {
		return fail(message)
	}
	return nil
}

// Matches fails when value does not match pattern. An invalid pattern is reported as a
// validation failure with the compile error text.
func Matches(pattern, value, message string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fail("invalid pattern: " + err.Error())
	}
	if !re.MatchString(value) {
		return fail(message)
	}
	return nil
}

// Dates

// InFuture fails unless date is after now
func InFuture(date time.Time, message string) error {
	if !date.After(time.Now()) {
		return fail(message)
	}
	return nil
}

// InPast fails unless date is before now
func InPast(date time.Time, message string) error {
	if !date.Before(time.Now()) {
		return fail(message)
	}
	return nil
}

// Today fails unless date falls on the current local calendar day
func Today(date time.Time, message string) error {
	now := time.Now()
	y1, m1, d1 := date.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return fail(message)
	}
	return nil
}

// DateRange fails when date is outside [min, max]
func DateRange(date, min, max time.Time, message string) error {
	if date.Before(min) || date.After(max) {
		return fail(message)
	}
	return nil
}

// Collections

// EmptySlice fails when items has no elements
func EmptySlice[T any](items []T, message string) error {
	if len(items) == 0 {
		return fail(message)
	}
	return nil
}

// NotEmptySlice fails when items has elements
func NotEmptySlice[T any](items []T, message string) error {
	if len(items) > 0 {
		return fail(message)
	}
	return nil
}

// SliceSize fails when len(items) is outside [min, max]
func SliceSize[T any](items []T, min, max int, message string) error {
	if len(items) < min || len(items) > max {
		return fail(message)
	}
	return nil
}

// MinSliceSize fails when items has fewer than min elements
func MinSliceSize[T any](items []T, min int, message string) error {
	if len(items) < min {
		return fail(message)
	}
	return nil
}

// MaxSliceSize fails when items has more than max elements
func MaxSliceSize[T any](items []T, max int, message string) error {
	if len(items) > max {
		return fail(message)
	}
	return nil
}

// Identifiers

// EmptyUUID fails when id is uuid.Nil
func EmptyUUID(id uuid.UUID, message string) error {
	if id == uuid.Nil {
		return fail(message)
	}
	return nil
}

// NotEmptyUUID fails when id is set
func NotEmptyUUID(id uuid.UUID, message string) error {
	if id != uuid.Nil {
		return fail(message)
	}
	return nil
}

// Booleans

// True fails when value is false
func True(value bool, message string) error {
	if !value {
		return fail(message)
	}
	return nil
}

// False fails when value is true
func False(value bool, message string) error {
	if value {
		return fail(message)
	}
	return nil
}
