package task

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes validation failures.
type ErrorCode string

const (
	// CodeEmptyTitle indicates the trimmed title has no characters.
	CodeEmptyTitle ErrorCode = "EMPTY_TITLE"

	// CodeTitleTooLong indicates the trimmed title exceeds MaxTitleLength characters.
	CodeTitleTooLong ErrorCode = "TITLE_TOO_LONG"

	// CodeInvalidDay indicates a day outside monday..sunday.
	CodeInvalidDay ErrorCode = "INVALID_DAY"

	// CodeInvalidPriority indicates a priority outside low/medium/high.
	CodeInvalidPriority ErrorCode = "INVALID_PRIORITY"
)

// ValidationError reports which field failed which rule.
//
// Two ValidationErrors match under errors.Is when their codes are equal, so
// callers compare against the Err* sentinels below.
type ValidationError struct {
	// Code identifies the failed rule.
	Code ErrorCode

	// Field is the input field: "title", "day" or "priority".
	Field string

	// Message is a human-readable description.
	Message string

	// Value is the rejected input, when it is short enough to be useful.
	Value string
}

var (
	ErrEmptyTitle = &ValidationError{
		Code: CodeEmptyTitle, Field: "title", Message: "task title cannot be empty",
	}
	ErrTitleTooLong = &ValidationError{
		Code: CodeTitleTooLong, Field: "title",
		Message: fmt.Sprintf("task title cannot exceed %d characters", MaxTitleLength),
	}
	ErrInvalidDay = &ValidationError{
		Code: CodeInvalidDay, Field: "day", Message: "day must be monday through sunday",
	}
	ErrInvalidPriority = &ValidationError{
		Code: CodeInvalidPriority, Field: "priority", Message: "priority must be low, medium or high",
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%s=%q)", e.Code, e.Message, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any ValidationError with the same code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// with returns a copy of e carrying the rejected value.
func (e *ValidationError) with(value string) *ValidationError {
	out := *e
	out.Value = value
	return &out
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CodeOf returns the code of the ValidationError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
