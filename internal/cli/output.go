package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/weekplan/internal/config"
	"github.com/roach88/weekplan/internal/persist"
	"github.com/roach88/weekplan/internal/planner"
	"github.com/roach88/weekplan/internal/task"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (invalid task input, unknown id, failed save)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, storage unavailable)
)

// Error codes carried in CLIError.Code.
const (
	ErrCodeValidation = "E_VALIDATION"
	ErrCodeNotFound   = "E_NOT_FOUND"
	ErrCodePersist    = "E_PERSIST"
	ErrCodeConfig     = "E_CONFIG"
	ErrCodeUsage      = "E_USAGE"
)

// ExitError represents an error with a specific exit code.
// Commands report the error through the OutputFormatter first, so main only
// needs the code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitCommandError for errors that are not
// an ExitError, which come from cobra argument and flag parsing.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	Session   string // copied into JSON envelopes
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Data    any       `json:"data,omitempty"`    // success payload
	Error   *CLIError `json:"error,omitempty"`   // error details
	Session string    `json:"session,omitempty"` // log correlation id
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // E_VALIDATION, E_NOT_FOUND, ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			Session: f.Session,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Render outputs data as the JSON envelope, or calls text to draw it.
func (f *OutputFormatter) Render(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	return text(f.Writer)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			Session: f.Session,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit, details := classify(err)
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(exit, code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// usageError marks bad positional input detected by a command itself.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// storageError marks a backend that could not be opened.
type storageError struct {
	err error
}

func (e *storageError) Error() string { return "open storage: " + e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

// validationDetails is the JSON details object of an E_VALIDATION error.
type validationDetails struct {
	Reason string `json:"reason"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
}

// classify maps an error onto its CLI error code, exit code and details.
func classify(err error) (string, int, any) {
	var (
		validation *task.ValidationError
		importErr  *planner.ImportError
		usage      *usageError
		storage    *storageError
	)
	switch {
	case errors.As(err, &validation):
		details := validationDetails{Reason: string(validation.Code), Field: validation.Field, Value: validation.Value}
		if errors.As(err, &importErr) {
			return ErrCodeValidation, ExitFailure, map[string]any{"entry": importErr.Index, "reason": details.Reason, "field": details.Field}
		}
		return ErrCodeValidation, ExitFailure, details
	case errors.Is(err, planner.ErrNotFound):
		return ErrCodeNotFound, ExitFailure, nil
	case errors.Is(err, planner.ErrNotEmpty):
		return ErrCodeValidation, ExitFailure, nil
	case errors.As(err, &usage):
		return ErrCodeUsage, ExitCommandError, nil
	case errors.Is(err, config.ErrInvalid):
		return ErrCodeConfig, ExitCommandError, nil
	case errors.As(err, &storage):
		return ErrCodePersist, ExitCommandError, nil
	case errors.Is(err, persist.ErrWriteFailed), errors.Is(err, persist.ErrReadCorrupt):
		return ErrCodePersist, ExitFailure, nil
	default:
		return ErrCodeUsage, ExitCommandError, nil
	}
}
