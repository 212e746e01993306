package apperr

import (
	"errors"
	"fmt"
)

// Code classifies failures that abort a run.
type Code string

const (
	CodeUsage           Code = "usage"
	CodeMissingInput    Code = "missing_input"
	CodeUnreadableInput Code = "unreadable_input"
	CodeConfig          Code = "config"
	CodeInternal        Code = "internal"
)

// AppError represents a fatal, classified error.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError without a cause.
func New(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(code Code, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// CodeOf returns the outermost AppError code in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch CodeOf(err) {
	case CodeUsage:
		return 2
	case CodeMissingInput:
		return 3
	case CodeUnreadableInput:
		return 4
	case CodeConfig:
		return 5
	default:
		return 1
	}
}
