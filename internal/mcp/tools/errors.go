package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeUnsupportedContent = "UNSUPPORTED_CONTENT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapGenerateError converts a generation failure to a coded error.
func WrapGenerateError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return err
	}

	switch {
	case errors.Is(err, sample.ErrUnsupportedContent):
		coded = &CodedError{Code: ErrCodeUnsupportedContent, Message: "samples are not a structured format", Cause: err}
	case errors.Is(err, render.ErrInvalidRules):
		coded = &CodedError{Code: ErrCodeInvalidConfig, Message: "invalid generation options", Cause: err}
	case errors.Is(err, decl.ErrInvalidIdentifier):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "invalid identifier", Cause: err}
	case errors.Is(err, sample.ErrInvalidSelector):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "invalid selector", Cause: err}
	case errors.Is(err, typegen.ErrNoSamples):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "selection produced no samples", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "samples could not be decoded", Cause: err}
	}

	slog.Warn("generation failed",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)
	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
