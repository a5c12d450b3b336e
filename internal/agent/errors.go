// internal/agent/errors.go
package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/xkilldash9x/pagepilot/internal/resolve"
)

// ErrorCode is a string type used for structured error reporting from tools.
// Using a custom type ensures that only predefined constants can be used
// where an ErrorCode is expected.
type ErrorCode string

const (
	// -- General Execution Errors --
	ErrCodeExecutionFailure  ErrorCode = "EXECUTION_FAILURE"
	ErrCodeInvalidParameters ErrorCode = "INVALID_PARAMETERS"
	ErrCodeUnknownTool       ErrorCode = "UNKNOWN_TOOL"
	ErrCodeToolPanic         ErrorCode = "TOOL_PANIC"

	// -- Browser/DOM Errors --
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"
	ErrCodeTimeoutError    ErrorCode = "TIMEOUT_ERROR"
	ErrCodeNavigationError ErrorCode = "NAVIGATION_ERROR"
	ErrCodeSessionFailure  ErrorCode = "SESSION_FAILURE"

	// -- Workflow Errors --
	ErrCodeFormAlreadySubmitted ErrorCode = "FORM_ALREADY_SUBMITTED"
)

// classifyError maps a low-level failure onto the tool error taxonomy.
func classifyError(err error) ErrorCode {
	switch {
	case errors.Is(err, resolve.ErrNotFound):
		return ErrCodeElementNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeoutError
	case strings.Contains(err.Error(), "timed out"):
		return ErrCodeTimeoutError
	case strings.Contains(err.Error(), "navigation"):
		return ErrCodeNavigationError
	default:
		return ErrCodeExecutionFailure
	}
}
