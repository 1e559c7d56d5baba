package puzzle

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes puzzle errors.
type ErrorCode string

const (
	// ErrCodeInvalidParameter indicates bad generator input, such as a
	// complexity below 2 or an unknown difficulty.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeInvalidLevel indicates a level whose graph breaks a structural
	// invariant (missing start, dangling connection, unreachable goal).
	ErrCodeInvalidLevel ErrorCode = "INVALID_LEVEL"
)

// Error is returned by generation and validation.
type Error struct {
	Code    ErrorCode
	Message string
	// NodeID identifies the offending node, when there is one.
	NodeID string
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func nodeError(code ErrorCode, msg, nodeID string) *Error {
	return &Error{Code: code, Message: msg, NodeID: nodeID}
}

// IsInvalidParameter reports whether err is an INVALID_PARAMETER error.
// Uses errors.As to handle wrapped errors.
func IsInvalidParameter(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvalidParameter
	}
	return false
}

// IsInvalidLevel reports whether err is an INVALID_LEVEL error.
func IsInvalidLevel(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvalidLevel
	}
	return false
}
