package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates input that references something
	// outside the current context, such as a node id from another level.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeIllegalState indicates an operation that cannot run in the
	// current state. Gameplay inputs never return it; they are dropped.
	ErrCodeIllegalState ErrorCode = "ILLEGAL_STATE"
)

// Error is returned for malformed engine input.
type Error struct {
	Code    ErrorCode
	Message string
	State   State
	NodeID  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (state=%s, node=%s)", e.Code, e.Message, e.State, e.NodeID)
	}
	return fmt.Sprintf("%s: %s (state=%s)", e.Code, e.Message, e.State)
}

// IsInvalidArgument returns true if err is an INVALID_ARGUMENT error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsIllegalState returns true if err is an ILLEGAL_STATE error.
func IsIllegalState(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeIllegalState
	}
	return false
}
