// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented signals that a command failed to provide a Handle
	// (or HandleLabel) implementation. It is a programmer bug and is never
	// converted into a CommandError by the framework.
	ErrNotImplemented = errors.New("not implemented")

	// ErrAborted signals a user-initiated interrupt. RunFromArgv reports it
	// as "Aborted." and exits 1; on the programmatic path it propagates.
	ErrAborted = errors.New("aborted")

	// ErrHelpRequested is returned by Schema.Parse in programmatic mode when
	// the raw arguments contain a help flag.
	ErrHelpRequested = errors.New("help requested")

	// ErrVersionRequested is returned by Schema.Parse in programmatic mode
	// when the raw arguments contain --version.
	ErrVersionRequested = errors.New("version requested")
)

// CommandError indicates an expected problem while executing a command.
//
// When it reaches the RunFromArgv boundary it is reported cleanly and the
// process exits with ReturnCode. When the command was invoked via Call, it
// propagates to the caller untouched. Values are immutable once constructed.
type CommandError struct {
	// Message is the human-readable description of the failure.
	Message string
	// ReturnCode is the process exit status used at the CLI boundary.
	ReturnCode int
}

// NewCommandError creates a CommandError with the default return code of 1.
func NewCommandError(message string) *CommandError {
	return &CommandError{Message: message, ReturnCode: 1}
}

// NewCommandErrorf creates a CommandError from a format string with the
// default return code of 1.
func NewCommandErrorf(format string, args ...any) *CommandError {
	return NewCommandError(fmt.Sprintf(format, args...))
}

// WithReturnCode returns a copy of the error carrying the given exit status.
func (e *CommandError) WithReturnCode(code int) *CommandError {
	return &CommandError{Message: e.Message, ReturnCode: code}
}

// Error implements the error interface.
func (e *CommandError) Error() string { return e.Message }
