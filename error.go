package cmdline

import (
	"errors"
	"fmt"
)

// NewError creates a new error with the given error code and error.
func NewError(code ErrorCode, err error) error {
	return &Error{code: code, err: err}
}

func errorf(code ErrorCode, format string, args ...any) error {
	return &Error{code: code, err: fmt.Errorf(format, args...)}
}

// ErrorCode represents an error code for a specific error type.
type ErrorCode int

const (
	// ErrMissingRequiredOption: a required option had no occurrence.
	ErrMissingRequiredOption ErrorCode = iota + 1
	// ErrRepeatedOption: an option that is not multiple appeared more than once.
	ErrRepeatedOption
	// ErrInvalidOptionValue: a value failed coercion or did not match the option's type.
	ErrInvalidOptionValue
	// ErrMissingOptionArgument: an option that requires a value had none.
	ErrMissingOptionArgument
	// ErrUnknownOption: the long or short form is not registered on the command.
	ErrUnknownOption
	// ErrDuplicateOption: the long or short form is already registered on the command.
	ErrDuplicateOption
	// ErrDuplicateSubcommand: a subcommand with the same name is already registered.
	ErrDuplicateSubcommand
	// ErrConflictingSwitches: more than one action-bearing switch was given.
	ErrConflictingSwitches
	// ErrSwitchSubcommandConflict: an action-bearing switch and a subcommand were both given.
	ErrSwitchSubcommandConflict
	// ErrState: the command can no longer be changed this way.
	ErrState
	// ErrInvalidOption: the option definition is invalid.
	ErrInvalidOption
	// ErrInvalidCommand: the command definition is invalid.
	ErrInvalidCommand
	// ErrUnknownSubcommand: help was asked for a subcommand that does not exist.
	ErrUnknownSubcommand
)

func (c ErrorCode) String() string {
	return convertErrorCode(c)
}

func convertErrorCode(code ErrorCode) string {
	switch code {
	case ErrMissingRequiredOption:
		return "missing required option"
	case ErrRepeatedOption:
		return "repeated option"
	case ErrInvalidOptionValue:
		return "invalid option value"
	case ErrMissingOptionArgument:
		return "missing option argument"
	case ErrUnknownOption:
		return "unknown option"
	case ErrDuplicateOption:
		return "duplicate option"
	case ErrDuplicateSubcommand:
		return "duplicate subcommand"
	case ErrConflictingSwitches:
		return "conflicting switches"
	case ErrSwitchSubcommandConflict:
		return "switch and subcommand conflict"
	case ErrState:
		return "invalid state"
	case ErrInvalidOption:
		return "invalid option"
	case ErrInvalidCommand:
		return "invalid command"
	case ErrUnknownSubcommand:
		return "unknown subcommand"
	default:
		return "unknown error"
	}
}

// Error represents an error with an error code and an underlying error.
type Error struct {
	code ErrorCode
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return convertErrorCode(e.code) + ": <nil>"
	}
	return e.err.Error()
}

// Code reports the kind of failure.
func (e *Error) Code() ErrorCode {
	if e == nil {
		return 0
	}
	return e.code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsCode reports whether any error in err's chain is an [*Error] with the given code.
func IsCode(err error, code ErrorCode) bool {
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr.code == code
	}
	return false
}
