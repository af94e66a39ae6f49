package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates Execute or a command ran without Configure.
	ErrNotConfigured = errors.New("pipeline: not configured")
	// ErrAlreadyConfigured indicates a second call to Configure.
	ErrAlreadyConfigured = errors.New("pipeline: already configured")
	// ErrMissingOption indicates an option required by a command was not set.
	ErrMissingOption = errors.New("pipeline: required option missing")
	// ErrInvalidArgument indicates a malformed command argument.
	ErrInvalidArgument = errors.New("pipeline: invalid argument")
)

// ConfigurationError reports a missing or malformed option, detected when
// the command needing it runs.
type ConfigurationError struct {
	Option string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pipeline: option %s: %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func missingOption(option string) error {
	return &ConfigurationError{Option: option, Err: ErrMissingOption}
}

// ValidationError reports PIN lengths outside the device bounds or
// malformed multi-token command arguments.
type ValidationError struct {
	Subject string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: invalid %s: %v", e.Subject, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalidArgument(subject, format string, args ...any) error {
	return &ValidationError{Subject: subject, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)}
}

// DeviceError wraps a failure reported by the token driver.
type DeviceError struct {
	Call string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("pipeline: device %s: %v", e.Call, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func deviceError(call string, err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Call: call, Err: err}
}

// CommandError names the queued operation that failed.
type CommandError struct {
	Op  string
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
