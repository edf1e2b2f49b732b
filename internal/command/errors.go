package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adamavenir/noci/internal/client"
	"github.com/adamavenir/noci/internal/session"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// UsageError reports a bad command line invocation.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// MalformedInputError reports user-supplied input that could not be parsed.
// No request is sent when it is returned.
type MalformedInputError struct {
	Input string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Input == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Input)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func malformedf(input, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Input: input, Err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a cobra positional args validator so its failures are
// reported as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

func flagUsageError(cmd *cobra.Command, err error) error {
	return &UsageError{Err: err}
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var usage *UsageError
	var missing *session.MissingError
	if errors.As(err, &usage) || errors.As(err, &missing) {
		return exitUsage
	}
	return exitError
}

// writeCommandError prints a diagnostic for err and returns the exit code.
func writeCommandError(w io.Writer, cmd *cobra.Command, err error) int {
	if err == nil {
		return exitOK
	}

	var transport *client.TransportError
	var usage *UsageError
	var missing *session.MissingError

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "\nInterrupted")
	case errors.As(err, &transport):
		fmt.Fprintf(w, "Cannot connect: %v\n", transport)
	case errors.As(err, &usage), errors.As(err, &missing):
		fmt.Fprintf(w, "Error: %s\n", err.Error())
		if cmd != nil {
			fmt.Fprint(w, cmd.UsageString())
		}
	default:
		fmt.Fprintf(w, "Error: %s\n", err.Error())
	}
	return exitCode(err)
}
