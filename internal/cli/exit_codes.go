package cli

import (
	"context"
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changegen/internal/errors"
)

// Exit codes for the changegen CLI
// These codes support scripting and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (git or file I/O)
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or flags
	ExitInvalidArguments = 2

	// ExitMissingPrerequisite indicates the changelog, its Unreleased
	// section, or the repository is missing
	ExitMissingPrerequisite = 3

	// ExitConfigError indicates the configuration could not be loaded
	ExitConfigError = 4

	// ExitTimeout indicates reading git history exceeded git_timeout
	ExitTimeout = 5
)

// ExitError carries a specific process exit code without a message of its
// own; the command has already reported what went wrong.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingPrerequisite
		case clierrors.Configuration:
			return ExitConfigError
		}
	}

	return ExitFailure
}
