package cli

import (
	"errors"

	"github.com/screenerbot/publisher/internal/execshell"
)

const fallbackExitCodeConstant = 1

// ExitCode maps an execution error to the process exit code. When the run
// failed because an external command exited non-zero (the fatal scan step is
// the only stage that surfaces such errors), that command's own exit code is
// propagated.
func ExitCode(executionError error) int {
	if executionError == nil {
		return 0
	}

	commandFailure := execshell.CommandFailedError{}
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode > 0 {
		return commandFailure.Result.ExitCode
	}

	return fallbackExitCodeConstant
}
