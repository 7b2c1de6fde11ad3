package execshell

// CommandEventObserver receives lifecycle notifications as the executor runs
// git, the scanner, and curl on behalf of an export-and-publish run. The
// console event logger in internal/ui is the only production implementation;
// a discarding observer is installed when none is configured.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

type discardingCommandEventObserver struct{}

func (discardingCommandEventObserver) CommandStarted(ShellCommand) {}

func (discardingCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
