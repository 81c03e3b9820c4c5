package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	gitExecutableNameConstant              = "git"
	pythonExecutableNameConstant           = "python3"
	loggerNotConfiguredMessageConstant     = "logger not configured"
	runnerNotConfiguredMessageConstant     = "command runner not configured"
	commandFailedTemplateConstant          = "%s exited with code %d%s"
	commandExecutionFailedTemplateConstant = "%s execution failed: %v"
	standardErrorSuffixTemplateConstant    = ": %s"
	commandStartedLogMessageConstant       = "Executing command"
	commandCompletedLogMessageConstant     = "Command completed"
	commandNameLogFieldConstant            = "command_name"
	commandArgumentsLogFieldConstant       = "command_arguments"
	workingDirectoryLogFieldConstant       = "working_directory"
	exitCodeLogFieldConstant               = "exit_code"
	standardErrorLogFieldConstant          = "standard_error"
)

// CommandName identifies a supported executable.
type CommandName string

// Supported executables.
const (
	CommandGit    CommandName = CommandName(gitExecutableNameConstant)
	CommandPython CommandName = CommandName(pythonExecutableNameConstant)
)

// CommandDetails captures the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a CommandName with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outputs of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the command failure including trimmed standard error output.
func (failure CommandFailedError) Error() string {
	standardErrorSuffix := ""
	if len(failure.Result.StandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, failure.Result.StandardError)
	}
	return fmt.Sprintf(commandFailedTemplateConstant, commandLabel(failure.Command), failure.Result.ExitCode, standardErrorSuffix)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, commandLabel(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs shell commands through a CommandRunner with structured logging.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	eventObserver        CommandEventObserver
	humanReadableLogging bool
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		eventObserver:        noopCommandEventObserver{},
		humanReadableLogging: humanReadableLogging,
	}, nil
}

// SetCommandEventObserver installs an observer that receives command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecutePython runs the python interpreter with the provided details.
func (executor *ShellExecutor) ExecutePython(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPython, Details: details})
}

// ExecuteExecutable runs an arbitrary executable path with the provided details.
func (executor *ShellExecutor) ExecuteExecutable(executionContext context.Context, executablePath string, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandName(executablePath), Details: details})
}

// Execute runs the supplied command, logging lifecycle events and translating failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStart(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		executor.logCommandExecutionFailure(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	executor.logCommandCompletion(command, executionResult)

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// Structured command logging is suppressed under human-readable logging because
// the installed console observer already narrates command lifecycle events.
func (executor *ShellExecutor) logCommandStart(command ShellCommand) {
	if executor.humanReadableLogging {
		return
	}
	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(commandNameLogFieldConstant, string(command.Name)),
		zap.Strings(commandArgumentsLogFieldConstant, command.Details.Arguments),
		zap.String(workingDirectoryLogFieldConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompletion(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		return
	}
	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(commandNameLogFieldConstant, string(command.Name)),
		zap.Int(exitCodeLogFieldConstant, result.ExitCode),
	)
}

func (executor *ShellExecutor) logCommandExecutionFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		return
	}
	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(commandNameLogFieldConstant, string(command.Name)),
		zap.String(standardErrorLogFieldConstant, failure.Error()),
	)
}
