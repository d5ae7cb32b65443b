package execshell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandFailedTemplateConstant             = "%s failed with exit code %d"
	commandExecutionFailedTemplateConstant    = "%s failed: %v"
	commandStartedLogMessageConstant          = "shell command starting"
	commandCompletedLogMessageConstant        = "shell command completed"
	commandFailedLogMessageConstant           = "shell command exited with non-zero status"
	commandExecutionFailedLogMessageConstant  = "shell command execution failed"
	logFieldCommandConstant                   = "command"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldRunIdentifierConstant             = "run_id"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardOutputLinesConstant       = "stdout_lines"
	logFieldStandardErrorLinesConstant        = "stderr_lines"
)

// ErrLoggerNotConfigured indicates NewShellExecutor received a nil logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates NewShellExecutor received a nil runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error implements error.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Label(), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that could not be spawned or whose streams failed.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error implements error.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.Label(), failure.Cause)
}

// Unwrap exposes the underlying failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner with structured logging and lifecycle notifications.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observers CommandEventObservers
}

// ShellExecutorOption customizes a ShellExecutor.
type ShellExecutorOption func(*ShellExecutor)

// WithCommandEventObserver registers an observer for command lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ShellExecutorOption {
	return func(executor *ShellExecutor) {
		if observer == nil {
			return
		}
		executor.observers = append(executor.observers, observer)
	}
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, options ...ShellExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	executor := &ShellExecutor{logger: logger, runner: runner}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}
	return executor, nil
}

// Execute runs the command. Non-zero exit statuses are returned as CommandFailedError alongside the result;
// runner failures are returned as CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandLabel := command.Label()
	executor.logger.Info(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, commandLabel),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.observers.CommandStarted(command)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(
			commandExecutionFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, commandLabel),
			zap.String(logFieldRunIdentifierConstant, result.RunIdentifier),
			zap.Error(runError),
		)
		executor.observers.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	resultFields := []zap.Field{
		zap.String(logFieldCommandConstant, commandLabel),
		zap.String(logFieldRunIdentifierConstant, result.RunIdentifier),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.Int(logFieldStandardOutputLinesConstant, result.StandardOutputLines),
		zap.Int(logFieldStandardErrorLinesConstant, result.StandardErrorLines),
	}
	executor.observers.CommandCompleted(command, result)

	if result.ExitCode != 0 {
		executor.logger.Warn(commandFailedLogMessageConstant, resultFields...)
		return result, CommandFailedError{Command: command, Result: result}
	}

	executor.logger.Info(commandCompletedLogMessageConstant, resultFields...)
	return result, nil
}
